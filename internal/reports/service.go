package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"starevents/internal/events"
	"starevents/internal/shared/constants"
	"starevents/pkg/cache"
)

const topEventsLimit = 10

// EventCatalog resolves events for manager ownership checks.
type EventCatalog interface {
	GetEventByID(ctx context.Context, id uuid.UUID) (*events.EventResponse, error)
}

type Service interface {
	SetCacheService(cacheService cache.Service)

	// GetRevenueReport builds the platform-wide revenue dashboard.
	GetRevenueReport(ctx context.Context) (*RevenueReport, error)

	// GetEventSalesReport builds a single event's sales breakdown for its
	// manager or an admin.
	GetEventSalesReport(ctx context.Context, userID uuid.UUID, isAdmin bool, eventID uuid.UUID) (*EventSalesReport, error)
}

type service struct {
	repo         Repository
	catalog      EventCatalog
	cacheService cache.Service
}

func NewService(repo Repository, catalog EventCatalog) Service {
	return &service{repo: repo, catalog: catalog}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) GetRevenueReport(ctx context.Context) (*RevenueReport, error) {
	cacheKey := constants.BuildRevenueReportKey("platform")

	if s.cacheService != nil {
		var cached RevenueReport
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	summary, err := s.repo.GetRevenueSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build revenue summary: %w", err)
	}

	topEvents, err := s.repo.GetTopEvents(ctx, topEventsLimit)
	if err != nil {
		return nil, err
	}

	topCustomers, err := s.repo.GetTopCustomers(ctx, topEventsLimit)
	if err != nil {
		return nil, err
	}

	byCategory, err := s.repo.GetRevenueByCategory(ctx)
	if err != nil {
		return nil, err
	}

	byMonth, err := s.repo.GetRevenueByMonth(ctx, 12)
	if err != nil {
		return nil, err
	}

	report := &RevenueReport{
		Summary:      *summary,
		TopEvents:    topEvents,
		TopCustomers: topCustomers,
		ByCategory:   byCategory,
		ByMonth:      byMonth,
		GeneratedAt:  time.Now().UTC(),
	}

	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, cacheKey, report, constants.CacheTTLMedium)
	}

	return report, nil
}

func (s *service) GetEventSalesReport(ctx context.Context, userID uuid.UUID, isAdmin bool, eventID uuid.UUID) (*EventSalesReport, error) {
	event, err := s.catalog.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && event.ManagerID != userID.String() {
		return nil, events.ErrNotEventOwner
	}

	cacheKey := constants.BuildRevenueReportKey("event:" + eventID.String())
	if s.cacheService != nil {
		var cached EventSalesReport
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	revenue, err := s.repo.GetEventRevenue(ctx, eventID)
	if err != nil {
		return nil, err
	}

	daily, err := s.repo.GetEventDailySales(ctx, eventID)
	if err != nil {
		return nil, err
	}

	ticketTypes, err := s.repo.GetEventTicketTypeSales(ctx, eventID)
	if err != nil {
		return nil, err
	}

	report := &EventSalesReport{
		Event:       *revenue,
		DailySales:  daily,
		TicketTypes: ticketTypes,
		GeneratedAt: time.Now().UTC(),
	}

	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, cacheKey, report, constants.CacheTTLShort)
	}

	return report, nil
}
