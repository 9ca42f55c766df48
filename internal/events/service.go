package events

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"starevents/internal/shared/constants"
	"starevents/pkg/cache"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound  = errors.New("event not found")
	ErrNotEventOwner  = errors.New("event belongs to another manager")
	ErrEventNotOnSale = errors.New("event is not open for booking")
)

type Service interface {
	SetCacheService(cacheService cache.Service)

	CreateEvent(managerID uuid.UUID, req CreateEventRequest) (*EventResponse, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*EventResponse, error)
	UpdateEvent(id, managerID uuid.UUID, isAdmin bool, req UpdateEventRequest) (*EventResponse, error)
	DeleteEvent(id, managerID uuid.UUID, isAdmin bool) error
	GetAllEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error)
	GetManagerEvents(managerID uuid.UUID) ([]EventResponse, error)

	AddTicketType(eventID, managerID uuid.UUID, isAdmin bool, req CreateTicketTypeRequest) (*TicketTypeResponse, error)
	GetAvailability(ctx context.Context, eventID uuid.UUID) (*AvailabilityResponse, error)

	// Bookable returns the event when it is published and not yet past.
	Bookable(eventID uuid.UUID) (*Event, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) invalidateEventCache(ctx context.Context, eventID *uuid.UUID) {
	if s.cacheService == nil {
		return
	}

	_ = s.cacheService.DeletePattern(ctx, constants.EventCachePattern())
	if eventID != nil {
		_ = s.cacheService.Delete(ctx, constants.BuildEventKey(eventID.String()))
	}
}

func (s *service) CreateEvent(managerID uuid.UUID, req CreateEventRequest) (*EventResponse, error) {
	event := &Event{
		Name:        req.Name,
		Description: req.Description,
		Venue:       req.Venue,
		Category:    req.Category,
		Date:        req.Date,
		StartTime:   req.StartTime,
		Status:      StatusDraft,
		PosterURL:   req.PosterURL,
		ManagerID:   managerID,
	}

	for _, tt := range req.TicketTypes {
		event.TicketTypes = append(event.TicketTypes, TicketType{
			Name:            tt.Name,
			Price:           tt.Price,
			TotalAvailable:  tt.Capacity,
			InitialCapacity: tt.Capacity,
		})
	}

	if err := s.repo.Create(event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.invalidateEventCache(context.Background(), nil)

	response := event.ToResponse()
	return &response, nil
}

func (s *service) GetEventByID(ctx context.Context, id uuid.UUID) (*EventResponse, error) {
	if s.cacheService != nil {
		var cached EventResponse
		err := s.cacheService.GetOrSet(ctx, constants.BuildEventKey(id.String()), constants.CacheTTLMedium,
			func() (interface{}, error) {
				event, err := s.repo.GetByID(id)
				if err != nil {
					return nil, err
				}
				return event.ToResponse(), nil
			}, &cached)
		if err == nil {
			return &cached, nil
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	event, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	response := event.ToResponse()
	return &response, nil
}

func (s *service) UpdateEvent(id, managerID uuid.UUID, isAdmin bool, req UpdateEventRequest) (*EventResponse, error) {
	event, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	if !isAdmin && event.ManagerID != managerID {
		return nil, ErrNotEventOwner
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Venue != nil {
		updates["venue"] = *req.Venue
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if req.StartTime != nil {
		updates["start_time"] = *req.StartTime
	}
	if req.Status != nil {
		if !IsValidStatus(*req.Status) {
			return nil, fmt.Errorf("invalid status: %s", *req.Status)
		}
		updates["status"] = *req.Status
	}
	if req.PosterURL != nil {
		updates["poster_url"] = *req.PosterURL
	}

	if len(updates) == 0 {
		response := event.ToResponse()
		return &response, nil
	}

	updated, err := s.repo.Update(id, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.invalidateEventCache(context.Background(), &id)

	response := updated.ToResponse()
	return &response, nil
}

func (s *service) DeleteEvent(id, managerID uuid.UUID, isAdmin bool) error {
	event, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	if !isAdmin && event.ManagerID != managerID {
		return ErrNotEventOwner
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	s.invalidateEventCache(context.Background(), &id)
	return nil
}

func (s *service) GetAllEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error) {
	events, totalCount, err := s.repo.GetAll(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 10
	}

	responses := make([]EventResponse, len(events))
	for i := range events {
		responses[i] = events[i].ToResponse()
	}

	return &PaginatedEvents{
		Events:     responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(query.Limit))),
	}, nil
}

func (s *service) GetManagerEvents(managerID uuid.UUID) ([]EventResponse, error) {
	events, err := s.repo.GetByManager(managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list manager events: %w", err)
	}

	responses := make([]EventResponse, len(events))
	for i := range events {
		responses[i] = events[i].ToResponse()
	}
	return responses, nil
}

func (s *service) AddTicketType(eventID, managerID uuid.UUID, isAdmin bool, req CreateTicketTypeRequest) (*TicketTypeResponse, error) {
	event, err := s.repo.GetByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	if !isAdmin && event.ManagerID != managerID {
		return nil, ErrNotEventOwner
	}

	ticketType := &TicketType{
		EventID:         eventID,
		Name:            req.Name,
		Price:           req.Price,
		TotalAvailable:  req.Capacity,
		InitialCapacity: req.Capacity,
	}

	if err := s.repo.CreateTicketType(ticketType); err != nil {
		return nil, fmt.Errorf("failed to create ticket type: %w", err)
	}

	s.invalidateEventCache(context.Background(), &eventID)

	response := ticketType.ToResponse()
	return &response, nil
}

func (s *service) GetAvailability(ctx context.Context, eventID uuid.UUID) (*AvailabilityResponse, error) {
	fetch := func() (interface{}, error) {
		ticketTypes, err := s.repo.GetTicketTypesByEvent(eventID)
		if err != nil {
			return nil, err
		}
		if len(ticketTypes) == 0 {
			if _, err := s.repo.GetByID(eventID); err != nil {
				return nil, err
			}
		}

		responses := make([]TicketTypeResponse, len(ticketTypes))
		for i := range ticketTypes {
			responses[i] = ticketTypes[i].ToResponse()
		}
		return AvailabilityResponse{
			EventID:     eventID.String(),
			TicketTypes: responses,
		}, nil
	}

	if s.cacheService != nil {
		var cached AvailabilityResponse
		err := s.cacheService.GetOrSet(ctx, constants.BuildAvailabilityKey(eventID.String()),
			constants.CacheTTLShort, fetch, &cached)
		if err == nil {
			return &cached, nil
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	result, err := fetch()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	availability := result.(AvailabilityResponse)
	return &availability, nil
}

func (s *service) Bookable(eventID uuid.UUID) (*Event, error) {
	event, err := s.repo.GetByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	if event.Status != StatusPublished {
		return nil, ErrEventNotOnSale
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if event.Date.Before(today) {
		return nil, ErrEventNotOnSale
	}

	return event, nil
}
