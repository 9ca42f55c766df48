package events

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(event *Event) error
	GetByID(id uuid.UUID) (*Event, error)
	Update(id uuid.UUID, updates map[string]interface{}) (*Event, error)
	Delete(id uuid.UUID) error
	GetAll(query EventListQuery) ([]Event, int64, error)
	GetByManager(managerID uuid.UUID) ([]Event, error)
	GetTicketType(id uuid.UUID) (*TicketType, error)
	GetTicketTypesByEvent(eventID uuid.UUID) ([]TicketType, error)
	CreateTicketType(ticketType *TicketType) error
	UpdateTicketTypePrice(id uuid.UUID, price float64) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(event *Event) error {
	return r.db.Create(event).Error
}

func (r *repository) GetByID(id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.Preload("TicketTypes").Where("id = ?", id).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *repository) Update(id uuid.UUID, updates map[string]interface{}) (*Event, error) {
	var event Event

	if err := r.db.Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&event).Updates(updates).Error; err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

func (r *repository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&TicketType{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&Event{}).Error
	})
}

func (r *repository) GetAll(query EventListQuery) ([]Event, int64, error) {
	var events []Event
	var totalCount int64

	db := r.db.Model(&Event{})

	if query.Search != "" {
		searchTerm := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(venue) LIKE ?",
			searchTerm, searchTerm, searchTerm)
	}

	if query.Venue != "" {
		db = db.Where("LOWER(venue) LIKE ?", "%"+strings.ToLower(query.Venue)+"%")
	}

	if query.Category != "" {
		db = db.Where("LOWER(category) = ?", strings.ToLower(query.Category))
	}

	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	if query.DateFrom != "" {
		if dateFrom, err := time.Parse("2006-01-02", query.DateFrom); err == nil {
			db = db.Where("date >= ?", dateFrom)
		}
	}

	if query.DateTo != "" {
		if dateTo, err := time.Parse("2006-01-02", query.DateTo); err == nil {
			// include the entire final day
			dateTo = dateTo.Add(24 * time.Hour)
			db = db.Where("date < ?", dateTo)
		}
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 10
	}

	offset := (query.Page - 1) * query.Limit

	err := db.Preload("TicketTypes").
		Order("date ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&events).Error

	return events, totalCount, err
}

func (r *repository) GetByManager(managerID uuid.UUID) ([]Event, error) {
	var events []Event
	err := r.db.Preload("TicketTypes").
		Where("manager_id = ?", managerID).
		Order("date ASC").
		Find(&events).Error
	return events, err
}

func (r *repository) GetTicketType(id uuid.UUID) (*TicketType, error) {
	var ticketType TicketType
	err := r.db.Where("id = ?", id).First(&ticketType).Error
	if err != nil {
		return nil, err
	}
	return &ticketType, nil
}

func (r *repository) GetTicketTypesByEvent(eventID uuid.UUID) ([]TicketType, error) {
	var ticketTypes []TicketType
	err := r.db.Where("event_id = ?", eventID).Order("price ASC").Find(&ticketTypes).Error
	return ticketTypes, err
}

func (r *repository) CreateTicketType(ticketType *TicketType) error {
	return r.db.Create(ticketType).Error
}

func (r *repository) UpdateTicketTypePrice(id uuid.UUID, price float64) error {
	return r.db.Model(&TicketType{}).Where("id = ?", id).Update("price", price).Error
}
