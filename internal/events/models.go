package events

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Description string    `json:"description" gorm:"type:text"`
	Venue       string    `json:"venue" gorm:"not null;size:255"`
	Category    string    `json:"category" gorm:"size:100;index"`
	Date        time.Time `json:"date" gorm:"not null;index"`
	StartTime   string    `json:"start_time" gorm:"size:20"`
	Status      Status    `json:"status" gorm:"type:varchar(20);default:'DRAFT'"`
	PosterURL   string    `json:"poster_url" gorm:"size:500"`

	TicketTypes []TicketType `json:"ticket_types,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`

	ManagerID uuid.UUID `json:"manager_id" gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TicketType is a priced inventory pool for an event. TotalAvailable is
// the live remaining count; InitialCapacity is fixed at creation and caps
// what cancellations can restore.
type TicketType struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID         uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	Name            string    `json:"name" gorm:"not null;size:100"`
	Price           float64   `json:"price" gorm:"not null;check:price >= 0"`
	TotalAvailable  int       `json:"total_available" gorm:"not null"`
	InitialCapacity int       `json:"initial_capacity" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type EventResponse struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Venue       string               `json:"venue"`
	Category    string               `json:"category"`
	Date        time.Time            `json:"date"`
	StartTime   string               `json:"start_time"`
	Status      Status               `json:"status"`
	PosterURL   string               `json:"poster_url"`
	ManagerID   string               `json:"manager_id"`
	TicketTypes []TicketTypeResponse `json:"ticket_types"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type TicketTypeResponse struct {
	ID              string  `json:"id"`
	EventID         string  `json:"event_id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	TotalAvailable  int     `json:"total_available"`
	InitialCapacity int     `json:"initial_capacity"`
	SoldOut         bool    `json:"sold_out"`
}

func (e *Event) ToResponse() EventResponse {
	ticketTypes := make([]TicketTypeResponse, len(e.TicketTypes))
	for i := range e.TicketTypes {
		ticketTypes[i] = e.TicketTypes[i].ToResponse()
	}

	return EventResponse{
		ID:          e.ID.String(),
		Name:        e.Name,
		Description: e.Description,
		Venue:       e.Venue,
		Category:    e.Category,
		Date:        e.Date,
		StartTime:   e.StartTime,
		Status:      e.Status,
		PosterURL:   e.PosterURL,
		ManagerID:   e.ManagerID.String(),
		TicketTypes: ticketTypes,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func (t *TicketType) ToResponse() TicketTypeResponse {
	return TicketTypeResponse{
		ID:              t.ID.String(),
		EventID:         t.EventID.String(),
		Name:            t.Name,
		Price:           t.Price,
		TotalAvailable:  t.TotalAvailable,
		InitialCapacity: t.InitialCapacity,
		SoldOut:         t.TotalAvailable <= 0,
	}
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return "events"
}

func (TicketType) TableName() string {
	return "ticket_types"
}
