package events

import "time"

type CreateEventRequest struct {
	Name        string                    `json:"name" binding:"required,min=3,max=255"`
	Description string                    `json:"description" binding:"max=2000"`
	Venue       string                    `json:"venue" binding:"required,min=3,max=255"`
	Category    string                    `json:"category" binding:"max=100"`
	Date        time.Time                 `json:"date" binding:"required"`
	StartTime   string                    `json:"start_time" binding:"max=20"`
	PosterURL   string                    `json:"poster_url" binding:"omitempty,url"`
	TicketTypes []CreateTicketTypeRequest `json:"ticket_types" binding:"required,min=1,dive"`
}

type CreateTicketTypeRequest struct {
	Name     string  `json:"name" binding:"required,min=1,max=100"`
	Price    float64 `json:"price" binding:"min=0"`
	Capacity int     `json:"capacity" binding:"required,min=1,max=100000"`
}

type UpdateEventRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=3,max=255"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	Venue       *string    `json:"venue" binding:"omitempty,min=3,max=255"`
	Category    *string    `json:"category" binding:"omitempty,max=100"`
	Date        *time.Time `json:"date"`
	StartTime   *string    `json:"start_time" binding:"omitempty,max=20"`
	Status      *string    `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED CANCELLED COMPLETED"`
	PosterURL   *string    `json:"poster_url" binding:"omitempty,url"`
}

type EventListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	Venue    string `form:"venue"`
	Category string `form:"category"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Status   string `form:"status" binding:"omitempty,oneof=DRAFT PUBLISHED CANCELLED COMPLETED"`
}

type PaginatedEvents struct {
	Events     []EventResponse `json:"events"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// AvailabilityResponse reports the live remaining counts for an event's
// ticket types.
type AvailabilityResponse struct {
	EventID     string               `json:"event_id"`
	TicketTypes []TicketTypeResponse `json:"ticket_types"`
}
