package tickets

import (
	"time"

	"github.com/google/uuid"
)

type Ticket struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TicketNumber   string    `json:"ticket_number" gorm:"uniqueIndex;not null;size:30"`
	BookingID      uuid.UUID `json:"booking_id" gorm:"type:uuid;not null;index"`
	BookingItemID  uuid.UUID `json:"booking_item_id" gorm:"type:uuid;not null"`
	EventID        uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	TicketTypeID   uuid.UUID `json:"ticket_type_id" gorm:"type:uuid;not null"`
	TicketTypeName string    `json:"ticket_type_name" gorm:"not null;size:100"`
	UserID         uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Status         Status    `json:"status" gorm:"type:varchar(20);default:'ACTIVE'"`
	QRCodeData     string    `json:"qr_code_data" gorm:"type:text"`
	QRCodePath     string    `json:"qr_code_path" gorm:"size:500"`

	IssuedAt  time.Time  `json:"issued_at" gorm:"not null"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	UsedBy    string     `json:"used_by,omitempty" gorm:"size:255"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

type TicketResponse struct {
	ID             string     `json:"id"`
	TicketNumber   string     `json:"ticket_number"`
	BookingID      string     `json:"booking_id"`
	EventID        string     `json:"event_id"`
	TicketTypeName string     `json:"ticket_type_name"`
	Status         Status     `json:"status"`
	QRCodePath     string     `json:"qr_code_path"`
	IssuedAt       time.Time  `json:"issued_at"`
	UsedAt         *time.Time `json:"used_at,omitempty"`
	UsedBy         string     `json:"used_by,omitempty"`
}

type ValidateTicketRequest struct {
	TicketNumber string `json:"ticket_number" binding:"required"`
	EventID      string `json:"event_id" binding:"required,uuid"`
}

type ValidationResult struct {
	Valid        bool   `json:"valid"`
	Reason       string `json:"reason,omitempty"`
	TicketNumber string `json:"ticket_number"`
	Status       Status `json:"status,omitempty"`
}

func (t *Ticket) ToResponse() TicketResponse {
	return TicketResponse{
		ID:             t.ID.String(),
		TicketNumber:   t.TicketNumber,
		BookingID:      t.BookingID.String(),
		EventID:        t.EventID.String(),
		TicketTypeName: t.TicketTypeName,
		Status:         t.Status,
		QRCodePath:     t.QRCodePath,
		IssuedAt:       t.IssuedAt,
		UsedAt:         t.UsedAt,
		UsedBy:         t.UsedBy,
	}
}

// TableName specifies the table name for GORM
func (Ticket) TableName() string {
	return "tickets"
}
