package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(event *Event) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockRepository) GetByID(id uuid.UUID) (*Event, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Event), args.Error(1)
}

func (m *MockRepository) Update(id uuid.UUID, updates map[string]interface{}) (*Event, error) {
	args := m.Called(id, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Event), args.Error(1)
}

func (m *MockRepository) Delete(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRepository) GetAll(query EventListQuery) ([]Event, int64, error) {
	args := m.Called(query)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Event), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) GetByManager(managerID uuid.UUID) ([]Event, error) {
	args := m.Called(managerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Event), args.Error(1)
}

func (m *MockRepository) GetTicketType(id uuid.UUID) (*TicketType, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TicketType), args.Error(1)
}

func (m *MockRepository) GetTicketTypesByEvent(eventID uuid.UUID) ([]TicketType, error) {
	args := m.Called(eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]TicketType), args.Error(1)
}

func (m *MockRepository) CreateTicketType(ticketType *TicketType) error {
	args := m.Called(ticketType)
	return args.Error(0)
}

func (m *MockRepository) UpdateTicketTypePrice(id uuid.UUID, price float64) error {
	args := m.Called(id, price)
	return args.Error(0)
}

func TestBookable(t *testing.T) {
	future := time.Now().UTC().AddDate(0, 0, 14)
	past := time.Now().UTC().AddDate(0, 0, -1)

	tests := []struct {
		name    string
		event   *Event
		repoErr error
		wantErr error
	}{
		{
			name:  "published future event",
			event: &Event{Status: StatusPublished, Date: future},
		},
		{
			name:  "published event today",
			event: &Event{Status: StatusPublished, Date: time.Now().UTC()},
		},
		{
			name:    "draft event",
			event:   &Event{Status: StatusDraft, Date: future},
			wantErr: ErrEventNotOnSale,
		},
		{
			name:    "cancelled event",
			event:   &Event{Status: StatusCancelled, Date: future},
			wantErr: ErrEventNotOnSale,
		},
		{
			name:    "published but past",
			event:   &Event{Status: StatusPublished, Date: past},
			wantErr: ErrEventNotOnSale,
		},
		{
			name:    "unknown event",
			repoErr: gorm.ErrRecordNotFound,
			wantErr: ErrEventNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			svc := NewService(repo)

			eventID := uuid.New()
			if tt.repoErr != nil {
				repo.On("GetByID", eventID).Return(nil, tt.repoErr)
			} else {
				tt.event.ID = eventID
				repo.On("GetByID", eventID).Return(tt.event, nil)
			}

			event, err := svc.Bookable(eventID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, eventID, event.ID)
		})
	}
}

func TestCreateEventStartsAsDraft(t *testing.T) {
	repo := new(MockRepository)
	svc := NewService(repo)

	var created *Event
	repo.On("Create", mock.AnythingOfType("*events.Event")).
		Run(func(args mock.Arguments) {
			created = args.Get(0).(*Event)
		}).
		Return(nil)

	_, err := svc.CreateEvent(uuid.New(), CreateEventRequest{
		Name:     "Symphony Under the Stars",
		Venue:    "Galle Face Green",
		Category: "Concert",
		Date:     time.Now().UTC().AddDate(0, 1, 0),
		TicketTypes: []CreateTicketTypeRequest{
			{Name: "VIP", Price: 10000, Capacity: 50},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, StatusDraft, created.Status)
	assert.Equal(t, 50, created.TicketTypes[0].TotalAvailable)
	assert.Equal(t, 50, created.TicketTypes[0].InitialCapacity)
}

func TestInsufficientInventoryErrorMessage(t *testing.T) {
	err := &InsufficientInventoryError{
		TicketTypeID:   uuid.New(),
		TicketTypeName: "VIP",
		Remaining:      2,
		Requested:      5,
	}

	assert.Equal(t, `insufficient inventory for "VIP": 2 remaining, 5 requested`, err.Error())
}
