package events

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newInventoryTestDB wires gorm to a sqlmock connection. The locked reads
// use FOR UPDATE, which only a postgres dialector can render, so the tests
// run against expectations instead of an embedded database.
func newInventoryTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)

	return db, mock
}

func ticketTypeRows(ticketType *TicketType) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "event_id", "name", "price", "total_available", "initial_capacity"}).
		AddRow(ticketType.ID.String(), ticketType.EventID.String(), ticketType.Name,
			ticketType.Price, ticketType.TotalAvailable, ticketType.InitialCapacity)
}

func TestReserveShortfallHoldsNothing(t *testing.T) {
	db, mock := newInventoryTestDB(t)
	inv := NewInventory()

	pool := &TicketType{
		ID:              uuid.New(),
		EventID:         uuid.New(),
		Name:            "VIP",
		Price:           1500,
		TotalAvailable:  2,
		InitialCapacity: 50,
	}
	mock.ExpectQuery(`SELECT (.+) FROM "ticket_types"`).WillReturnRows(ticketTypeRows(pool))

	_, err := inv.Reserve(db, pool.ID, 5)

	var insufficientErr *InsufficientInventoryError
	assert.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, "VIP", insufficientErr.TicketTypeName)
	assert.Equal(t, 2, insufficientErr.Remaining)
	assert.Equal(t, 5, insufficientErr.Requested)
	assert.NoError(t, mock.ExpectationsWereMet(), "a failed reserve must not touch the count")
}

func TestReserveTakesExactLastUnits(t *testing.T) {
	db, mock := newInventoryTestDB(t)
	inv := NewInventory()

	pool := &TicketType{
		ID:              uuid.New(),
		EventID:         uuid.New(),
		Name:            "Regular",
		Price:           400,
		TotalAvailable:  5,
		InitialCapacity: 100,
	}
	mock.ExpectQuery(`SELECT (.+) FROM "ticket_types"`).WillReturnRows(ticketTypeRows(pool))
	mock.ExpectExec(`UPDATE "ticket_types" SET`).
		WithArgs(0, sqlmock.AnyArg(), pool.ID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	reserved, err := inv.Reserve(db, pool.ID, 5)

	assert.NoError(t, err)
	assert.Equal(t, 0, reserved.TotalAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveUnknownTicketType(t *testing.T) {
	db, mock := newInventoryTestDB(t)
	inv := NewInventory()

	mock.ExpectQuery(`SELECT (.+) FROM "ticket_types"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := inv.Reserve(db, uuid.New(), 1)

	assert.ErrorIs(t, err, ErrTicketTypeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveRejectsNonPositiveQuantity(t *testing.T) {
	db, mock := newInventoryTestDB(t)
	inv := NewInventory()

	_, err := inv.Reserve(db, uuid.New(), 0)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet(), "no rows may be read for an invalid quantity")
}

func TestReleaseClampsAtInitialCapacity(t *testing.T) {
	db, mock := newInventoryTestDB(t)
	inv := NewInventory()

	pool := &TicketType{
		ID:              uuid.New(),
		EventID:         uuid.New(),
		Name:            "Regular",
		Price:           400,
		TotalAvailable:  95,
		InitialCapacity: 100,
	}
	mock.ExpectQuery(`SELECT (.+) FROM "ticket_types"`).WillReturnRows(ticketTypeRows(pool))
	mock.ExpectExec(`UPDATE "ticket_types" SET`).
		WithArgs(100, sqlmock.AnyArg(), pool.ID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	released, err := inv.Release(db, pool.ID, 10)

	assert.NoError(t, err)
	assert.Equal(t, 100, released.TotalAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseRestoresUnitsBelowCapacity(t *testing.T) {
	db, mock := newInventoryTestDB(t)
	inv := NewInventory()

	pool := &TicketType{
		ID:              uuid.New(),
		EventID:         uuid.New(),
		Name:            "VIP",
		Price:           1500,
		TotalAvailable:  40,
		InitialCapacity: 50,
	}
	mock.ExpectQuery(`SELECT (.+) FROM "ticket_types"`).WillReturnRows(ticketTypeRows(pool))
	mock.ExpectExec(`UPDATE "ticket_types" SET`).
		WithArgs(43, sqlmock.AnyArg(), pool.ID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	released, err := inv.Release(db, pool.ID, 3)

	assert.NoError(t, err)
	assert.Equal(t, 43, released.TotalAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}
