package database

import "gorm.io/gorm"

// applyConstraints adds the checks AutoMigrate cannot express. The
// non-negative availability check is the database-level backstop for the
// reservation path; the locked read-then-decrement should never violate it.
func applyConstraints(db *gorm.DB) error {
	statements := []string{
		`ALTER TABLE ticket_types DROP CONSTRAINT IF EXISTS chk_ticket_types_total_available;
		 ALTER TABLE ticket_types ADD CONSTRAINT chk_ticket_types_total_available CHECK (total_available >= 0)`,
		`ALTER TABLE ticket_types DROP CONSTRAINT IF EXISTS chk_ticket_types_initial_capacity;
		 ALTER TABLE ticket_types ADD CONSTRAINT chk_ticket_types_initial_capacity CHECK (total_available <= initial_capacity)`,
		`ALTER TABLE booking_items DROP CONSTRAINT IF EXISTS chk_booking_items_quantity;
		 ALTER TABLE booking_items ADD CONSTRAINT chk_booking_items_quantity CHECK (quantity > 0)`,
		`ALTER TABLE payments DROP CONSTRAINT IF EXISTS chk_payments_amount;
		 ALTER TABLE payments ADD CONSTRAINT chk_payments_amount CHECK (amount >= 0)`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
