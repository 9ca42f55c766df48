package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"starevents/internal/events"
	"starevents/internal/shared/config"
	"starevents/internal/shared/database"
	"starevents/internal/users"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting StarEvents database seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db.PostgreSQL); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	seeder := &Seeder{db: db}

	fmt.Println("Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("Seeding completed. Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"tickets",
		"payments",
		"booking_items",
		"bookings",
		"ticket_types",
		"events",
		"users",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  truncating %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	if err := s.SeedEvents(userIDs["manager"]); err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}

	// Stale cache entries from a previous run would shadow the new rows.
	if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
		log.Printf("Warning: failed to clear Redis cache: %v", err)
	}

	return nil
}

func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  seeding users...")

	userIDs := make(map[string]uuid.UUID)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key       string
		firstName string
		lastName  string
		email     string
		role      users.Role
	}{
		{"admin", "Amara", "Perera", "admin@starevents.lk", users.RoleAdmin},
		{"manager", "Nuwan", "Fernando", "manager@starevents.lk", users.RoleManager},
		{"customer1", "Ishara", "Silva", "ishara@example.com", users.RoleCustomer},
		{"customer2", "Kasun", "Jayawardena", "kasun@example.com", users.RoleCustomer},
	}

	for _, userData := range usersData {
		user := users.User{
			ID:        uuid.New(),
			FirstName: userData.firstName,
			LastName:  userData.lastName,
			Email:     userData.email,
			Password:  string(hashedPassword),
			Role:      userData.role,
		}

		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", userData.email, err)
		}

		userIDs[userData.key] = user.ID
		fmt.Printf("    created user: %s (%s)\n", user.Email, user.Role)
	}

	return userIDs, nil
}

func (s *Seeder) SeedEvents(managerID uuid.UUID) error {
	fmt.Println("  seeding events...")

	eventsData := []struct {
		name        string
		description string
		venue       string
		category    string
		daysAhead   int
		startTime   string
		status      events.Status
		ticketTypes []events.TicketType
	}{
		{
			name:        "Symphony Under the Stars",
			description: "An open-air orchestral night at Galle Face Green.",
			venue:       "Galle Face Green, Colombo",
			category:    "Concert",
			daysAhead:   21,
			startTime:   "19:00",
			status:      events.StatusPublished,
			ticketTypes: []events.TicketType{
				{Name: "VIP", Price: 10000, TotalAvailable: 50, InitialCapacity: 50},
				{Name: "Regular", Price: 4500, TotalAvailable: 300, InitialCapacity: 300},
			},
		},
		{
			name:        "Colombo Tech Summit",
			description: "Two-day conference on cloud and platform engineering.",
			venue:       "BMICH, Colombo",
			category:    "Conference",
			daysAhead:   45,
			startTime:   "09:00",
			status:      events.StatusPublished,
			ticketTypes: []events.TicketType{
				{Name: "Full Access", Price: 15000, TotalAvailable: 200, InitialCapacity: 200},
				{Name: "Student", Price: 5000, TotalAvailable: 100, InitialCapacity: 100},
			},
		},
		{
			name:        "Kandy Theatre Festival",
			description: "A week of stage drama, still being scheduled.",
			venue:       "Kandy City Centre Hall",
			category:    "Theatre",
			daysAhead:   60,
			startTime:   "18:30",
			status:      events.StatusDraft,
			ticketTypes: []events.TicketType{
				{Name: "General", Price: 2500, TotalAvailable: 400, InitialCapacity: 400},
			},
		},
	}

	for _, eventData := range eventsData {
		event := events.Event{
			ID:          uuid.New(),
			Name:        eventData.name,
			Description: eventData.description,
			Venue:       eventData.venue,
			Category:    eventData.category,
			Date:        time.Now().UTC().AddDate(0, 0, eventData.daysAhead).Truncate(24 * time.Hour),
			StartTime:   eventData.startTime,
			Status:      eventData.status,
			ManagerID:   managerID,
		}

		if err := s.db.PostgreSQL.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to create event %s: %w", eventData.name, err)
		}

		for i := range eventData.ticketTypes {
			tt := eventData.ticketTypes[i]
			tt.ID = uuid.New()
			tt.EventID = event.ID
			if err := s.db.PostgreSQL.Create(&tt).Error; err != nil {
				return fmt.Errorf("failed to create ticket type %s: %w", tt.Name, err)
			}
		}

		fmt.Printf("    created event: %s (%s)\n", event.Name, event.Status)
	}

	return nil
}
