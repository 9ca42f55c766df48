package constants

import (
	"fmt"
	"time"
)

// Cache TTL tiers. Availability is deliberately short lived because the
// authoritative count lives in Postgres behind row locks.
const (
	CacheTTLShort  = 30 * time.Second
	CacheTTLMedium = 5 * time.Minute
	CacheTTLLong   = 1 * time.Hour
	CacheTTLDay    = 24 * time.Hour
)

// Cache key prefixes
const (
	EventCachePrefix        = "starevents:events"
	AvailabilityCachePrefix = "starevents:availability"
	BookingCachePrefix      = "starevents:bookings"
	ReportCachePrefix       = "starevents:reports"
	UserCachePrefix         = "starevents:users"
)

// BuildEventKey builds the cache key for a single event with its ticket types.
func BuildEventKey(eventID string) string {
	return fmt.Sprintf("%s:%s", EventCachePrefix, eventID)
}

// BuildEventListKey builds the cache key for the published-event listing.
func BuildEventListKey(category, venue string) string {
	return fmt.Sprintf("%s:list:%s:%s", EventCachePrefix, category, venue)
}

// BuildAvailabilityKey builds the cache key for a ticket type's remaining count.
func BuildAvailabilityKey(ticketTypeID string) string {
	return fmt.Sprintf("%s:%s", AvailabilityCachePrefix, ticketTypeID)
}

// BuildUserBookingsKey builds the cache key for a user's booking history.
func BuildUserBookingsKey(userID string) string {
	return fmt.Sprintf("%s:user:%s", BookingCachePrefix, userID)
}

// BuildRevenueReportKey builds the cache key for a revenue report scope.
func BuildRevenueReportKey(scope string) string {
	return fmt.Sprintf("%s:revenue:%s", ReportCachePrefix, scope)
}

// EventCachePattern matches every cached event entry.
func EventCachePattern() string {
	return EventCachePrefix + ":*"
}

// AvailabilityCachePattern matches every cached availability entry for an event's ticket types.
func AvailabilityCachePattern() string {
	return AvailabilityCachePrefix + ":*"
}
