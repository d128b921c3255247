package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "tripmarket"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 20
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// A booking may be cancelled up to this long before its date. The web
	// client always advertised 48 hours, so that is the single threshold.
	DefaultCancellationWindow = 48 * time.Hour

	// Advisory slot locks auto-expire so an abandoned request cannot wedge
	// a slot.
	DefaultBookingLockTTL = 10 * time.Second

	DefaultEnforceItineraryDates = true

	DefaultEventsEnabled = false

	DefaultPaginationLimit = 100
)
