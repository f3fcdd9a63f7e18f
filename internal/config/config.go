package config // package config loads application configuration from environment variables

import (
	"log" // log is used to report configuration errors and halt execution
	"os"  // os provides access to environment variables
	"time"
)

// Config holds all runtime configuration values.  Each field maps to an
// environment variable.  Connection settings are required; the booking
// policy knobs carry documented defaults so a bare environment still
// boots a working engine.
type Config struct {
	Env    string // application environment (e.g. "dev", "prod")
	Port   string // HTTP port to listen on
	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	// Booking policy.  Quota windows are hours before departure at
	// which the quota opens; every quota closes at departure.
	TatkalOpenHours        int           // tatkal window start
	PremiumTatkalOpenHours int           // premium tatkal window start
	WaitlistMax            int           // max live entries per (key, quota) queue
	LockWait               time.Duration // bound on per-key lock acquisition
	BookingHorizonDays     int           // how far ahead inventory is opened
	BerthFallback          bool          // allow assignment across berth types when the requested one is full

	// Refund tiers, keyed by hours to departure at cancellation time.
	// At or beyond RefundFullHours nothing is retained; between
	// RefundHalfHours and RefundFullHours half the fare is retained;
	// under RefundHalfHours LateChargePct is retained.
	RefundFullHours int // full-refund boundary
	RefundHalfHours int // half-charge boundary
	HalfChargePct   int // percent of fare retained in the middle tier
	LateChargePct   int // percent of fare retained in the late tier
}

// Load reads configuration values from environment variables and
// returns a Config.  Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:    must("APP_ENV"),      // environment (dev/test/prod)
		Port:   must("APP_PORT"),     // port to bind the HTTP server
		DBUser: must("DB_USER"),      // database user
		DBPass: os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost: must("DB_HOST"),      // database host
		DBPort: must("DB_PORT"),      // database port
		DBName: must("DB_NAME"),      // database name

		TatkalOpenHours:        envInt("TATKAL_OPEN_HOURS", 24),
		PremiumTatkalOpenHours: envInt("PTATKAL_OPEN_HOURS", 12),
		WaitlistMax:            envInt("WAITLIST_MAX", 20),
		LockWait:               envDur("LOCK_WAIT", 2*time.Second),
		BookingHorizonDays:     envInt("BOOKING_HORIZON_DAYS", 60),
		BerthFallback:          envBool("BERTH_FALLBACK", false),

		RefundFullHours: envInt("REFUND_FULL_HOURS", 12),
		RefundHalfHours: envInt("REFUND_HALF_HOURS", 4),
		HalfChargePct:   envInt("REFUND_HALF_CHARGE_PCT", 50),
		LateChargePct:   envInt("REFUND_LATE_CHARGE_PCT", 75),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
