package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings" // strings splits list-valued variables
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. A missing required variable is a fatal
// misconfiguration: the process exits at startup rather than serving
// requests it cannot complete.
type Config struct {
	Env            string   // application environment (e.g. "dev", "prod")
	Port           string   // HTTP port to listen on
	DBUser         string   // database username
	DBPass         string   // database password (optional)
	DBHost         string   // database host address
	DBPort         string   // database port number
	DBName         string   // database name
	JWTSecret      string   // secret used to sign JWTs
	AccessTTLMin   int      // access token time-to-live in minutes
	RefreshTTLDays int      // refresh token time-to-live in days
	BcryptCost     int      // bcrypt cost for password hashing

	SuperAdminEmail  string   // the single email mapped to the super-admin role
	AdminEmails      []string // allow-list of emails mapped to the admin role
	CoachDomain      string   // email domain whose members sign up as coaches
	DefaultCompanyID string   // company new signups are attached to

	StripeTestKey        string // secret key for the test-mode Stripe client
	StripeLiveKey        string // secret key for the live-mode Stripe client
	StripeReturnURL      string // browser return target after onboarding
	StripeRefreshURL     string // browser target when an onboarding link expires
	StripeSetupSuccess   string // browser return target after payment setup
	StripeSetupCancel    string // browser target when payment setup is abandoned
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),

		SuperAdminEmail:  must("SUPER_ADMIN_EMAIL"),
		AdminEmails:      splitList(os.Getenv("ADMIN_EMAILS")),
		CoachDomain:      must("COACH_EMAIL_DOMAIN"),
		DefaultCompanyID: must("DEFAULT_COMPANY_ID"),

		StripeTestKey:      must("STRIPE_SECRET_KEY_TEST"),
		StripeLiveKey:      must("STRIPE_SECRET_KEY_LIVE"),
		StripeReturnURL:    must("STRIPE_CONNECT_RETURN_URL"),
		StripeRefreshURL:   must("STRIPE_CONNECT_REFRESH_URL"),
		StripeSetupSuccess: must("STRIPE_SETUP_SUCCESS_URL"),
		StripeSetupCancel:  must("STRIPE_SETUP_CANCEL_URL"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// splitList parses a comma-separated list, trimming whitespace and
// dropping empty entries. An empty input yields an empty list.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
