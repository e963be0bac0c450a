package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/hmperform/coaching-api/internal/billing"
	"github.com/hmperform/coaching-api/internal/config"
	"github.com/hmperform/coaching-api/internal/database"
	"github.com/hmperform/coaching-api/internal/handler"
	"github.com/hmperform/coaching-api/internal/identity"
	"github.com/hmperform/coaching-api/internal/lifecycle"
	"github.com/hmperform/coaching-api/internal/middleware"
	"github.com/hmperform/coaching-api/internal/payment"
	"github.com/hmperform/coaching-api/internal/queue"
	"github.com/hmperform/coaching-api/internal/repository"
	"github.com/hmperform/coaching-api/internal/router"
	"github.com/hmperform/coaching-api/internal/views"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer func() { _ = db.Close() }()

	users := repository.NewUserRepo(db)
	companies := repository.NewCompanyRepo(db)
	sessions := repository.NewSessionRepo(db)
	tokens := repository.NewTokenRepo(db)

	policy := identity.RolePolicy{
		SuperAdminEmail: cfg.SuperAdminEmail,
		AdminEmails:     cfg.AdminEmails,
		CoachDomain:     cfg.CoachDomain,
	}
	resolver := identity.NewResolver(users)
	engine := lifecycle.NewEngine(sessions, users)
	viewer := views.New(sessions, users)

	platform := payment.NewStripePlatform(payment.StripeConfig{
		TestSecretKey: cfg.StripeTestKey,
		LiveSecretKey: cfg.StripeLiveKey,
		ReturnURL:     cfg.StripeReturnURL,
		RefreshURL:    cfg.StripeRefreshURL,
		SetupSuccess:  cfg.StripeSetupSuccess,
		SetupCancel:   cfg.StripeSetupCancel,
	})
	manager := billing.NewManager(companies, users, platform)

	authH := handler.NewAuthHandler(cfg, policy, users, tokens)
	sessionH := handler.NewSessionHandler(resolver, engine, viewer)
	reviewH := handler.NewReviewHandler(resolver, engine)
	rosterH := handler.NewRosterHandler(resolver, viewer, cfg.DefaultCompanyID)
	billingH := handler.NewBillingHandler(resolver, manager)

	// Redis-backed token bucket on the credential endpoints.
	rlCfg := config.LoadRateLimitConfig()
	var rateLimit echo.MiddlewareFunc
	if rlCfg.Enabled {
		rateLimit = middleware.NewTokenBucket(rlCfg, config.NewRedisClient())
	}

	e := echo.New()
	router.RegisterRoutes(e, rosterH, billingH)
	router.RegisterAuth(e, authH, cfg.JWTSecret, rateLimit)
	router.RegisterSessions(e, sessionH, reviewH, cfg.JWTSecret)
	router.RegisterRoster(e, rosterH, cfg.JWTSecret)
	router.RegisterBilling(e, billingH, cfg.JWTSecret)

	// Audit consumer: appends every status change event to the audit
	// log. Runs for the lifetime of the process and reconnects on
	// broker failure.
	go func() {
		if err := queue.StartStatusConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
