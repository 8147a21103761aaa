package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	billingmod "github.com/AMR-Works/toolshub/modules/billing"
	"github.com/AMR-Works/toolshub/modules/contact"
	"github.com/AMR-Works/toolshub/pkg/billing"
	"github.com/AMR-Works/toolshub/pkg/config"
	"github.com/AMR-Works/toolshub/pkg/email"
	"github.com/AMR-Works/toolshub/pkg/httpserver"
	"github.com/AMR-Works/toolshub/pkg/jwt"
	"github.com/AMR-Works/toolshub/pkg/logger"
	"github.com/AMR-Works/toolshub/pkg/pg"
)

type appConfig struct {
	Logger   logger.Config
	Server   httpserver.Config
	DB       pg.Config
	Email    email.Config
	Paddle   billing.PaddleConfig
	Razorpay billing.RazorpayConfig

	JWTSigningKey string `env:"JWT_SIGNING_KEY,required"`
	PlansPath     string `env:"PLANS_PATH" envDefault:"configs/plans.yaml"`
	DevEmailDir   string `env:"DEV_EMAIL_DIR"`
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.NewFromConfig(cfg.Logger, logger.WithAttr(slog.String("app", "toolshub")))
	logger.SetAsDefault(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	pool, err := pg.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.DB, log); err != nil {
		return err
	}

	paddleGateway, err := billing.NewPaddleGateway(cfg.Paddle)
	if err != nil {
		return err
	}
	razorpayGateway, err := billing.NewRazorpayGateway(cfg.Razorpay)
	if err != nil {
		return err
	}

	catalog, err := billing.NewCatalog(ctx, billing.NewYAMLPlanSource(cfg.PlansPath))
	if err != nil {
		return err
	}

	verifier := billing.NewService(
		paddleGateway,
		razorpayGateway,
		billing.NewPostgresSubscriptionStore(pool),
		billing.NewPostgresAccessStore(pool),
		catalog,
		billing.WithLogger(log),
	)

	tokenService, err := jwt.NewFromString(cfg.JWTSigningKey)
	if err != nil {
		return err
	}

	sender, err := buildSender(cfg, log)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", httpserver.HealthCheckHandler(ctx, log, pg.Healthcheck(pool)))

	r.Group(func(r chi.Router) {
		r.Use(jwt.Middleware(tokenService))
		r.Mount("/billing", billingmod.Router(billingmod.RouterOptions{
			Checkout: billingmod.NewService(verifier, log),
		}))
	})

	r.Mount("/contact", contact.NewService(sender, cfg.Email.SupportEmail, log).Handle())

	return httpserver.NewFromConfig(cfg.Server, httpserver.WithLogger(log)).Run(ctx, r)
}

// buildSender picks Postmark when a server token is configured and falls
// back to the file-based dev sender otherwise.
func buildSender(cfg appConfig, log *slog.Logger) (email.EmailSender, error) {
	if cfg.Email.PostmarkServerToken != "" {
		return email.NewPostmarkClient(cfg.Email)
	}

	dir := cfg.DevEmailDir
	if dir == "" {
		dir = os.TempDir()
	}
	log.Warn("postmark token not configured, writing emails to disk", "dir", dir)
	return email.NewDevSender(dir), nil
}
