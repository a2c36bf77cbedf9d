package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/Glayre/Proyecto-Final-Cavenet/internal/auth"
	"github.com/Glayre/Proyecto-Final-Cavenet/internal/billing"
	"github.com/Glayre/Proyecto-Final-Cavenet/internal/config"
	"github.com/Glayre/Proyecto-Final-Cavenet/internal/http_api"
	"github.com/Glayre/Proyecto-Final-Cavenet/internal/notificator"
	"github.com/Glayre/Proyecto-Final-Cavenet/internal/rates"
	"github.com/Glayre/Proyecto-Final-Cavenet/internal/repository"
	"github.com/Glayre/Proyecto-Final-Cavenet/internal/seed"
	"github.com/Glayre/Proyecto-Final-Cavenet/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "cavenet",
		Usage: "Cavenet is an ISP billing and subscription backend",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "postgres-user", Aliases: []string{"u"}, Usage: "Postgres user"},
			&cli.StringFlag{Name: "postgres-password", Aliases: []string{"p"}, Usage: "Postgres password"},
			&cli.StringFlag{Name: "postgres-host", Aliases: []string{"t"}, Usage: "Postgres host"},
			&cli.IntFlag{Name: "postgres-port", Aliases: []string{"P"}, Usage: "Postgres port"},
			&cli.StringFlag{Name: "postgres-db", Aliases: []string{"d"}, Usage: "Postgres database name"},
			&cli.IntFlag{Name: "api-port", Aliases: []string{"a"}, Usage: "API port"},
			&cli.StringFlag{Name: "rate-api-url", Aliases: []string{"r"}, Usage: "Exchange rate API URL"},
			&cli.DurationFlag{Name: "sweep-interval", Aliases: []string{"s"}, Usage: "Overdue sweep interval"},
			&cli.BoolFlag{Name: "development", Aliases: []string{"D"}, Usage: "Development mode"},
		},
		Action: func(c *cli.Context) error {
			return run(c)
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	// Override with flags if set
	if c.IsSet("postgres-user") {
		cfg.PostgresUser = c.String("postgres-user")
	}
	if c.IsSet("postgres-password") {
		cfg.PostgresPassword = c.String("postgres-password")
	}
	if c.IsSet("postgres-host") {
		cfg.PostgresHost = c.String("postgres-host")
	}
	if c.IsSet("postgres-port") {
		cfg.PostgresPort = c.Int("postgres-port")
	}
	if c.IsSet("postgres-db") {
		cfg.PostgresDB = c.String("postgres-db")
	}
	if c.IsSet("api-port") {
		cfg.APIPort = c.Int("api-port")
	}
	if c.IsSet("rate-api-url") {
		cfg.RateAPIURL = c.String("rate-api-url")
	}
	if c.IsSet("sweep-interval") {
		cfg.SweepInterval = c.Duration("sweep-interval")
	}
	if c.IsSet("development") {
		cfg.Development = c.Bool("development")
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}

	// Initialize database
	db, err := repository.NewPostgresDB(cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresHost, cfg.PostgresPort, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	// Seed initial plans and the default admin user
	if err := seed.Run(db, cfg, log); err != nil {
		return fmt.Errorf("failed to seed database: %v", err)
	}

	// Initialize exchange rate provider
	rateProvider := rates.NewProvider(cfg.RateAPIURL, log.Named("rates"))
	rateProvider.Start(cfg.RateRefreshInterval)
	defer rateProvider.Stop()

	// Initialize notificator channels
	emailNotif := notificator.NewEmailNotificator(log, cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPSender)
	var telegramNotif *notificator.TelegramNotificator
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		telegramNotif, err = notificator.NewTelegramNotificator(log, cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			return fmt.Errorf("failed to initialize telegram notificator: %v", err)
		}
	}
	notif := notificator.NewNotificator(log, telegramNotif, emailNotif)

	// Create the billing ledger service
	billingService := billing.NewService(db, rateProvider, notif, log)

	// Initialize token signer and API server
	signer := auth.NewTokenSigner(cfg.JWTSecret, cfg.JWTTTL)
	apiServer := http_api.NewHTTPServer(billingService, db, signer, cfg.APIPort, log.Named("api"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the overdue sweep
	go billingService.StartSweep(ctx, cfg.SweepInterval)

	go apiServer.Start()

	// Wait for termination
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	return apiServer.Shutdown()
}
