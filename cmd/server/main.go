package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	tripshare "github.com/goliatone/go-tripshare"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	cfg := LoadConfig()
	logger := stdLogger{}

	db, err := openDatabase(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := createTables(ctx, db); err != nil {
		log.Fatal(err)
	}

	repo := tripshare.NewRepositoryManager(db)
	repo.MustValidate()

	signer := tripshare.NewSigner(cfg.GetSigningKey())
	sessions := tripshare.NewSessionCodec(signer, cfg, logger)
	admin := tripshare.NewAdminSessionCodec(signer, cfg, logger)
	gate := tripshare.NewGate(sessions, admin)

	var mailer tripshare.Mailer
	if cfg.SMTPAddr != "" {
		mailer = tripshare.SMTPMailer{
			Addr:     cfg.SMTPAddr,
			From:     cfg.SMTPFrom,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			Logger:   logger,
		}
	} else {
		mailer = tripshare.ConsoleMailer{Logger: logger}
	}

	verifier := tripshare.NewVerifier(repo, mailer, cfg, logger)

	app := fiber.New(fiber.Config{
		AppName: "tripshare",
	})

	authController := tripshare.NewAuthController(func(c *tripshare.AuthController) *tripshare.AuthController {
		c.Logger = logger
		c.Repo = repo
		c.Verifier = verifier
		c.Sessions = sessions
		c.Gate = gate
		c.Production = cfg.IsProduction()
		c.Debug = !cfg.IsProduction()
		return c
	})

	tripshare.RegisterAuthRoutes(app, authController)
	tripshare.RegisterItineraryRoutes(app, tripshare.NewItineraryController(repo, gate, logger))
	tripshare.RegisterAdminRoutes(app, tripshare.NewAdminController(repo, cfg, gate, admin, logger))

	reaper := tripshare.NewReaper(verifier, tripshare.DefaultReaperInterval, logger)
	go reaper.Run(ctx)

	go func() {
		if err := app.Listen(cfg.Addr); err != nil {
			log.Fatal(err)
		}
	}()

	WaitExitSignal()

	cancel()
	if err := app.Shutdown(); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func openDatabase(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

func createTables(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*tripshare.User)(nil),
		(*tripshare.Itinerary)(nil),
		(*tripshare.VerificationCode)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
	}

	return nil
}

// WaitExitSignal blocks until SIGINT or SIGTERM.
func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	return <-ch
}
