// Command server runs the hotel reservations HTTP API.
//
// @title                       Hotel Reservations API
// @version                     1.0
// @description                 Authentication, room inventory and reservation lifecycle for a single hotel.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	_ "github.com/hotelcore/reservations/docs"
	"github.com/hotelcore/reservations/internal/api"
	"github.com/hotelcore/reservations/internal/core/domain"
	"github.com/hotelcore/reservations/internal/core/ports"
	"github.com/hotelcore/reservations/internal/core/service"
	"github.com/hotelcore/reservations/internal/infrastructure/config"
	"github.com/hotelcore/reservations/internal/infrastructure/db/mongo"
	"github.com/hotelcore/reservations/internal/infrastructure/db/postgres"
	"github.com/hotelcore/reservations/internal/infrastructure/db/redis"
	"github.com/hotelcore/reservations/internal/infrastructure/http/handlers"
	"github.com/hotelcore/reservations/internal/infrastructure/lock"
	"github.com/hotelcore/reservations/internal/infrastructure/queue"
	"github.com/hotelcore/reservations/internal/infrastructure/throttle"
	"github.com/hotelcore/reservations/internal/infrastructure/tracing"
	"github.com/hotelcore/reservations/internal/pkg/clock"
	"github.com/hotelcore/reservations/pkg/logger"
)

const serviceName = "hotel-api"

func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	migrate := pflag.Bool("migrate", true, "create indexes or apply the SQL schema at startup")
	pflag.Parse()

	if err := run(*envFile, *migrate); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

// repositories is the store-specific half of the wiring.
type repositories struct {
	users        ports.UserRepository
	guests       ports.GuestRepository
	rooms        ports.RoomRepository
	reservations ports.ReservationRepository
	ping         handlers.Pinger
	close        func(context.Context) error
}

func run(envFile string, migrate bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, envFile)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment(), Service: serviceName})
	log.Info().Str("env", cfg.Env).Str("store", cfg.StoreDriver).Msg("starting")

	shutdownTracing, err := tracing.Init(ctx, log, cfg.OTLPEndpoint, serviceName, cfg.Env)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Error().Err(err).Msg("tracing shutdown")
		}
	}()

	repos, err := openStore(ctx, cfg, migrate)
	if err != nil {
		return err
	}
	defer func() {
		if err := repos.close(context.Background()); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()

	readiness := map[string]handlers.Pinger{cfg.StoreDriver: repos.ping}

	var rdb *goredis.Client
	if cfg.NeedsRedis() {
		rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB, Timeout: cfg.StoreTimeout})
		if err != nil {
			return err
		}
		defer rdb.Close()
		readiness["redis"] = handlers.RedisPinger(rdb)
	}

	clk := clock.Real()
	workers, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	// --- Login protection ---
	var throttleStore ports.ThrottleStore
	if cfg.Security.ThrottleBackend == config.BackendRedis {
		throttleStore = redis.NewThrottleStore(rdb)
	} else {
		mem := throttle.NewMemory()
		go mem.Run(workers, time.Minute, cfg.Security.LoginWindow)
		throttleStore = mem
	}

	// --- Room locks ---
	var locker ports.RoomLocker
	if cfg.Security.LockBackend == config.BackendRedis {
		locker = redis.NewRoomLocker(rdb, cfg.Security.LockTTL, logger.Component("room-lock"))
	} else {
		locker = lock.NewLocal(0)
	}

	// --- Invoicing on checkout ---
	var guard queue.OnceGuard
	if rdb != nil {
		guard = redis.NewDedupChecker(rdb)
	}
	dispatcher := queue.NewDispatcher(cfg.InvoiceWorkers, queue.NewLogInvoiceGenerator(logger.Component("invoice")), guard, logger.Component("dispatcher"))
	dispatcher.Start(workers)

	// --- Services ---
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL, clk)
	loginThrottle := service.NewLoginThrottle(throttleStore, cfg.Security.LoginWindow, cfg.Security.LoginMaxAttempts, clk, logger.Component("throttle"))
	authService := service.NewAuthService(repos.users, tokens, loginThrottle, service.LockoutPolicy{
		Threshold: cfg.Security.LockoutThreshold,
		Duration:  cfg.Security.LockoutDuration,
	}, clk, logger.Component("auth"))
	userService := service.NewUserService(authService)
	reservationService := service.NewReservationService(repos.reservations, repos.rooms, repos.guests, locker, dispatcher, clk, logger.Component("reservations"))

	if err := bootstrapAdmin(ctx, cfg, userService, log); err != nil {
		return err
	}

	trustedProxies, err := cfg.TrustedProxyNets()
	if err != nil {
		return err
	}

	e := api.NewRouter(api.Deps{
		Log:            logger.Component("http"),
		RateLimit:      cfg.APIRateLimit,
		TrustedProxies: trustedProxies,
		Auth:           authService,
		Users:          userService,
		Authz:          service.NewAuthorizer(repos.reservations, repos.guests),
		Rooms:          service.NewRoomService(repos.rooms, clk, logger.Component("rooms")),
		Guests:         service.NewGuestService(repos.guests, clk, logger.Component("guests")),
		Reservations:   reservationService,
		Availability:   reservationService.Availability(),
		Readiness:      readiness,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// Drain queued invoices before the stores close.
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("invoice queue not drained, abandoning remaining jobs")
		cancelWorkers()
		dispatcher.Wait()
	}
	cancelWorkers()
	log.Info().Msg("server stopped")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, migrate bool) (*repositories, error) {
	if cfg.StoreDriver == config.StorePostgres {
		db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN, Timeout: cfg.StoreTimeout})
		if err != nil {
			return nil, err
		}
		if migrate {
			if err := postgres.Migrate(ctx, db); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		return postgresRepositories(db, cfg.StoreTimeout), nil
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, Timeout: cfg.StoreTimeout})
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
	}
	return mongoRepositories(client, db, cfg.StoreTimeout), nil
}

func postgresRepositories(db *sql.DB, timeout time.Duration) *repositories {
	return &repositories{
		users:        postgres.NewUserRepository(db, timeout),
		guests:       postgres.NewGuestRepository(db, timeout),
		rooms:        postgres.NewRoomRepository(db, timeout),
		reservations: postgres.NewReservationRepository(db, timeout),
		ping:         handlers.SQLPinger(db),
		close:        func(context.Context) error { return db.Close() },
	}
}

func mongoRepositories(client *mongodriver.Client, db *mongodriver.Database, timeout time.Duration) *repositories {
	return &repositories{
		users:        mongo.NewUserRepository(db, timeout),
		guests:       mongo.NewGuestRepository(db, timeout),
		rooms:        mongo.NewRoomRepository(db, timeout),
		reservations: mongo.NewReservationRepository(db, timeout),
		ping:         handlers.MongoPinger(db),
		close:        client.Disconnect,
	}
}

func bootstrapAdmin(ctx context.Context, cfg *config.Config, users ports.UserService, log zerolog.Logger) error {
	if cfg.BootstrapAdminEmail == "" || cfg.BootstrapAdminPassword == "" {
		return nil
	}
	_, err := users.CreateUser(ctx, ports.CreateUserInput{
		Username: "admin",
		Email:    cfg.BootstrapAdminEmail,
		Password: cfg.BootstrapAdminPassword,
		Role:     domain.RoleAdmin,
	})
	switch {
	case errors.Is(err, domain.ErrUserExists):
		log.Debug().Msg("bootstrap admin already present")
	case err != nil:
		return fmt.Errorf("bootstrap admin: %w", err)
	default:
		log.Info().Str("email", cfg.BootstrapAdminEmail).Msg("bootstrap admin created")
	}
	return nil
}
