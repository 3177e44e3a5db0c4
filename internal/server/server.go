package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/causamap/backend/internal/aiclient"
	"github.com/causamap/backend/internal/queue"
	mid "github.com/causamap/backend/internal/server/middleware"
	"github.com/causamap/backend/internal/storage"
	"github.com/causamap/backend/internal/util"
	pgxstore "github.com/causamap/backend/pkg/store/pgx"
	"github.com/causamap/backend/pkg/logger"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/go-playground/validator"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func runMigrations() {
	sourceURL := "file://" + util.GetEnvString("MIGRATIONS_DIR", "migrations")
	m, err := migrate.New(sourceURL, util.GetEnv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("Failed to load migrations", "err", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Fatal("Failed to run migrations", "err", err)
	}
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	jwksUrl := util.GetEnv("AUTH_URL") + "/jwks"
	k, err := keyfunc.NewDefault([]string{jwksUrl})
	if err != nil {
		logger.Fatal("Failed to load jwks keys", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runMigrations()

	poolConfig, err := pgxpool.ParseConfig(util.GetEnv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("Failed to parse database config", "err", err)
	}
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}
	conn, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal("Failed to connect to database", "err", err)
	}
	defer conn.Close()

	que := queue.Init()
	defer que.Close()
	ch, err := que.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	if err := queue.SetupQueues(ch, queue.Queues); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	s3Client := storage.NewS3Client(ctx)

	app := &mid.App{
		DBConn:       conn,
		Queue:        ch,
		Key:          &k,
		S3:           s3Client,
		Store:        pgxstore.NewGraphDBStorageWithConnection(conn),
		AiClient:     aiclient.NewFromEnv(),
		MasterAPIKey: util.GetEnv("MASTER_API_KEY"),
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("512M"))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
