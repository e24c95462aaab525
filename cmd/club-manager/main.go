package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"club-manager-backend/cmd/club-manager/apis"
	"club-manager-backend/cmd/club-manager/repository"
	"club-manager-backend/cmd/club-manager/service"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type EnvCfg struct {
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	StoreDriver string `envconfig:"STORE_DRIVER" default:"postgres"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"postgres"`

	SQLitePath string `envconfig:"SQLITE_PATH" default:"club-manager.db"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisPrefix   string `envconfig:"REDIS_PREFIX" default:"clubmanager:"`

	JWTSecret    string        `envconfig:"JWT_SECRET" required:"true"`
	JWTExpiry    time.Duration `envconfig:"JWT_EXPIRY" default:"24h"`
	WriteRetries int           `envconfig:"WRITE_RETRIES" default:"3"`

	Seed        bool     `envconfig:"SEED" default:"false"`
	Debug       bool     `envconfig:"DEBUG" default:"false"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
	BodyLimit   string   `envconfig:"BODY_LIMIT" default:"2M"`
}

const envPrefix = "CLUBMANAGER"

func loadConfig() (EnvCfg, error) {

	// a missing .env is fine; real environment variables still apply
	_ = godotenv.Load()

	var cfg EnvCfg
	err := envconfig.Process(envPrefix, &cfg)
	return cfg, err
}

func formatConnectionString(cfg EnvCfg) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
	)
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// openStore connects the backend named by STORE_DRIVER. The returned
// closer releases the underlying connection.
func openStore(ctx context.Context, cfg EnvCfg) (repository.Store, func() error, error) {

	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}
	if cfg.Debug {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	var dialector gorm.Dialector

	switch cfg.StoreDriver {
	case "memory":
		return repository.NewMemoryStore(), func() error { return nil }, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return repository.NewRedisStore(client, cfg.RedisPrefix), client.Close, nil
	case "postgres":
		dialector = postgres.Open(formatConnectionString(cfg))
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}

	store := repository.NewGormStore(db)
	if err := store.Migrate(ctx); err != nil {
		sqlDB.Close()
		return nil, nil, err
	}

	return store, sqlDB.Close, nil
}

type services struct {
	auth          *service.AuthService
	events        *service.EventManager
	members       *service.MemberService
	announcements *service.AnnouncementService
	funds         *service.FundService
	seeder        *service.Seeder
}

func newServices(cfg EnvCfg, store repository.Store, logger *zap.Logger) services {

	opts := []service.Option{service.WithWriteRetries(cfg.WriteRetries)}

	users := repository.NewUserRepo(store)
	members := repository.NewMemberRepo(store)
	events := repository.NewEventRepo(store)
	announcements := repository.NewAnnouncementRepo(store)
	funds := repository.NewFundRepo(store)

	return services{
		auth:          service.NewAuthService(users, cfg.JWTSecret, cfg.JWTExpiry, logger.Named("auth"), opts...),
		events:        service.NewEventManager(events, logger.Named("events"), opts...),
		members:       service.NewMemberService(members, logger.Named("members"), opts...),
		announcements: service.NewAnnouncementService(announcements, logger.Named("announcements"), opts...),
		funds:         service.NewFundService(funds, logger.Named("funds"), opts...),
		seeder: &service.Seeder{
			Users:         users,
			Members:       members,
			Events:        events,
			Announcements: announcements,
			Funds:         funds,
			BcryptCost:    bcrypt.DefaultCost,
			Logger:        logger.Named("seed"),
		},
	}
}

func newServer(cfg EnvCfg, store repository.Store, svc services, logger *zap.Logger) *echo.Echo {

	e := echo.New()
	e.HideBanner = true
	e.Validator = apis.NewRequestValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(apis.RequestLogger(logger.Named("http")))
	e.Use(apis.CORS(cfg.CORSOrigins))

	rootg := e.Group("")
	v1g := rootg.Group("/api/v1")
	secured := v1g.Group("", apis.RequireActor(svc.auth))

	apis.
		NewHealthCheckAPI(store).
		Setup(rootg)

	apis.
		NewAuthAPI(svc.auth).
		Setup(v1g, secured)

	apis.
		NewEventAPI(svc.events, cfg.Debug).
		Setup(secured)

	apis.
		NewMemberAPI(svc.members).
		Setup(secured)

	apis.
		NewAnnouncementAPI(svc.announcements).
		Setup(secured)

	apis.
		NewFundAPI(svc.funds).
		Setup(secured)

	return e
}

func main() {

	err := os.Setenv("TZ", "UTC")
	if err != nil {
		panic(err)
	}

	cfg, err := loadConfig()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal("open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer closeStore()

	svc := newServices(cfg, store, logger)

	if cfg.Seed {
		if err := svc.seeder.Seed(ctx); err != nil {
			logger.Fatal("seed", zap.Error(err))
		}
	}

	e := newServer(cfg, store, svc, logger)

	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr), zap.String("store", cfg.StoreDriver))
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
