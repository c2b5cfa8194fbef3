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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/maynagashev/vacationkeeper/internal/handlers"
	"github.com/maynagashev/vacationkeeper/internal/lock"
	"github.com/maynagashev/vacationkeeper/internal/logger"
	"github.com/maynagashev/vacationkeeper/internal/metrics"
	appmiddleware "github.com/maynagashev/vacationkeeper/internal/middleware"
	"github.com/maynagashev/vacationkeeper/internal/models"
	"github.com/maynagashev/vacationkeeper/internal/repository"
	"github.com/maynagashev/vacationkeeper/internal/services"
	"github.com/maynagashev/vacationkeeper/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const (
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 15 * time.Second
	startupTimeout         = 30 * time.Second

	defaultAdminVacationDays = 30
)

// Структура для хранения инициализированных зависимостей.
type dependencies struct {
	db      *sqlx.DB
	redis   *redis.Client
	metrics *metrics.Metrics

	vacationHandler *handlers.VacationHandler
	employeeHandler *handlers.EmployeeHandler
	reportHandler   *handlers.ReportHandler
}

// close освобождает соединения с внешними системами.
func (d *dependencies) close(log *zap.Logger) {
	if d.db != nil {
		if err := d.db.Close(); err != nil {
			log.Warn("Ошибка закрытия соединения с БД", zap.Error(err))
		}
	}
	if d.redis != nil {
		if err := d.redis.Close(); err != nil {
			log.Warn("Ошибка закрытия соединения с Redis", zap.Error(err))
		}
	}
}

// main - точка входа. Вызывает run и обрабатывает ошибку.
func main() {
	// .env необязателен.
	_ = godotenv.Load()

	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка инициализации логгера: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, cfg, log); err != nil {
		log.Error("Ошибка выполнения сервера", zap.Error(err))
		stop()
		os.Exit(1) //nolint:gocritic // defer для log.Sync не критичен при аварийном выходе
	}
}

// run содержит основную логику запуска сервера и возвращает ошибку.
func run(ctx context.Context, cfg *config, log *zap.Logger) error {
	log.Info("Запуск сервера отпусков...",
		zap.String("storage", cfg.StorageDriver), zap.Bool("tls", cfg.TLSEnabled()))

	startupCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	deps, err := setupDependencies(startupCtx, cfg, log)
	cancel()
	if err != nil {
		return fmt.Errorf("ошибка инициализации зависимостей: %w", err)
	}
	defer deps.close(log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      setupRouter(cfg, deps, log),
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		IdleTimeout:  defaultIdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		var listenErr error
		if cfg.TLSEnabled() {
			log.Info("Запуск HTTPS-сервера", zap.String("port", cfg.Port), zap.String("cert", cfg.CertFile))
			listenErr = server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			log.Info("Запуск HTTP-сервера", zap.String("port", cfg.Port))
			listenErr = server.ListenAndServe()
		}
		if listenErr != nil && !errors.Is(listenErr, http.ErrServerClosed) {
			serveErr <- listenErr
		}
		close(serveErr)
	}()

	select {
	case err = <-serveErr:
		if err != nil {
			return fmt.Errorf("ошибка запуска сервера: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Получен сигнал остановки, завершаем обработку запросов...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.WithoutCancel(ctx), defaultShutdownTimeout)
	defer cancelShutdown()
	if err = server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ошибка остановки сервера: %w", err)
	}
	log.Info("Сервер остановлен")
	return nil
}

// setupDependencies инициализирует и возвращает все необходимые зависимости сервера.
func setupDependencies(ctx context.Context, cfg *config, log *zap.Logger) (*dependencies, error) {
	deps := &dependencies{metrics: metrics.New()}

	// 1. Хранилище сотрудников и заявок
	employees, requests, err := setupRepositories(cfg, deps, log)
	if err != nil {
		return nil, err
	}

	// 2. Блокировки по сотруднику
	locker, err := setupLocker(ctx, cfg, deps, log)
	if err != nil {
		deps.close(log)
		return nil, err
	}

	// 3. Архив отчетов (необязателен)
	var files storage.FileStorage
	if cfg.MinioEndpoint != "" {
		minioClient, minioErr := storage.NewMinioClient(ctx, storage.MinioConfig{
			Endpoint:        cfg.MinioEndpoint,
			AccessKeyID:     cfg.MinioUser,
			SecretAccessKey: cfg.MinioPassword,
			UseSSL:          cfg.MinioUseSSL,
			BucketName:      cfg.MinioBucket,
		}, log)
		if minioErr != nil {
			deps.close(log)
			return nil, fmt.Errorf("ошибка инициализации клиента MinIO: %w", minioErr)
		}
		files = minioClient
	} else {
		log.Info("MinIO не настроен, архив отчетов отключен")
	}

	// 4. Сервисы
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		deps.close(log)
		return nil, fmt.Errorf("ошибка загрузки часового пояса: %w", err)
	}
	vacationService := services.NewVacationService(
		employees, requests, locker, deps.metrics, services.SystemClock(loc), log)
	presenter := services.NewPresenter(employees, requests)
	employeeService := services.NewEmployeeService(employees, presenter, log)
	reportService := services.NewReportService(vacationService, presenter, files, log)

	// 5. Обработчики
	deps.vacationHandler = handlers.NewVacationHandler(vacationService, presenter, validator.New(), log)
	deps.employeeHandler = handlers.NewEmployeeHandler(employeeService, log)
	deps.reportHandler = handlers.NewReportHandler(reportService, log)

	return deps, nil
}

func setupRepositories(
	cfg *config,
	deps *dependencies,
	log *zap.Logger,
) (repository.EmployeeRepository, repository.VacationRepository, error) {
	if cfg.StorageDriver == storageDriverMemory {
		log.Warn("Используется хранилище в памяти, данные не сохраняются между запусками")
		store := repository.NewMemoryStore()
		store.PutEmployee(defaultAdmin())
		return store, store, nil
	}

	db, err := repository.NewPostgresDB(cfg.DatabaseDSN, log)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка инициализации БД: %w", err)
	}
	deps.db = db

	if cfg.RunMigrations {
		if err = repository.Migrate(db, log); err != nil {
			deps.close(log)
			return nil, nil, err
		}
	}
	return repository.NewPostgresEmployeeRepository(db, log), repository.NewPostgresVacationRepository(db, log), nil
}

func setupLocker(ctx context.Context, cfg *config, deps *dependencies, log *zap.Logger) (lock.Locker, error) {
	if cfg.RedisAddr == "" {
		log.Info("Redis не настроен, используются блокировки в памяти процесса")
		return lock.NewLocalLocker(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ошибка подключения к Redis: %w", err)
	}
	deps.redis = client
	log.Info("Используются распределенные блокировки Redis",
		zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.LockTTL))
	return lock.NewRedisLocker(client, cfg.LockTTL, log), nil
}

// defaultAdmin повторяет администратора, которого создает миграция.
func defaultAdmin() models.Employee {
	return models.Employee{
		FirstName: "Administrator",
		LastName:  "Systemu",
		Email:     "admin@company.com",
		Role:      models.RoleAdmin,
		TotalDays: defaultAdminVacationDays,
		Active:    true,
	}
}

// setupRouter настраивает и возвращает роутер chi.
func setupRouter(cfg *config, deps *dependencies, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmiddleware.RequestLogger(log, deps.metrics))
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
	}).Handler)

	// --- Маршруты --- //
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong\n"))
	})
	r.Method(http.MethodGet, "/metrics", deps.metrics.Handler())

	// Все маршруты /api требуют аутентификации
	r.Route("/api", func(r chi.Router) {
		r.Use(appmiddleware.Authenticator(cfg.JWTSecret, log))
		r.Mount("/vacations", deps.vacationHandler.Routes())
		r.Mount("/employees", deps.employeeHandler.Routes())
		r.Mount("/reports", deps.reportHandler.Routes())
	})
	return r
}
