package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/medialist/config"
	"github.com/Gunvolt24/medialist/internal/adapter"
	"github.com/Gunvolt24/medialist/internal/cache/listcache"
	"github.com/Gunvolt24/medialist/internal/cache/memory"
	"github.com/Gunvolt24/medialist/internal/domain"
	"github.com/Gunvolt24/medialist/internal/kafka"
	"github.com/Gunvolt24/medialist/internal/ports"
	"github.com/Gunvolt24/medialist/internal/repo/postgres"
	"github.com/Gunvolt24/medialist/internal/task"
	rest "github.com/Gunvolt24/medialist/internal/transport/http"
	"github.com/Gunvolt24/medialist/pkg/logger"
	"github.com/Gunvolt24/medialist/pkg/metrics"
	"github.com/Gunvolt24/medialist/pkg/telemetry"
	"github.com/Gunvolt24/medialist/pkg/validate"
	"github.com/gin-gonic/gin"
)

// App — собранное приложение и его внешние интерфейсы (HTTP, consumer).
type App struct {
	Logger          ports.Logger          // логгер
	HTTPServer      *http.Server          // HTTP-сервер
	KafkaConsumer   ports.MessageConsumer // консьюмер событий каталога
	Dispatcher      *task.Dispatcher      // последовательный контекст модели
	Model           *adapter.ListModel    // оконная модель каталога
	gracefulTimeout time.Duration         // время ожидания завершения HTTP-сервера
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// queryDescriptor — стартовый дескриптор окна из конфигурации.
func queryDescriptor(ctx context.Context, q config.Query, log ports.Logger) domain.QueryDescriptor {
	sort, ok := domain.ParseSortKey(q.Sort)
	if !ok {
		log.Warnf(ctx, "unknown QUERY_SORT=%q, fallback to default", q.Sort)
	}

	return domain.QueryDescriptor{
		Parent:        domain.ItemID{ID: q.ParentID, ParentID: q.ParentGroupID},
		SearchPattern: q.SearchPattern,
		Sort:          sort,
		SortDesc:      q.SortDesc,
	}
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	// Пул подключений Postgres
	pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
		return nil, func() {}, err
	}

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	shutdownTrace := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.SetupTracing(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}

	// Последовательный контекст модели и пул фоновых задач.
	disp := task.NewDispatcher(cfg.Cache.QueueSize)
	exec, err := task.NewExecutor(disp, cfg.Cache.Workers)
	if err != nil {
		pool.Close()
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
		return nil, func() {}, err
	}

	// Сборка доменного слоя: каталог, кэш точечных выборок, валидатор, оконная модель.
	catalog := postgres.NewMediaCatalog(pool)
	itemCache := memory.NewLRUCacheTTL(cfg.Cache.ItemCacheSize, cfg.Cache.ItemCacheTTL)
	eventValidator := validate.NewEventValidator()
	model := adapter.NewListModel(
		disp, exec, catalog, itemCache, eventValidator, logg,
		queryDescriptor(ctx, cfg.Query, logg),
		listcache.Options{
			GapThreshold: cfg.Cache.CoalesceGap,
			ReferDelay:   cfg.Cache.ReferDelay,
		},
	)

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	// Роутер и HTTP-сервер.
	httpHandler := rest.NewHandler(model, logg, cfg.HTTP.HandlerTimeout)
	router := rest.NewRouter(httpHandler, otelServiceName)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	// Конфигурация и создание консьюмера Kafka.
	kafkaCfg := kafka.ConsumerConfig{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.GroupID,
		Topic:          cfg.Kafka.Topic,
		StartOffset:    cfg.Kafka.StartOffset,
		ProcessTimeout: cfg.Kafka.ProcessTimeout,
		RetryInitial:   cfg.Kafka.RetryInitial,
		RetryMax:       cfg.Kafka.RetryMax,
	}
	consumer := kafka.NewConsumer(&kafkaCfg, model, logg)

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		KafkaConsumer:   consumer,
		Dispatcher:      disp,
		Model:           model,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
		if err := consumer.Close(); err != nil {
			logg.Warnf(ctx, "kafka consumer close error: %v", err)
		}

		exec.Close()
		pool.Close()
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	}

	return app, cleanup, nil
}

// Run — запускает диспетчер, HTTP-сервер и консьюмера; ждёт отмены контекста
// или ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	// Жизненный цикл фоновых компонентов управляется явно: диспетчер должен
	// пережить отмену внешнего контекста, чтобы Model.Close успел выполниться.
	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 3)

	// Запуск последовательного контекста модели.
	go func() {
		if err := a.Dispatcher.Run(runCtx); err != nil {
			errCh <- err
		}
	}()

	// Первый count окна (после старта диспетчера).
	if err := a.Model.Init(runCtx); err != nil {
		a.Logger.Warnf(ctx, "model init failed: %v", err)
	}

	// Запуск консьюмера.
	go func() {
		a.Logger.Infof(ctx, "kafka consumer starting")
		if err := a.KafkaConsumer.Run(runCtx); err != nil {
			errCh <- err
		}
	}()

	// Запуск HTTP-сервера.
	go func() {
		a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Ожидание сигнала остановки или фоновой ошибки.
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Warnf(ctx, "background error: %v", err)
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	// Корректная остановка HTTP-сервера.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gt)
	defer shutdownCancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	// Остановка Kafka-консьюмера.
	if err := a.KafkaConsumer.Close(); err != nil {
		a.Logger.Warnf(ctx, "kafka consumer close error: %v", err)
	}

	// Закрытие модели (отмена исходящих загрузок) до остановки диспетчера.
	if err := a.Model.Close(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "model close error: %v", err)
	}
	cancel()

	a.Logger.Infof(ctx, "service stopped")
	return nil
}
