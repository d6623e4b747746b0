package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/shop/internal/health"
	"github.com/vladislavdragonenkov/shop/internal/httpapi"
	"github.com/vladislavdragonenkov/shop/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/shop/internal/metrics"
	"github.com/vladislavdragonenkov/shop/internal/service/auth"
	"github.com/vladislavdragonenkov/shop/internal/service/cart"
	"github.com/vladislavdragonenkov/shop/internal/service/catalog"
	"github.com/vladislavdragonenkov/shop/internal/service/notification"
	"github.com/vladislavdragonenkov/shop/internal/service/order"
	"github.com/vladislavdragonenkov/shop/internal/service/outbox"
	"github.com/vladislavdragonenkov/shop/internal/version"
)

// StorageDriver выбирает реализацию хранилищ.
const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	StorageDriver       string
	PostgresDSN         string
	PostgresAutoMigrate bool

	KafkaBrokers string

	JWTSecret string
	TokenTTL  time.Duration

	SendGridAPIKey string
	EmailFrom      string
	EmailFromName  string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int
	OutboxRetryDelay   time.Duration
}

// DefaultConfig возвращает базовые настройки для локального запуска.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:            ":8080",
		MetricsAddr:         ":9090",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		JWTSecret:           "dev-secret",
		TokenTTL:            time.Hour,
		EmailFrom:           "shop@example.com",
		EmailFromName:       "Shop",
		OutboxPollInterval:  time.Second,
		OutboxBatchSize:     100,
		OutboxMaxAttempts:   3,
		OutboxRetryDelay:    200 * time.Millisecond,
	}
}

// Run собирает зависимости и запускает HTTP API, сервер метрик и фоновые
// компоненты. Блокируется до отмены контекста или фатальной ошибки сервера.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	shopMetrics := metrics.NewShopMetrics()

	authUC := auth.NewUsecase(deps.Users, cfg.JWTSecret, cfg.TokenTTL, logger.WithField("layer", "auth"))
	catalogUC := catalog.NewUsecase(deps.Products, logger.WithField("layer", "catalog"))
	cartUC := cart.NewUsecase(deps.Carts, deps.Products, shopMetrics, logger.WithField("layer", "cart"))

	notifier := newNotifier(cfg, logger)

	// Kafka опционален: без брокеров события копятся в outbox до следующего запуска.
	kafkaProducer, _ := initKafkaProducer(cfg.KafkaBrokers, logger)
	var outboxWorker *outbox.Worker
	if kafkaProducer != nil {
		publisher := kafka.NewOutboxPublisher(kafkaProducer, kafka.TopicOrderEvents)
		dlq := kafka.NewOutboxPublisher(kafkaProducer, kafka.TopicDeadLetterQueue)
		outboxWorker = outbox.NewWorker(deps.Outbox, publisher,
			outbox.WithLogger(logger.WithField("layer", "outbox")),
			outbox.WithDLQPublisher(dlq),
			outbox.WithPollInterval(cfg.OutboxPollInterval),
			outbox.WithBatchSize(cfg.OutboxBatchSize),
			outbox.WithMaxAttempts(cfg.OutboxMaxAttempts),
			outbox.WithRetryBaseDelay(cfg.OutboxRetryDelay),
		)
	}

	orderUC := order.NewUsecase(
		deps.Orders, deps.Carts, deps.Products, deps.Users,
		deps.Checkout, deps.Outbox, notifier,
		shopMetrics, logger.WithField("layer", "order"),
	)

	api := httpapi.NewAPI(authUC, catalogUC, cartUC, orderUC, logger.WithField("layer", "http"))

	healthHandler := healthcheck.NewHandler(version.String())
	if deps.Store != nil {
		store := deps.Store
		healthHandler.RegisterChecker("storage", healthcheck.NewSimpleChecker("storage", func() error {
			return store.Ping(context.Background())
		}))
	}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	if outboxWorker != nil {
		go outboxWorker.Run(ctx)
	}

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: api.Router()}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API слушает %s", cfg.HTTPAddr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("http shutdown with error")
		}
		shutdownHTTP(metricsSrv, logger)

		// Дожидаемся фоновых писем перед закрытием ресурсов.
		orderUC.WaitNotifications()
		closeKafka(kafkaProducer, logger)

		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		orderUC.WaitNotifications()
		closeKafka(kafkaProducer, logger)

		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newNotifier выбирает отправителя писем: SendGrid при наличии ключа,
// иначе лог-заглушка.
func newNotifier(cfg Config, logger *log.Entry) domain.Notifier {
	if cfg.SendGridAPIKey != "" {
		return notification.NewSendGridSender(
			cfg.SendGridAPIKey, cfg.EmailFrom, cfg.EmailFromName,
			logger.WithField("layer", "notification"),
		)
	}
	return notification.NewNoop(logger.WithField("layer", "notification"))
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez", addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("metrics shutdown with error")
	}
}
