package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/dmehra2102/pizzeria-ordering/configs"
	cartapp "github.com/dmehra2102/pizzeria-ordering/internal/cart/application"
	cart "github.com/dmehra2102/pizzeria-ordering/internal/cart/domain"
	carthttp "github.com/dmehra2102/pizzeria-ordering/internal/cart/infrastructure/http"
	catalogapp "github.com/dmehra2102/pizzeria-ordering/internal/catalog/application"
	cataloghttp "github.com/dmehra2102/pizzeria-ordering/internal/catalog/infrastructure/http"
	orderapp "github.com/dmehra2102/pizzeria-ordering/internal/order/application"
	orderhttp "github.com/dmehra2102/pizzeria-ordering/internal/order/infrastructure/http"
	orderkafka "github.com/dmehra2102/pizzeria-ordering/internal/order/infrastructure/kafka"
	profileapp "github.com/dmehra2102/pizzeria-ordering/internal/profile/application"
	profilehttp "github.com/dmehra2102/pizzeria-ordering/internal/profile/infrastructure/http"
	"github.com/dmehra2102/pizzeria-ordering/internal/relay/whatsapp"
	"github.com/dmehra2102/pizzeria-ordering/pkg/health"
	"github.com/dmehra2102/pizzeria-ordering/pkg/idempotency"
	"github.com/dmehra2102/pizzeria-ordering/pkg/logging"
	"github.com/dmehra2102/pizzeria-ordering/pkg/metrics"
	"github.com/dmehra2102/pizzeria-ordering/pkg/outbox"
	"github.com/dmehra2102/pizzeria-ordering/pkg/shutdown"
	"github.com/dmehra2102/pizzeria-ordering/pkg/tracing"
)

func main() {
	configDir := flag.String("config", "configs", "directory holding base.yaml and <env>.yaml")
	flag.Parse()

	cfg, err := configs.Load(*configDir, os.Getenv("APP_ENV"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logging.New(logging.Options{Level: cfg.App.LogLevel, Component: cfg.App.Name, File: cfg.App.LogFile})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	tp, err := tracing.Init(ctx, cfg.App.Name, cfg.Tracing.Endpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Error("timezone", "err", err)
		os.Exit(1)
	}
	sizes, err := sizeSet(cfg.Menu.Sizes)
	if err != nil {
		log.Error("menu sizes", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg, "pizzeria")

	// Storage
	st := memoryStores(cfg, sizes)
	if cfg.Postgres.DSN != "" {
		st, err = postgresStores(ctx, log, cfg, sizes)
		if err != nil {
			log.Error("postgres setup failed", "err", err)
			os.Exit(1)
		}
		log.Info("using postgres storage")
	} else {
		log.Info("using in-memory storage")
	}

	// Kafka: outbox events and relay links
	var (
		writer   *orderkafka.Writer
		relayPub whatsapp.Publisher
	)
	if len(cfg.Kafka.Brokers) > 0 {
		writer = orderkafka.NewWriter(cfg.Kafka.Brokers)
		relayPub = writer
	}

	// Redis: checkout idempotency
	var (
		rdb  *redis.Client
		idem carthttp.Idempotency
	)
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Error("redis ping failed", "addr", cfg.Redis.Addr, "err", err)
			os.Exit(1)
		}
		idem = idempotency.NewStore(rdb, cfg.Idempotency.TTL)
	}

	// Services
	catalogs := catalogapp.NewService(log.With("module", "catalog"), st.catalog, sizes)
	profiles := profileapp.NewService(log.With("module", "profile"), st.profile)
	gateway := whatsapp.NewGateway(log.With("module", "relay"), relayPub, cfg.Kafka.TopicRelay)
	orders := orderapp.NewService(log.With("module", "order"), st.orders, gateway, merchantFrom(profiles),
		orderapp.WithMetrics(m))
	sessions := cartapp.NewSessionStore(log.With("module", "cart"),
		cart.ComboPolicy{Min: cfg.Cart.ComboMin, Max: cfg.Cart.ComboMax}, cfg.Cart.SessionTTL)
	carts := cartapp.NewService(sessions, catalogs, orders)

	catalogH := cataloghttp.NewHandler(log, catalogs)
	profileH := profilehttp.NewHandler(log, profiles)
	orderH := orderhttp.NewHandler(log, orders, loc)
	cartH := carthttp.NewHandler(log, carts, orders, idem)

	// HTTP
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer, logging.Middleware(log), m.Middleware)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Handle("/metrics", metrics.Handler(reg))
	r.Get("/menu", catalogH.Menu)
	r.Get("/store", profileH.Get)
	r.Mount("/sessions", cartH.Routes())
	r.Route("/admin", func(r chi.Router) {
		r.Put("/store", profileH.Update)
		r.Mount("/menu", catalogH.AdminRoutes())
		r.Mount("/", orderH.AdminRoutes())
	})

	srv := &http.Server{
		Addr:         cfg.App.HTTPAddr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Background workers
	go func() {
		if err := sessions.Run(ctx); err != nil {
			log.Error("session sweeper stopped", "err", err)
		}
	}()

	if writer != nil {
		host, _ := os.Hostname()
		dispatch := outbox.NewDispatcher(log, writer, cfg.Kafka.TopicEvents)
		relay := outbox.NewRelay(log, st.outbox, dispatch, fmt.Sprintf("%s-%d", host, os.Getpid()),
			outbox.WithBatchSize(cfg.Outbox.BatchSize),
			outbox.WithInterval(cfg.Outbox.Interval),
			outbox.WithLease(cfg.Outbox.Lease),
			outbox.WithMetrics(m),
		)
		go func() {
			if err := relay.Run(ctx); err != nil {
				log.Error("relay stopped with error", "err", err)
			}
		}()
	} else {
		log.Warn("kafka brokers not configured; outbox relay disabled")
	}

	if cfg.App.GRPCAddr != "" {
		hs := health.NewServer(log)
		lis, err := health.Listen(ctx, cfg.App.GRPCAddr)
		if err != nil {
			log.Error("grpc listen failed", "addr", cfg.App.GRPCAddr, "err", err)
			os.Exit(1)
		}
		hs.SetServing("", true)
		go func() {
			if err := hs.Serve(ctx, lis); err != nil {
				log.Error("grpc health server error", "err", err)
			}
		}()
	}

	go func() {
		log.Info("http listening", "addr", cfg.App.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	closers := []func(context.Context) error{srv.Shutdown}
	if writer != nil {
		closers = append(closers, writer.Shutdown)
	}
	if rdb != nil {
		closers = append(closers, func(context.Context) error { return rdb.Close() })
	}
	closers = append(closers, st.Close, tp.Shutdown)

	if err := shutdown.Drain(cfg.HTTP.ShutdownTimeout, closers...); err != nil {
		log.Error("shutdown", "err", err)
	}
	log.Info("storefront shutdown complete")
}
