package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"restaurant-system/internal/common/cache"
	"restaurant-system/internal/common/config"
	"restaurant-system/internal/common/db"
	"restaurant-system/internal/common/httpx"
	"restaurant-system/internal/common/logger"
	"restaurant-system/internal/common/metrics"
	"restaurant-system/internal/common/mq"
	"restaurant-system/internal/microservices/order/handlers"
	"restaurant-system/internal/microservices/order/realtime"
	"restaurant-system/internal/microservices/order/repository"
	"restaurant-system/internal/microservices/order/service"
	"restaurant-system/internal/microservices/payment"
	"restaurant-system/internal/microservices/qrcode"
)

// Run starts the order service and blocks until ctx is canceled. An
// unreachable database, cache or broker degrades the service instead of
// stopping it.
func Run(ctx context.Context, cfg config.App, log *logger.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg, metrics.Config{ServiceName: "order-service", Environment: cfg.Env})

	conn, err := db.Connect(ctx, cfg.Database, log)
	if conn == nil {
		return fmt.Errorf("database: %w", err)
	}
	defer conn.Close()
	if err != nil {
		log.Error("db_unavailable", err, map[string]any{"note": "orders are kept in memory until the store is back"})
	} else if err := db.Migrate(ctx, conn); err != nil {
		log.Error("db_migrate_failed", err, nil)
	} else {
		log.Info("db_ready", nil)
	}

	var menuCache repository.JSONCache
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			log.Warn("redis_unavailable", map[string]any{"error": err.Error()})
		} else {
			defer rc.Close()
			menuCache = rc
		}
	}

	var (
		relay      *mq.Relay
		relayOrNil service.Publisher
	)
	if cfg.Rabbit.Enabled {
		client, err := mq.Dial(cfg.Rabbit, false)
		if err == nil {
			err = client.DeclareFanout(cfg.Rabbit.Exchange)
			if err != nil {
				client.Close()
			}
		}
		if err != nil {
			log.Warn("rabbitmq_unavailable", map[string]any{"error": err.Error()})
		} else {
			defer client.Close()
			relay = mq.NewRelay(client, cfg.Rabbit.Exchange, "order-service", cfg.Rabbit.Buffer, log, m)
			relayOrNil = relay
		}
	}

	repo := repository.New(conn.Pool)
	svc, err := service.New(service.Deps{
		Store:             repo.OrderRepo,
		Menu:              repository.NewMenuCatalog(repo.MenuRepo, menuCache, log),
		Hub:               realtime.NewHub(cfg.Server.ClientBuffer, m),
		Relay:             relayOrNil,
		Metrics:           m,
		Log:               log,
		StrictTransitions: cfg.Orders.StrictTransitions,
		NodeID:            cfg.Orders.NodeID,
	})
	if err != nil {
		return err
	}
	if err := svc.OrderService.Rehydrate(ctx); err != nil {
		log.Error("rehydrate_failed", err, nil)
	}

	h := handlers.New(svc,
		payment.New(cfg.Payment),
		qrcode.New(cfg.QRCode.Size, cfg.QRCode.MaxTables),
		handlers.Options{PublicURL: publicURL(cfg.Server), AllowedOrigins: cfg.Server.CORS.AllowedOrigins},
		log)
	router := handlers.NewRouter(h, handlers.RouterConfig{
		CORS:      cfg.Server.CORS,
		StaticDir: cfg.Server.StaticDir,
		Gatherer:  reg,
		Observer:  m,
	}, log)
	srv := httpx.New(fmt.Sprintf(":%d", cfg.Server.Port), router)

	banner(log, cfg)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	if relay != nil {
		g.Go(func() error { return relay.Run(gctx) })
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("service_stopped", nil)
	return nil
}

func publicURL(s config.Server) string {
	if s.PublicURL != "" {
		return s.PublicURL
	}
	return fmt.Sprintf("http://localhost:%d", s.Port)
}

func banner(log *logger.Logger, cfg config.App) {
	base := publicURL(cfg.Server)
	log.Info("service_started", map[string]any{
		"port":        cfg.Server.Port,
		"customer":    base,
		"kitchen":     base + "/kitchen",
		"admin":       base + "/admin",
		"qrcodes":     base + "/qrcodes",
		"environment": cfg.Env,
		"payment":     cfg.Payment.Mode,
	})
}
