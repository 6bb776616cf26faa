package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	"restaurant-system/internal/common/config"
	"restaurant-system/internal/common/db"
	"restaurant-system/internal/common/logger"
	"restaurant-system/internal/microservices/notificator"
	"restaurant-system/internal/microservices/order"
)

func main() {
	mode := flag.String("mode", "order-service", "order-service | notification-subscriber | migrate")
	cfgPath := flag.String("config", "", "path to a yaml config file")
	port := flag.Int("port", 0, "order-service: http port, overrides server.port")
	flag.Parse()

	// Prices and totals travel as JSON numbers, the way the ordering pages send them.
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "invalid log_level:", err)
		os.Exit(2)
	}

	lg := logger.New("bootstrap")
	defer lg.Sync()
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch *mode {
	case "order-service":
		if err := order.Run(ctx, cfg, logger.New("order-service")); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "notification-subscriber":
		lg.Info("service_started", map[string]any{"service": "notification-subscriber"})
		if err := notificator.Start(ctx, cfg.Rabbit, logger.New("notification-subscriber")); err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
	case "migrate":
		conn, err := db.Connect(ctx, cfg.Database, lg)
		if err != nil {
			lg.Error("fatal", err, nil)
			conn.Close()
			os.Exit(1)
		}
		err = db.Migrate(ctx, conn)
		conn.Close()
		if err != nil {
			lg.Error("fatal", err, nil)
			os.Exit(1)
		}
		lg.Info("migrations_applied", nil)
	default:
		fmt.Fprintln(os.Stderr, "--mode must be one of: order-service | notification-subscriber | migrate")
		os.Exit(2)
	}
}
