package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/rekhigroup/livplus-backend/api/routes"
	"github.com/rekhigroup/livplus-backend/internal/auth"
	"github.com/rekhigroup/livplus-backend/internal/cart"
	charge "github.com/rekhigroup/livplus-backend/internal/charges"
	"github.com/rekhigroup/livplus-backend/internal/community"
	inquiry "github.com/rekhigroup/livplus-backend/internal/inquiries"
	order "github.com/rekhigroup/livplus-backend/internal/orders"
	product "github.com/rekhigroup/livplus-backend/internal/products"
	promo "github.com/rekhigroup/livplus-backend/internal/promos"
	slide "github.com/rekhigroup/livplus-backend/internal/slides"
	user "github.com/rekhigroup/livplus-backend/internal/users"
	"github.com/rekhigroup/livplus-backend/internal/watch"
	"github.com/rekhigroup/livplus-backend/pkg/auth/session"
	"github.com/rekhigroup/livplus-backend/pkg/config"
	"github.com/rekhigroup/livplus-backend/pkg/db"
	"github.com/rekhigroup/livplus-backend/pkg/logger"
	"github.com/rekhigroup/livplus-backend/pkg/metrics"
	"github.com/rekhigroup/livplus-backend/pkg/migrate"
	"github.com/rekhigroup/livplus-backend/pkg/outbox"
	"github.com/rekhigroup/livplus-backend/pkg/pubsub"
	"github.com/rekhigroup/livplus-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT.SessionTTL())
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// the catalog feed is optional: without a subscription the storefront
	// still works, it just does not get change nudges
	hub := watch.NewHub()
	feedRunning := cfg.GCP.ProjectID != "" && cfg.PubSub.CatalogSubscription != ""
	if feedRunning {
		pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub client", err)
			}
		}()
		go func() {
			if err := watch.Consume(ctx, pubsubClient.CatalogSubscription(), hub, logg); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error(ctx, "catalog feed consumer stopped", err)
			}
		}()
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	productService, err := product.NewService(product.NewRepository(dbClient.DB()), dbClient, outboxService)
	if err != nil {
		logg.Error(ctx, "failed to create product service", err)
		os.Exit(1)
	}
	promoService, err := promo.NewService(promo.NewRepository(dbClient.DB()), dbClient, outboxService)
	if err != nil {
		logg.Error(ctx, "failed to create promo service", err)
		os.Exit(1)
	}
	chargeService, err := charge.NewService(charge.NewRepository(dbClient.DB()), dbClient, outboxService)
	if err != nil {
		logg.Error(ctx, "failed to create charge service", err)
		os.Exit(1)
	}
	slideService, err := slide.NewService(slide.NewRepository(dbClient.DB()), dbClient, outboxService)
	if err != nil {
		logg.Error(ctx, "failed to create slide service", err)
		os.Exit(1)
	}
	communityService, err := community.NewService(community.NewRepository(dbClient.DB()), dbClient, outboxService)
	if err != nil {
		logg.Error(ctx, "failed to create community service", err)
		os.Exit(1)
	}
	inquiryService, err := inquiry.NewService(inquiry.NewRepository(dbClient.DB()), productService)
	if err != nil {
		logg.Error(ctx, "failed to create inquiry service", err)
		os.Exit(1)
	}

	cartStore, err := cart.NewStore(redisClient, logg)
	if err != nil {
		logg.Error(ctx, "failed to create cart store", err)
		os.Exit(1)
	}
	// the cart recomputes totals on every render; with the feed running the
	// charge rule set is read from a feed-invalidated snapshot instead of a
	// query per render. Without the feed there is no invalidation signal, so
	// reads stay direct.
	var cartService cart.Service
	if feedRunning {
		chargeCache := charge.NewCache(ctx, chargeService, hub, logg)
		defer chargeCache.Close()
		cartService, err = cart.NewService(cartStore, productService, promoService, chargeCache)
	} else {
		cartService, err = cart.NewService(cartStore, productService, promoService, chargeService)
	}
	if err != nil {
		logg.Error(ctx, "failed to create cart service", err)
		os.Exit(1)
	}

	orderService, err := order.NewService(
		order.NewRepository(dbClient.DB()),
		dbClient,
		cartService,
		product.NewRepository(dbClient.DB()),
		outboxService,
		logg,
	)
	if err != nil {
		logg.Error(ctx, "failed to create order service", err)
		os.Exit(1)
	}

	userService, err := user.NewService(user.NewRepository(dbClient.DB()), cfg.Password, logg)
	if err != nil {
		logg.Error(ctx, "failed to create user service", err)
		os.Exit(1)
	}
	if err := userService.SeedAdmin(ctx, cfg.AdminSeed); err != nil {
		logg.Error(ctx, "failed to seed admin account", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(userService, sessionManager, cfg.JWT, logg)
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	router := routes.NewRouter(routes.Deps{
		Config:    cfg,
		Logger:    logg,
		Database:  dbClient,
		Redis:     redisClient,
		Sessions:  sessionManager,
		Metrics:   httpMetrics,
		Registry:  registry,
		Auth:      authService,
		Users:     userService,
		Products:  productService,
		Promos:    promoService,
		Charges:   chargeService,
		Slides:    slideService,
		Community: communityService,
		Inquiries: inquiryService,
		Cart:      cartService,
		Orders:    orderService,
	})

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serverCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(serverCtx, "starting api server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(serverCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(serverCtx, "graceful shutdown failed", err)
			os.Exit(1)
		}
		logg.Info(serverCtx, "api server shut down gracefully")
	}
}
