package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kotenkov/event_market/internal/auth"
	"github.com/kotenkov/event_market/internal/config"
	"github.com/kotenkov/event_market/internal/events"
	"github.com/kotenkov/event_market/internal/httpserver"
	"github.com/kotenkov/event_market/internal/logging"
	"github.com/kotenkov/event_market/internal/repo"
	"github.com/kotenkov/event_market/internal/search"
	"github.com/kotenkov/event_market/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LOG_LEVEL)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.KAFKA_ADDRESS != "" {
		publisher = events.NewKafkaPublisher(cfg.KAFKA_ADDRESS)
	} else {
		logger.Warn("kafka disabled, events will be dropped")
	}

	var searchClient *search.Client
	if cfg.ES_URL != "" {
		searchClient, err = search.NewClient(cfg.ES_URL, cfg.ES_USER, cfg.ES_PASSWORD)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
	} else {
		logger.Warn("elasticsearch disabled, product search unavailable")
	}

	r := repo.New(db)
	tokens := &auth.TokenService{
		DB:            db,
		JWTSecret:     []byte(cfg.JWT_SECRET),
		RefreshSecret: []byte(cfg.REFRESH_SECRET),
	}

	memberships := &service.MembershipService{Repo: r, Events: publisher}
	carts := &service.CartService{Repo: r}
	orders := &service.OrderService{Repo: r, Events: publisher}
	products := &service.ProductService{Repo: r, Events: publisher, Search: searchClient}
	authSvc := &service.AuthService{Repo: r}
	admin := &service.AdminService{Repo: r}
	guestLists := &service.GuestListService{Repo: r}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := logging.IntoContext(c.Request().Context(), logger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	t := cfg.OpTimeout
	deps := httpserver.Deps{
		Tokens:      tokens,
		Auth:        &httpserver.AuthHandler{Svc: authSvc, Tokens: tokens, Timeout: t},
		Memberships: &httpserver.MembershipHandler{Svc: memberships, Timeout: t},
		Carts:       &httpserver.CartHandler{Svc: carts, Timeout: t},
		Orders:      &httpserver.OrderHandler{Svc: orders, Timeout: t},
		Products:    &httpserver.ProductHandler{Svc: products, Timeout: t},
		Users:       &httpserver.UserHandler{Admin: admin, Products: products, Timeout: t},
		GuestLists:  &httpserver.GuestListHandler{Svc: guestLists, Timeout: t},
		Admin:       &httpserver.AdminHandler{Svc: admin, Timeout: t},
	}

	httpserver.Register(e, &deps)

	sweepCtx, stopSweep := context.WithCancel(logging.IntoContext(context.Background(), logger))
	defer stopSweep()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if _, err := memberships.ExpireLapsed(sweepCtx); err != nil {
					logger.Error("membership expiry sweep failed", "error", err)
				}
			}
		}
	}()

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := publisher.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
