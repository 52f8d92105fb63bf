package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kstrelkov/webshop/internal/config"
	"github.com/kstrelkov/webshop/internal/es"
	"github.com/kstrelkov/webshop/internal/event"
	"github.com/kstrelkov/webshop/internal/httpserver"
	"github.com/kstrelkov/webshop/internal/models"
	"github.com/kstrelkov/webshop/internal/repo"
	"github.com/kstrelkov/webshop/internal/search"
	"github.com/kstrelkov/webshop/internal/service"
	"github.com/kstrelkov/webshop/pkg/db"
	"github.com/kstrelkov/webshop/pkg/logging"
	loggingmw "github.com/kstrelkov/webshop/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.RefreshSecret, "REFRESH_SECRET")

	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := database.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Category{},
		&models.Product{},
		&models.ProductImage{},
		&models.Rating{},
		&models.CartItem{},
	); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	r := repo.New(database)

	var products *search.Products
	var index service.ProductIndex
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		products = &search.Products{ES: esClient, Index: cfg.ESIndex}
		index = products
	}

	var events service.ProductEvents
	var producer *event.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = event.NewProducer(cfg.KafkaBrokers)
		events = producer
	}

	cartSvc := &service.CartService{Store: r, Catalog: r}
	catalogSvc := &service.CatalogService{Repo: r, Events: events, Index: index}
	categorySvc := &service.CategoryService{Repo: r}
	ratingSvc := &service.RatingService{Repo: r}
	authSvc := &service.AuthService{Repo: r, JWTSecret: cfg.JWTSecret, RefreshSecret: cfg.RefreshSecret}
	userSvc := &service.UserService{Repo: r}

	images := &httpserver.ImageStore{Repo: r, Dir: cfg.ImagesDir, PublicURL: cfg.PublicURL}

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		JWTSecret: cfg.JWTSecret,
		ImagesDir: cfg.ImagesDir,
		Auth:      &httpserver.AuthHTTP{Svc: authSvc},
		Users:     &httpserver.UserHTTP{Svc: userSvc},
		Products:  &httpserver.ProductHTTP{Svc: catalogSvc, Images: images},
		Images:    &httpserver.ProductImageHTTP{Store: images},
		Cats:      &httpserver.CategoryHTTP{Svc: categorySvc},
		Ratings:   &httpserver.RatingHTTP{Svc: ratingSvc},
		Cart:      &httpserver.CartHTTP{Svc: cartSvc},
		Search:    &httpserver.SearchHTTP{Products: products},
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		log.Printf("starting server on %s", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	log.Println("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close: %v", err)
		}
	}
	sqlDB, err := database.DB()
	if err == nil {
		sqlDB.Close()
	}

	log.Println("server stopped")
}
