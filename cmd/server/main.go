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

	"go-agency-site/internal/auth"
	"go-agency-site/internal/cache"
	"go-agency-site/internal/config"
	"go-agency-site/internal/data"
	"go-agency-site/internal/handler"
	"go-agency-site/internal/logger"
	"go-agency-site/internal/service"
	"go-agency-site/internal/storage"
	"go-agency-site/internal/view"
	"go-agency-site/web"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		// Use fmt.Printf here because the logger is not yet initialized.
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log, os.Stdout)

	// --- Pre-flight Checks ---
	if cfg.Session.SecretKey == "" || cfg.Session.SecretKey == "CHANGE_ME_IN_PRODUCTION_SECRET!!" {
		log.Fatal(errors.New("session secret key not set"), "Please set a secure AGENCY_SESSION_SECRETKEY environment variable.")
	}

	// --- Database Initialization and Migration ---
	log.Info("Applying database migrations...")
	if err := data.ApplyMigrations(cfg.DB.DSN, "migrations"); err != nil {
		log.Fatal(err, "Failed to apply migrations")
	}
	log.Info("Migrations applied successfully.")

	log.Info("Connecting to the database...")
	db, err := data.NewDB(cfg.DB.DSN)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()
	log.Info("Database connection successful.")

	// --- Session Management Setup ---
	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.New(db.DB)
	sessionManager.Lifetime = time.Duration(cfg.Session.Lifetime) * time.Hour
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode

	// --- Authorization Setup ---
	log.Info("Initializing authorization...")
	enforcer, err := auth.NewEnforcer("sqlite", cfg.DB.DSN, "auth_model.conf")
	if err != nil {
		log.Fatal(err, "Failed to initialize enforcer")
	}
	auth.SeedDefaultPolicies(enforcer, log)
	log.Info("Enforcer initialized and policies seeded.")

	// --- View Template Initialization ---
	log.Info("Initializing view templates...")
	viewService, err := view.New(web.TemplateFS)
	if err != nil {
		log.Fatal(err, "Failed to initialize view templates")
	}
	log.Info("View templates initialized.")

	// --- Cache Initialization ---
	log.Info("Initializing SQLite cache...")
	contentCache, err := cache.New(cfg.Cache)
	if err != nil {
		log.Fatal(err, "Failed to initialize cache")
	}
	defer contentCache.Close()
	log.Info("Cache initialized.")

	// --- Image Storage Initialization ---
	imageStore, err := storage.NewImageStore(cfg.Uploads)
	if err != nil {
		log.Fatal(err, "Failed to initialize image storage")
	}

	// --- Dependency Injection and Handler Initialization ---
	// Initialize the application layers, injecting dependencies from top to bottom.
	postRepository := data.NewSQLPostRepository(db)
	categoryRepository := data.NewCategoryRepository(db)
	userRepository := data.NewUserRepository(db)
	contactRepository := data.NewContactRepository(db)

	postService := service.NewPostService(postRepository, contentCache)
	blogService := service.NewBlogService(postRepository, contentCache)
	userService := service.NewUserService(userRepository)
	contactService := service.NewContactService(contactRepository)

	siteHandler := handler.NewSiteHandler(contactService, viewService, sessionManager, log)
	blogHandler := handler.NewBlogHandler(blogService, viewService, log)
	authHandler := handler.NewAuthHandler(userService, sessionManager, viewService)
	adminHandler := handler.NewAdminHandler(postService, userService, contactService,
		categoryRepository, imageStore, viewService, sessionManager, log)
	seoHandler := handler.NewSEOHandler(blogService, cfg.Server.BaseURL, log)

	// --- Router Setup ---
	// The router is the central hub that directs incoming requests to the correct handlers.
	router := handler.NewRouter(handler.RouterDeps{
		Site:       siteHandler,
		Blog:       blogHandler,
		Auth:       authHandler,
		Admin:      adminHandler,
		SEO:        seoHandler,
		Session:    sessionManager,
		Profiles:   userRepository,
		Enforcer:   enforcer,
		View:       viewService,
		Log:        log,
		StaticFS:   web.StaticFS,
		UploadsDir: cfg.Uploads.Dir,
	})

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}
	go func() {
		log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err, "Could not start HTTP server")
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err, "Server forced to shutdown")
	}
	log.Info("Server exiting")
}
