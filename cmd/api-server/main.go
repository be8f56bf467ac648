package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"shelfscan/internal/auth"
	"shelfscan/internal/books"
	"shelfscan/internal/extract"
	"shelfscan/internal/feed"
	"shelfscan/pkg/database"
	"shelfscan/pkg/utils"
)

func main() {
	_ = godotenv.Load(".env.local")

	dbCfg := database.DefaultConfig()
	engine := database.SelectEngine(dbCfg)

	// Backend is decided exactly once, here. Everything downstream only
	// sees the books.Store interface.
	var (
		store  books.Store
		pingDB func(context.Context) error
	)
	switch engine {
	case database.EnginePostgres:
		pool := database.MustOpenPostgres(context.Background(), dbCfg)
		defer pool.Close()
		if err := database.MigratePostgres(context.Background(), pool); err != nil {
			log.Fatalf("db migrate failed: %v", err)
		}
		store = books.NewPostgresStore(pool)
		pingDB = pool.Ping
		log.Println("storage: postgres")
	default:
		db := database.MustOpenSQLite(dbCfg)
		defer db.Close()
		if err := database.MigrateSQLite(db); err != nil {
			log.Fatalf("db migrate failed: %v", err)
		}
		store = books.NewSQLiteStore(db)
		pingDB = db.PingContext
		log.Printf("storage: sqlite (%s)", dbCfg.Path)
	}

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	hub := feed.NewHub()
	router.GET("/ws", feed.WSHandler(hub))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "storage": string(engine)})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := pingDB(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "not_ready",
				"db_error":   err.Error(),
				"ws_clients": hub.ClientCount(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":     "ready",
			"db":         "ok",
			"ws_clients": hub.ClientCount(),
		})
	})

	// Auth
	authCfg := utils.LoadAuthConfig()
	tokens := auth.TokenService{
		Secret:   []byte(authCfg.JWTSecret),
		Issuer:   authCfg.JWTIssuer,
		Duration: authCfg.JWTDuration,
	}
	gate := auth.Gate{AdminEmail: authCfg.AdminEmail}
	if tokens.Configured() {
		gate.Verifier = tokens
	} else {
		log.Println("[auth] no JWT secret configured, mutations will be rejected")
	}

	var adminHash []byte
	if authCfg.AdminPassword != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(authCfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("hash admin password: %v", err)
		}
		adminHash = h
	}
	authHandler := auth.NewHandler(tokens, authCfg.AdminEmail, adminHash)
	authHandler.RegisterRoutes(router.Group("/auth"))

	// Collection
	booksHandler := books.NewHandler(store, gate, hub)
	booksHandler.RegisterRoutes(router.Group("/collection"))

	// Extraction
	extractCfg := utils.LoadExtractConfig()
	var vision *extract.VisionClient
	if extractCfg.VisionKey != "" {
		vision = extract.NewVisionClient(extractCfg.VisionKey, extractCfg.VisionTimeout)
	} else {
		log.Println("[extract] no vision key configured, using fallback generator")
	}
	extractHandler := extract.NewHandler(extract.NewPipeline(vision))
	extractHandler.RegisterRoutes(router.Group("/extract"))

	addr := utils.ListenAddr()
	httpSrv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("HTTP API server listening on %s", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("server stopped")
}
