package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/BlueberryTheta/wordGame/internal/bootstrap"
	"github.com/BlueberryTheta/wordGame/internal/config"
	"github.com/BlueberryTheta/wordGame/internal/logger"
)

func main() {
	_ = godotenv.Load()
	log := logger.New("wordgame")
	if err := run(log); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

// run owns every resource so deferred cleanup happens before main exits.
func run(log zerolog.Logger) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	cfg.Log(log)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	game, err := bootstrap.New(context.Background(), cfg, log)
	if err != nil {
		return fmt.Errorf("start game: %w", err)
	}
	defer game.Close()

	if cfg.RollScheduler {
		sched := game.Scheduler(log)
		sched.Start()
		defer sched.Stop()
	}

	app := NewApp(game, log)
	return startServer(app.setupRouter(), cfg.HTTPAddr(), log)
}

// setupRouter registers middleware and routes.
func (app *App) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(
		requestIDMiddleware(app.Log),
		gin.CustomRecovery(recoveryHandler),
		accessLogMiddleware(),
		ginGzip.Gzip(ginGzip.DefaultCompression,
			ginGzip.WithExcludedExtensions([]string{".svg", ".ico", ".png", ".jpg", ".jpeg", ".gif"}),
			ginGzip.WithExcludedPaths([]string{"/static/fonts"})),
		cacheHeadersMiddleware(app.IsProduction),
	)

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		app.Log.Warn().Err(err).Msg("Failed to set trusted proxies")
	}

	limited := app.rateLimitMiddleware()
	router.GET(RouteState, app.stateHandler)
	router.GET(RouteReveal, app.revealHandler)
	router.POST(RouteQuestion, limited, app.questionHandler)
	router.POST(RouteGuess, limited, app.guessHandler)
	router.GET(RouteRoll, limited, app.rollHandler)
	router.POST(RouteRoll, limited, app.rollHandler)
	router.GET(RoutePuzzleState, app.puzzleStateHandler)
	router.POST(RoutePuzzleGuess, limited, app.puzzleGuessHandler)
	router.GET(RoutePuzzleReveal, app.puzzleRevealHandler)
	router.GET(RouteHealth, app.healthHandler)

	if app.StaticDir != "" && dirExists(app.StaticDir) {
		app.Log.Info().Str("dir", app.StaticDir).Msg("Serving static assets")
		router.Static(RouteStatic, app.StaticDir)
		if index := filepath.Join(app.StaticDir, "index.html"); fileExists(index) {
			router.StaticFile("/", index)
		}
	}
	return router
}

func startServer(router *gin.Engine, addr string, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, syscall.SIGINT, syscall.SIGTERM)
		<-sigint
		log.Info().Msg("Shutdown signal received, shutting down server gracefully...")
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("HTTP server shutdown")
		}
		close(idleConnsClosed)
	}()

	log.Info().Str("addr", addr).Msg("Server starting")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	<-idleConnsClosed
	log.Info().Msg("Server shutdown complete")
	return nil
}
