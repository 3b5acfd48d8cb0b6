package main

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/BlueberryTheta/wordGame/internal/bootstrap"
)

// App holds the game and the per-process HTTP state.
type App struct {
	Game           *bootstrap.Game
	Log            zerolog.Logger
	AdminToken     string
	IsProduction   bool
	StaticDir      string
	RateLimitRPS   int
	RateLimitBurst int
	StartTime      time.Time

	LimiterMap   map[string]*rate.Limiter
	LimiterMutex sync.Mutex
}

// NewApp copies the HTTP settings out of the game config.
func NewApp(game *bootstrap.Game, log zerolog.Logger) *App {
	cfg := game.Config
	return &App{
		Game:           game,
		Log:            log,
		AdminToken:     cfg.AdminToken,
		IsProduction:   cfg.IsProduction(),
		StaticDir:      cfg.StaticDir,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		StartTime:      time.Now(),
		LimiterMap:     make(map[string]*rate.Limiter),
	}
}
