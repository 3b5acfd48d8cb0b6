// Package bootstrap assembles the game from a resolved configuration. Both
// the HTTP server and the operator CLI start here.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/BlueberryTheta/wordGame/internal/config"
	"github.com/BlueberryTheta/wordGame/internal/daykey"
	"github.com/BlueberryTheta/wordGame/internal/generator"
	"github.com/BlueberryTheta/wordGame/internal/store"
	"github.com/BlueberryTheta/wordGame/internal/types"
	"github.com/BlueberryTheta/wordGame/internal/wotd"
)

// PuzzleAttempts is how many seeds the puzzle tries before accepting a
// repeated word.
const PuzzleAttempts = 3

// Game is everything a front end needs.
type Game struct {
	Config    *config.Config
	Days      *daykey.Calculator
	Store     *store.Words
	Generator *generator.Generator
	Words     *wotd.Service
	Puzzle    *wotd.PuzzleBuilder

	now func() time.Time
}

// Option adjusts construction, mostly for tests.
type Option func(*options)

type options struct {
	llm generator.LLM
	now func() time.Time
}

// WithLLM replaces the OpenAI client.
func WithLLM(llm generator.LLM) Option { return func(o *options) { o.llm = llm } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

// New opens the store and builds the coordinators. The caller owns Close.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts ...Option) (*Game, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	days, err := daykey.Load(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	words, err := store.Open(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	llm := o.llm
	if llm == nil && cfg.GeneratorBackend == config.GeneratorExternal {
		llm = generator.NewOpenAI(cfg.OpenAIBaseURL, cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAITimeout)
	}
	gen := generator.New(cfg.GeneratorBackend, llm, log)

	// The memory backend cannot pin for anyone but this process, so the
	// coordinators run degraded and say so.
	var pins store.WordStore
	if cfg.StoreBackend != config.StoreMemory {
		pins = words
		if !store.Durable(cfg.StoreBackend) {
			log.Warn().Str("backend", words.Backend()).Msg("Store is local to this host, run a single instance or configure the REST store")
		}
	}

	base := wotd.Options{
		Store:      pins,
		Source:     gen,
		Secret:     cfg.Secret,
		Days:       days,
		Now:        o.now,
		Log:        log,
		UsedWindow: cfg.UsedWindow,
	}

	mainOpts := base
	mainOpts.Namespace = types.NamespaceMain

	puzzleOpts := base
	puzzleOpts.Namespace = types.NamespacePuzzle
	puzzleOpts.Attempts = PuzzleAttempts
	if !gen.External() {
		puzzleOpts.Offline = generator.PuzzleWords
	}

	svc := &wotd.Service{
		Main:   wotd.NewCoordinator(mainOpts),
		Puzzle: wotd.NewCoordinator(puzzleOpts),
	}

	return &Game{
		Config:    cfg,
		Days:      days,
		Store:     words,
		Generator: gen,
		Words:     svc,
		Puzzle:    wotd.NewPuzzleBuilder(svc.Puzzle, gen),
		now:       o.now,
	}, nil
}

// Scheduler returns a daily roller for both namespaces.
func (g *Game) Scheduler(log zerolog.Logger) *wotd.Scheduler {
	return wotd.NewScheduler(g.Days, g.now, log, g.Words.Coordinators()...)
}

// Version tags a word of day for clients.
func (g *Game) Version(day, word string) string {
	return wotd.WordVersion(g.Config.Secret, day, word)
}

// Now is the game clock.
func (g *Game) Now() time.Time { return g.now() }

// Close releases the store.
func (g *Game) Close() error {
	return g.Store.Close()
}
