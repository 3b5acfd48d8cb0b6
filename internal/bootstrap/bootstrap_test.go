package bootstrap

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BlueberryTheta/wordGame/internal/config"
	"github.com/BlueberryTheta/wordGame/internal/generator"
	"github.com/BlueberryTheta/wordGame/internal/types"
)

type stubLLM struct{ reply string }

func (s stubLLM) Complete(context.Context, generator.Completion) (string, error) { return s.reply, nil }

func clock() time.Time {
	loc, _ := time.LoadLocation("America/New_York")
	return time.Date(2025, 3, 10, 9, 30, 0, 0, loc)
}

func newConfig(t *testing.T, backend config.StoreBackend) *config.Config {
	t.Helper()
	return &config.Config{
		Timezone:         "America/New_York",
		Secret:           "s3cret",
		UsedWindow:       200,
		StoreBackend:     backend,
		DataDir:          t.TempDir(),
		GeneratorBackend: config.GeneratorDeterministic,
	}
}

func TestNew_MemoryRunsDegraded(t *testing.T) {
	g, err := New(context.Background(), newConfig(t, config.StoreMemory), zerolog.Nop(), WithClock(clock))
	require.NoError(t, err)
	defer g.Close()

	assert.False(t, g.Words.Main.Durable())
	assert.False(t, g.Words.Puzzle.Durable())
	assert.Equal(t, "2025-03-10", g.Words.Main.Day())
	assert.Equal(t, "memory", g.Store.Backend())
}

func TestNew_WarnsOnlyForHostLocalStore(t *testing.T) {
	tests := []struct {
		backend config.StoreBackend
		warns   bool
	}{
		{config.StoreFile, true},
		{config.StoreMemory, false},
		{config.StoreRemote, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			var buf bytes.Buffer
			cfg := newConfig(t, tt.backend)
			cfg.KVURL = "http://127.0.0.1:1"
			cfg.KVToken = "token"
			cfg.KVTimeout = 100 * time.Millisecond
			g, err := New(context.Background(), cfg, zerolog.New(&buf), WithClock(clock))
			require.NoError(t, err)
			defer g.Close()

			assert.Equal(t, tt.warns, bytes.Contains(buf.Bytes(), []byte("Store is local to this host")))
			assert.Equal(t, tt.backend != config.StoreMemory, g.Words.Main.Durable())
		})
	}
}

func TestNew_FilePinsWords(t *testing.T) {
	ctx := context.Background()
	g, err := New(ctx, newConfig(t, config.StoreFile), zerolog.Nop(), WithClock(clock))
	require.NoError(t, err)
	defer g.Close()

	assert.True(t, g.Words.Main.Durable())
	word, err := g.Words.TodayWord(ctx, false, "")
	require.NoError(t, err)
	assert.Contains(t, generator.CuratedWords, word)

	pinned, ok, err := g.Store.GetWordForDay(ctx, types.NamespaceMain, "2025-03-10")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, word, pinned)

	puzzle, err := g.Words.PuzzleWord(ctx, false, "")
	require.NoError(t, err)
	assert.Contains(t, generator.PuzzleWords, puzzle, "offline puzzle list without a model")

	view, err := g.Puzzle.State(ctx, false, "")
	require.NoError(t, err)
	assert.Equal(t, puzzle, view.Word)
	assert.Equal(t, g.Version(view.Day, puzzle), view.State.WordVersion)
}

func TestNew_ExternalGenerator(t *testing.T) {
	ctx := context.Background()
	cfg := newConfig(t, config.StoreMemory)
	cfg.GeneratorBackend = config.GeneratorExternal
	cfg.OpenAIKey = "sk-test"

	g, err := New(ctx, cfg, zerolog.Nop(), WithClock(clock), WithLLM(stubLLM{reply: "zeppelin, zeppelin"}))
	require.NoError(t, err)
	defer g.Close()

	assert.True(t, g.Generator.External())
	word, err := g.Words.TodayWord(ctx, false, "")
	require.NoError(t, err)
	assert.Equal(t, "zeppelin", word)

	puzzle, err := g.Words.PuzzleWord(ctx, false, "")
	require.NoError(t, err)
	assert.Equal(t, "zeppelin", puzzle, "the model replaces the offline list")
}

func TestNew_BadTimezone(t *testing.T) {
	cfg := newConfig(t, config.StoreMemory)
	cfg.Timezone = "Mars/Olympus"
	_, err := New(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestGame_Scheduler(t *testing.T) {
	g, err := New(context.Background(), newConfig(t, config.StoreMemory), zerolog.Nop(), WithClock(clock))
	require.NoError(t, err)
	defer g.Close()

	s := g.Scheduler(zerolog.Nop())
	s.Start()
	defer s.Stop()
	assert.Equal(t, "2025-03-11T00:01:00-04:00", s.Next().Format(time.RFC3339))
	assert.True(t, clock().Equal(g.Now()))
}
