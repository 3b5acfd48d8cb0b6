package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BlueberryTheta/wordGame/internal/types"
)

// failingKV fails every operation; used for error propagation checks.
type failingKV struct{ *MemoryKV }

var errBackendDown = errors.New("backend down")

func (failingKV) Get(context.Context, string) (string, error) { return "", errBackendDown }
func (failingKV) Set(context.Context, string, string) error { return errBackendDown }
func (failingKV) SMembers(context.Context, string) ([]string, error) { return nil, errBackendDown }
func (failingKV) SAdd(context.Context, string, string) error { return errBackendDown }
func (failingKV) ZAdd(context.Context, string, int64, string) error { return errBackendDown }
func (failingKV) ZTail(context.Context, string, int) ([]string, error) {
	return nil, errBackendDown
}
func (failingKV) Ping(context.Context) error { return errBackendDown }

func TestKeys(t *testing.T) {
	assert.Equal(t, "word:main:2025-03-10", WordKey("main", "2025-03-10"))
	assert.Equal(t, "used:puzzle", UsedKey("puzzle"))
	assert.Equal(t, "puzzle:state:2025-03-10", PuzzleStateKey("2025-03-10"))
	assert.Equal(t, "used:main:recent", RecentKey("main"))
}

func TestWords_PinnedWordNamespaces(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	w := NewWords(kv, zerolog.Nop())

	_, ok, err := w.GetWordForDay(ctx, types.NamespaceMain, "2025-03-10")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, w.SetWordForDay(ctx, types.NamespaceMain, "2025-03-10", " Planet "))
	require.NoError(t, w.SetWordForDay(ctx, types.NamespacePuzzle, "2025-03-10", "forest"))

	got, ok, err := w.GetWordForDay(ctx, types.NamespaceMain, "2025-03-10")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "planet", got)

	got, ok, err = w.GetWordForDay(ctx, types.NamespacePuzzle, "2025-03-10")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "forest", got)

	// Main writes are mirrored to the legacy key, puzzle writes are not.
	legacy, err := kv.Get(ctx, "wotd:word:2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, "planet", legacy)
}

func TestWords_ReadsLegacyMainData(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, "wotd:word:2024-12-31", "harbor"))
	require.NoError(t, kv.SAdd(ctx, "wotd:used", "harbor"))
	require.NoError(t, kv.SAdd(ctx, "wotd:used", "meadow"))
	w := NewWords(kv, zerolog.Nop())

	got, ok, err := w.GetWordForDay(ctx, types.NamespaceMain, "2024-12-31")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "harbor", got)

	_, ok, err = w.GetWordForDay(ctx, types.NamespacePuzzle, "2024-12-31")
	require.NoError(t, err)
	assert.False(t, ok, "legacy layout only ever held the main game")

	require.NoError(t, w.AddUsedWord(ctx, types.NamespaceMain, "meadow"))
	require.NoError(t, w.AddUsedWord(ctx, types.NamespaceMain, "quartz"))
	used, err := w.GetUsedWords(ctx, types.NamespaceMain)
	require.NoError(t, err)
	assert.Equal(t, []string{"harbor", "meadow", "quartz"}, used)

	puzzleUsed, err := w.GetUsedWords(ctx, types.NamespacePuzzle)
	require.NoError(t, err)
	assert.Empty(t, puzzleUsed)
}

func TestWords_RecentUsedWordsKeepsUsageOrder(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			w := NewWords(kv, zerolog.Nop())
			// A frozen clock still yields increasing scores.
			at := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
			w.now = func() time.Time { return at }

			var all []string
			for i := range 250 {
				word := fmt.Sprintf("w%03d", i)
				all = append(all, word)
				require.NoError(t, w.AddUsedWord(ctx, types.NamespacePuzzle, word))
			}

			recent, err := w.RecentUsedWords(ctx, types.NamespacePuzzle, 200)
			require.NoError(t, err)
			assert.Equal(t, all[50:], recent)

			// Reusing an old word makes it the most recent one.
			require.NoError(t, w.AddUsedWord(ctx, types.NamespacePuzzle, "w000"))
			recent, err = w.RecentUsedWords(ctx, types.NamespacePuzzle, 3)
			require.NoError(t, err)
			assert.Equal(t, []string{"w248", "w249", "w000"}, recent)
		})
	}
}

func TestWords_RecentUsedWordsIncludesUnorderedHistory(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.SAdd(ctx, "wotd:used", "harbor"))
	require.NoError(t, kv.SAdd(ctx, "used:main", "meadow"))
	w := NewWords(kv, zerolog.Nop())
	require.NoError(t, w.AddUsedWord(ctx, types.NamespaceMain, "quartz"))

	recent, err := w.RecentUsedWords(ctx, types.NamespaceMain, 200)
	require.NoError(t, err)
	assert.Equal(t, []string{"harbor", "meadow", "quartz"}, recent)

	recent, err = w.RecentUsedWords(ctx, types.NamespaceMain, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"quartz"}, recent)
}

func TestWords_PuzzleStateRoundTrip(t *testing.T) {
	ctx := context.Background()
	w := NewWords(newTestSQLite(t), zerolog.Nop())

	_, ok, err := w.GetPuzzleState(ctx, "2025-03-10")
	require.NoError(t, err)
	assert.False(t, ok)

	st := &types.PuzzleState{
		RevealedIndices: []int{0, 3},
		QAs:             []types.QA{{Q: "Is it man-made?", A: "No."}},
		FormatVersion:   2,
		WordVersion:     "abc123",
	}
	require.NoError(t, w.SetPuzzleState(ctx, "2025-03-10", st))

	got, ok, err := w.GetPuzzleState(ctx, "2025-03-10")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, st, got)
}

func TestWords_CorruptPuzzleStateIsMissing(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, PuzzleStateKey("2025-03-10"), "{not json"))
	w := NewWords(kv, zerolog.Nop())

	_, ok, err := w.GetPuzzleState(ctx, "2025-03-10")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWords_ErrorsPropagateExceptBestEffort(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	w := NewWords(failingKV{NewMemoryKV()}, zerolog.New(&buf))

	_, _, err := w.GetWordForDay(ctx, types.NamespaceMain, "2025-03-10")
	assert.ErrorIs(t, err, errBackendDown)
	assert.ErrorIs(t, w.SetWordForDay(ctx, types.NamespaceMain, "2025-03-10", "x"), errBackendDown)
	_, err = w.GetUsedWords(ctx, types.NamespacePuzzle)
	assert.ErrorIs(t, err, errBackendDown)
	assert.ErrorIs(t, w.AddUsedWord(ctx, types.NamespaceMain, "x"), errBackendDown)
	_, err = w.RecentUsedWords(ctx, types.NamespaceMain, 10)
	assert.ErrorIs(t, err, errBackendDown)
	_, _, err = w.GetPuzzleState(ctx, "2025-03-10")
	assert.ErrorIs(t, err, errBackendDown)

	assert.NotPanics(t, func() { w.TryAddUsedWord(ctx, types.NamespaceMain, "planet") })
	assert.Contains(t, buf.String(), "Recording used word failed")
}
