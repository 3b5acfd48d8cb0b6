package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/BlueberryTheta/wordGame/internal/types"
)

// WordStore is the namespaced persistence used by the word coordinator.
type WordStore interface {
	GetWordForDay(ctx context.Context, namespace, day string) (string, bool, error)
	SetWordForDay(ctx context.Context, namespace, day, word string) error
	GetUsedWords(ctx context.Context, namespace string) ([]string, error)
	// RecentUsedWords returns up to n of the most recently used words,
	// oldest first.
	RecentUsedWords(ctx context.Context, namespace string, n int) ([]string, error)
	AddUsedWord(ctx context.Context, namespace, word string) error
	// TryAddUsedWord is the best-effort variant of AddUsedWord: failures are
	// logged and swallowed because usage tracking never blocks gameplay.
	TryAddUsedWord(ctx context.Context, namespace, word string)
	GetPuzzleState(ctx context.Context, day string) (*types.PuzzleState, bool, error)
	SetPuzzleState(ctx context.Context, day string, state *types.PuzzleState) error
	Backend() string
	Ping(ctx context.Context) error
}

// WordKey is where the pinned word for namespace and day lives.
func WordKey(namespace, day string) string { return "word:" + namespace + ":" + day }

// UsedKey is the used-word set of a namespace.
func UsedKey(namespace string) string { return "used:" + namespace }

// RecentKey scores the used words of a namespace by when they were used.
// Sets carry no order on the remote backend, so windowing reads this instead.
func RecentKey(namespace string) string { return UsedKey(namespace) + ":recent" }

// PuzzleStateKey is where the puzzle state of a day lives.
func PuzzleStateKey(day string) string { return "puzzle:state:" + day }

func legacyWordKey(day string) string { return "wotd:word:" + day }

const legacyUsedKey = "wotd:used"

// Words implements WordStore over any KV backend.
type Words struct {
	kv  KV
	log zerolog.Logger

	now       func() time.Time
	mu        sync.Mutex
	lastScore int64
}

// NewWords wraps kv.
func NewWords(kv KV, log zerolog.Logger) *Words {
	return &Words{
		kv:  kv,
		log: log.With().Str("component", "store").Str("backend", kv.Name()).Logger(),
		now: time.Now,
	}
}

// KV exposes the underlying backend.
func (w *Words) KV() KV { return w.kv }

func (w *Words) Backend() string { return w.kv.Name() }

func (w *Words) Ping(ctx context.Context) error { return w.kv.Ping(ctx) }

// Close releases the backend.
func (w *Words) Close() error { return w.kv.Close() }

func (w *Words) GetWordForDay(ctx context.Context, namespace, day string) (string, bool, error) {
	word, err := w.kv.Get(ctx, WordKey(namespace, day))
	if err == nil && word != "" {
		return word, true, nil
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", false, fmt.Errorf("get word for %s/%s: %w", namespace, day, err)
	}
	if namespace != types.NamespaceMain {
		return "", false, nil
	}

	word, err = w.kv.Get(ctx, legacyWordKey(day))
	if errors.Is(err, ErrNotFound) || (err == nil && word == "") {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get legacy word for %s: %w", day, err)
	}
	return word, true, nil
}

func (w *Words) SetWordForDay(ctx context.Context, namespace, day, word string) error {
	word = normalizeWord(word)
	if err := w.kv.Set(ctx, WordKey(namespace, day), word); err != nil {
		return fmt.Errorf("set word for %s/%s: %w", namespace, day, err)
	}
	if namespace == types.NamespaceMain {
		if err := w.kv.Set(ctx, legacyWordKey(day), word); err != nil {
			return fmt.Errorf("set legacy word for %s: %w", day, err)
		}
	}
	return nil
}

// GetUsedWords returns the namespace's history, oldest first where the
// backend preserves order.
func (w *Words) GetUsedWords(ctx context.Context, namespace string) ([]string, error) {
	var all []string
	if namespace == types.NamespaceMain {
		legacy, err := w.kv.SMembers(ctx, legacyUsedKey)
		if err != nil {
			return nil, fmt.Errorf("get legacy used words: %w", err)
		}
		all = append(all, legacy...)
	}
	used, err := w.kv.SMembers(ctx, UsedKey(namespace))
	if err != nil {
		return nil, fmt.Errorf("get used words for %s: %w", namespace, err)
	}
	all = append(all, used...)
	return lo.Uniq(all), nil
}

func (w *Words) AddUsedWord(ctx context.Context, namespace, word string) error {
	word = normalizeWord(word)
	if word == "" {
		return nil
	}
	if err := w.kv.SAdd(ctx, UsedKey(namespace), word); err != nil {
		return fmt.Errorf("add used word to %s: %w", namespace, err)
	}
	if namespace == types.NamespaceMain {
		if err := w.kv.SAdd(ctx, legacyUsedKey, word); err != nil {
			return fmt.Errorf("add legacy used word: %w", err)
		}
	}
	if err := w.kv.ZAdd(ctx, RecentKey(namespace), w.score(), word); err != nil {
		return fmt.Errorf("score used word in %s: %w", namespace, err)
	}
	return nil
}

// RecentUsedWords reads the scored index. History recorded before the index
// existed has no order, so while the index holds fewer than n words the
// whole used set is returned.
func (w *Words) RecentUsedWords(ctx context.Context, namespace string, n int) ([]string, error) {
	recent, err := w.kv.ZTail(ctx, RecentKey(namespace), n)
	if err != nil {
		return nil, fmt.Errorf("get recent used words for %s: %w", namespace, err)
	}
	if len(recent) >= n {
		return recent, nil
	}
	all, err := w.GetUsedWords(ctx, namespace)
	if err != nil {
		return nil, err
	}
	older := lo.Without(all, recent...)
	return append(older, recent...), nil
}

// score is the current time in microseconds, strictly increasing within
// this process.
func (w *Words) score() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.now().UnixMicro()
	if s <= w.lastScore {
		s = w.lastScore + 1
	}
	w.lastScore = s
	return s
}

func (w *Words) TryAddUsedWord(ctx context.Context, namespace, word string) {
	if err := w.AddUsedWord(ctx, namespace, word); err != nil {
		w.log.Warn().Err(err).Str("namespace", namespace).Msg("Recording used word failed, continuing")
	}
}

func (w *Words) GetPuzzleState(ctx context.Context, day string) (*types.PuzzleState, bool, error) {
	raw, err := w.kv.Get(ctx, PuzzleStateKey(day))
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get puzzle state for %s: %w", day, err)
	}
	var st types.PuzzleState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		// A corrupt entry is treated as missing so it gets rebuilt.
		w.log.Warn().Err(err).Str("day", day).Msg("Discarding unreadable puzzle state")
		return nil, false, nil
	}
	return &st, true, nil
}

func (w *Words) SetPuzzleState(ctx context.Context, day string, state *types.PuzzleState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode puzzle state: %w", err)
	}
	if err := w.kv.Set(ctx, PuzzleStateKey(day), string(raw)); err != nil {
		return fmt.Errorf("set puzzle state for %s: %w", day, err)
	}
	return nil
}

func normalizeWord(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
