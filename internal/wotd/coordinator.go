// Package wotd decides the word of the day for each namespace and keeps
// every server instance agreeing on it.
//
// With a store configured the first instance to generate a word pins it under
// word:{namespace}:{day}; everyone else reads the pin. Without a store the
// coordinator relies on the deterministic seed alone and caches in process.
package wotd

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"golang.org/x/sync/singleflight"

	"github.com/BlueberryTheta/wordGame/internal/daykey"
	"github.com/BlueberryTheta/wordGame/internal/generator"
	"github.com/BlueberryTheta/wordGame/internal/store"
	"github.com/BlueberryTheta/wordGame/internal/types"
)

// ErrNoWordForDay is returned when a word is requested for a day that has
// none and cannot be generated.
var ErrNoWordForDay = errors.New("no word for day")

const (
	DefaultUsedWindow = 200
	versionLength     = 12
)

// Source produces a word from a seed while avoiding exclude.
type Source interface {
	GenerateWord(ctx context.Context, seed string, exclude []string) string
}

// Options configure a Coordinator.
type Options struct {
	Namespace string
	// Store pins words across instances. Nil selects degraded mode.
	Store  store.WordStore
	Source Source
	// Offline, when non-empty, replaces Source with a deterministic pick
	// from this list.
	Offline []string
	Secret  string
	Days    *daykey.Calculator
	Now     func() time.Time
	Log     zerolog.Logger
	// UsedWindow bounds how many recent used words are excluded.
	UsedWindow int
	// Attempts is how many seeds to try when the result is already used.
	Attempts int
}

// Coordinator owns the word of the day for one namespace.
type Coordinator struct {
	opts     Options
	cache    *wordCache
	group    singleflight.Group
	warnOnce sync.Once
	log      zerolog.Logger

	// served lists the words this process produced in degraded mode, most
	// recent last. ResetCache leaves it alone.
	servedMu sync.Mutex
	served   []string
}

// NewCoordinator applies defaults to opts.
func NewCoordinator(opts Options) *Coordinator {
	if opts.Namespace == "" {
		opts.Namespace = types.NamespaceMain
	}
	if opts.Days == nil {
		opts.Days = daykey.New(nil)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.UsedWindow <= 0 {
		opts.UsedWindow = DefaultUsedWindow
	}
	if opts.Attempts <= 0 {
		opts.Attempts = 1
	}
	return &Coordinator{
		opts:  opts,
		cache: newWordCache(opts.Namespace),
		log:   opts.Log.With().Str("component", "wotd").Str("namespace", opts.Namespace).Logger(),
	}
}

// Namespace is the word track this coordinator serves.
func (c *Coordinator) Namespace() string { return c.opts.Namespace }

// Day is the current day key.
func (c *Coordinator) Day() string { return c.opts.Days.Key(c.opts.Now()) }

// Durable reports whether words are pinned in a store.
func (c *Coordinator) Durable() bool { return c.opts.Store != nil }

// ResetCache drops the in-process cache. The store is untouched.
func (c *Coordinator) ResetCache() { c.cache.reset() }

// Word returns today's word. force skips the pinned read and generates a
// new word with salt mixed into the seed.
func (c *Coordinator) Word(ctx context.Context, force bool, salt string) (string, error) {
	return c.wordAt(ctx, c.Day(), force, salt)
}

// WordForDay returns the word of a past or current day. Past days are only
// available when pinned, or in degraded mode where the seed recreates them.
func (c *Coordinator) WordForDay(ctx context.Context, day string) (string, error) {
	today := c.Day()
	switch {
	case day == "" || day == today:
		return c.Word(ctx, false, "")
	case day > today:
		return "", ErrNoWordForDay
	case c.opts.Store == nil:
		return c.degraded(ctx, day, false, "")
	}

	word, ok, err := c.opts.Store.GetWordForDay(ctx, c.opts.Namespace, day)
	if err != nil {
		return "", fmt.Errorf("read %s word for %s: %w", c.opts.Namespace, day, err)
	}
	if !ok {
		return "", ErrNoWordForDay
	}
	return word, nil
}

func (c *Coordinator) wordAt(ctx context.Context, day string, force bool, salt string) (string, error) {
	if c.opts.Store == nil {
		return c.degraded(ctx, day, force, salt)
	}
	if !force {
		word, ok, err := c.pinned(ctx, day)
		if err != nil || ok {
			return word, err
		}
	}

	v, err, _ := c.group.Do(flightKey(day, force, salt), func() (any, error) {
		if !force {
			// A concurrent flight may have pinned while we waited.
			if word, ok, err := c.pinned(ctx, day); err != nil || ok {
				return word, err
			}
		}
		return c.regenerate(ctx, day, salt), nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Coordinator) pinned(ctx context.Context, day string) (string, bool, error) {
	word, ok, err := c.opts.Store.GetWordForDay(ctx, c.opts.Namespace, day)
	if err != nil {
		return "", false, fmt.Errorf("read pinned %s word: %w", c.opts.Namespace, err)
	}
	if !ok {
		return "", false, nil
	}
	if cached, hit := c.cache.get(day); !hit || cached != word {
		c.opts.Store.TryAddUsedWord(ctx, c.opts.Namespace, word)
		c.cache.put(day, word)
	}
	return word, true, nil
}

func (c *Coordinator) regenerate(ctx context.Context, day, salt string) string {
	exclude := c.exclusions(ctx)
	word := c.generate(ctx, day, salt, exclude)

	if err := c.opts.Store.SetWordForDay(ctx, c.opts.Namespace, day, word); err != nil {
		c.log.Error().Err(err).Str("day", day).Msg("Pinning word failed, other instances may choose differently")
	}
	c.opts.Store.TryAddUsedWord(ctx, c.opts.Namespace, word)
	c.cache.put(day, word)

	c.log.Info().Str("day", day).Bool("salted", salt != "").Int("excluded", len(exclude)).Msg("Generated word")
	return word
}

func (c *Coordinator) degraded(ctx context.Context, day string, force bool, salt string) (string, error) {
	c.warnOnce.Do(func() {
		c.log.Warn().Msg("No shared store configured, instances may disagree on the word")
	})
	if !force {
		if word, ok := c.cache.get(day); ok {
			return word, nil
		}
	}
	v, _, _ := c.group.Do(flightKey(day, force, salt), func() (any, error) {
		if !force {
			if word, ok := c.cache.get(day); ok {
				return word, nil
			}
		}
		// Only a reroll avoids earlier words: an unforced pick must match
		// what every other instance computes from the seed.
		var exclude []string
		if force {
			exclude = c.servedWords(day)
		}
		word := c.generate(ctx, day, salt, exclude)
		c.cache.put(day, word)
		c.recordServed(word)
		return word, nil
	})
	return v.(string), nil
}

// servedWords is the process history plus whatever is cached for day.
func (c *Coordinator) servedWords(day string) []string {
	c.servedMu.Lock()
	words := slices.Clone(c.served)
	c.servedMu.Unlock()
	if cached, ok := c.cache.get(day); ok {
		words = append(words, cached)
	}
	return lo.Uniq(words)
}

func (c *Coordinator) recordServed(word string) {
	c.servedMu.Lock()
	defer c.servedMu.Unlock()
	c.served = append(lo.Without(c.served, word), word)
	if len(c.served) > c.opts.UsedWindow {
		c.served = c.served[len(c.served)-c.opts.UsedWindow:]
	}
}

// exclusions returns the most recent used words. A failed read is tolerated.
func (c *Coordinator) exclusions(ctx context.Context) []string {
	used, err := c.opts.Store.RecentUsedWords(ctx, c.opts.Namespace, c.opts.UsedWindow)
	if err != nil {
		c.log.Warn().Err(err).Msg("Reading used words failed, generating without exclusions")
		return nil
	}
	return used
}

func (c *Coordinator) generate(ctx context.Context, day, salt string, exclude []string) string {
	var word string
	for attempt := 0; attempt < c.opts.Attempts; attempt++ {
		seed := c.seed(day, salt, attempt)
		if len(c.opts.Offline) > 0 {
			word = generator.Pick(c.opts.Offline, seed, exclude)
		} else {
			word = c.opts.Source.GenerateWord(ctx, seed, exclude)
		}
		word = strings.ToLower(strings.TrimSpace(word))
		if !lo.Contains(exclude, word) {
			break
		}
	}
	return word
}

// seed is day|secret|salt for the main game and
// namespace|day|secret|salt|attempt for the others.
func (c *Coordinator) seed(day, salt string, attempt int) string {
	if c.opts.Namespace == types.NamespaceMain {
		return strings.Join([]string{day, c.opts.Secret, salt}, "|")
	}
	return fmt.Sprintf("%s|%s|%s|%s|%d", c.opts.Namespace, day, c.opts.Secret, salt, attempt)
}

func flightKey(day string, force bool, salt string) string {
	if force {
		return day + "|force|" + salt
	}
	return day
}

// WordVersion is a short non-reversible tag of word, safe to show clients.
func WordVersion(secret, day, word string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(day + "|" + word))
	return hex.EncodeToString(mac.Sum(nil))[:versionLength]
}

type wordCache struct {
	mu        sync.Mutex
	namespace string
	words     map[string]string
}

func newWordCache(namespace string) *wordCache {
	return &wordCache{namespace: namespace, words: map[string]string{}}
}

func (wc *wordCache) key(day string) string { return wc.namespace + ":" + day }

func (wc *wordCache) get(day string) (string, bool) {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	w, ok := wc.words[wc.key(day)]
	return w, ok
}

func (wc *wordCache) put(day, word string) {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	wc.words[wc.key(day)] = word
}

func (wc *wordCache) reset() {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	wc.words = map[string]string{}
}
