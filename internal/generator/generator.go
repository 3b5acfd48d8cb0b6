// Package generator produces daily words and question hints.
//
// Everything here degrades gracefully: when the external text model is
// missing or misbehaving, words come from a curated list chosen by a
// deterministic hash of the seed, and hints come from a small rule-based
// responder.
package generator

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/BlueberryTheta/wordGame/internal/config"
)

const (
	MinWordLength = 4
	MaxWordLength = 9
	batchSize     = 30
)

var candidateShape = regexp.MustCompile(`^[a-z]{4,9}$`)

// Generator is the word source and answer engine.
type Generator struct {
	backend config.GeneratorBackend
	llm     LLM
	words   []string
	policy  AnswerPolicy
	log     zerolog.Logger
}

// New returns a Generator. llm is only consulted for the external backend
// and may be nil otherwise.
func New(backend config.GeneratorBackend, llm LLM, log zerolog.Logger) *Generator {
	if backend != config.GeneratorExternal {
		llm = nil
	}
	return &Generator{
		backend: backend,
		llm:     llm,
		words:   CuratedWords,
		policy:  DefaultAnswerPolicy,
		log:     log.With().Str("component", "generator").Logger(),
	}
}

// WithPolicy replaces the answer policy.
func (g *Generator) WithPolicy(p AnswerPolicy) *Generator {
	g.policy = p
	return g
}

// Backend reports the configured backend.
func (g *Generator) Backend() config.GeneratorBackend { return g.backend }

// External reports whether the text model is in use.
func (g *Generator) External() bool { return g.llm != nil }

// Ping checks model reachability when the model supports it.
func (g *Generator) Ping(ctx context.Context) error {
	if g.llm == nil {
		return nil
	}
	if p, ok := g.llm.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// GenerateWord returns the word for seed, avoiding exclude. The result is
// reproducible for a fixed seed, exclusion set and model batch. It never
// fails: without usable model output it picks from the curated list.
func (g *Generator) GenerateWord(ctx context.Context, seed string, exclude []string) string {
	if g.llm != nil {
		batch, err := g.candidates(ctx, seed, exclude)
		if err != nil {
			g.log.Warn().Err(err).Msg("Word batch request failed, using curated list")
		} else if filtered := FilterCandidates(batch, exclude); len(filtered) > 0 {
			idx := hashIndex(fmt.Sprintf("%s|%d", seed, len(filtered)), len(filtered))
			return filtered[idx]
		} else {
			g.log.Warn().Int("batch", len(batch)).Msg("Word batch had no usable candidates, using curated list")
		}
	}
	return Pick(g.words, seed, exclude)
}

func (g *Generator) candidates(ctx context.Context, seed string, exclude []string) ([]string, error) {
	sys := fmt.Sprintf(`You supply candidate secret words for a daily word-guessing game.
Rules:
- Output exactly %d distinct common English nouns, lowercase, comma-separated, nothing else.
- Each word has %d-%d letters, is family-friendly and concrete.
- No proper nouns, brands, plurals, slang or sensitive content.`, batchSize, MinWordLength, MaxWordLength)

	user := "Seed: " + seed
	if len(exclude) > 0 {
		user += "\nDo not use any of these words: " + strings.Join(exclude, ", ")
	}

	reply, err := g.llm.Complete(ctx, Completion{
		Messages: []Message{
			{Role: "system", Content: sys},
			{Role: "user", Content: user},
		},
		Temperature: 0,
		MaxTokens:   300,
	})
	if err != nil {
		return nil, err
	}
	return strings.FieldsFunc(strings.ToLower(reply), func(r rune) bool {
		return !unicode.IsLetter(r)
	}), nil
}

// FilterCandidates keeps well-formed words, drops duplicates and anything in
// exclude, and preserves the original order.
func FilterCandidates(batch, exclude []string) []string {
	excluded := lo.SliceToMap(exclude, func(w string) (string, struct{}) {
		return strings.ToLower(strings.TrimSpace(w)), struct{}{}
	})
	return lo.Uniq(lo.Filter(batch, func(w string, _ int) bool {
		if !candidateShape.MatchString(w) {
			return false
		}
		_, skip := excluded[w]
		return !skip
	}))
}

// Pick deterministically selects from list by hashing seed, probing forward
// past excluded entries. When every entry is excluded the hashed entry is
// returned anyway.
func Pick(list []string, seed string, exclude []string) string {
	if len(list) == 0 {
		return ""
	}
	excluded := lo.SliceToMap(exclude, func(w string) (string, struct{}) { return w, struct{}{} })
	start := hashIndex(seed, len(list))
	for i := range list {
		w := list[(start+i)%len(list)]
		if _, skip := excluded[w]; !skip {
			return w
		}
	}
	return list[start]
}

// hashIndex maps s onto [0, n) using the first four bytes of its SHA-256.
func hashIndex(s string, n int) int {
	sum := sha256.Sum256([]byte(s))
	return int(binary.BigEndian.Uint32(sum[:4]) % uint32(n))
}

// HashIndex is hashIndex for callers that need the same reduction.
func HashIndex(s string, n int) int {
	if n <= 0 {
		return 0
	}
	return hashIndex(s, n)
}
