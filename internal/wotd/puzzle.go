package wotd

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/BlueberryTheta/wordGame/internal/generator"
	"github.com/BlueberryTheta/wordGame/internal/store"
	"github.com/BlueberryTheta/wordGame/internal/types"
)

// PuzzleFormatVersion is bumped whenever the stored state layout changes.
// Older states are rebuilt on read.
const PuzzleFormatVersion = 2

const cannotSay = "Cannot say."

// SampleQuestions are asked on the player's behalf when a puzzle is built.
var SampleQuestions = []string{
	"Is it something you can hold in your hand?",
	"Is it usually found outdoors?",
	"Is it a living thing?",
	"Is it man-made?",
	"Would you find it in a typical home?",
	"Is it bigger than a breadbox?",
	"Can you eat it?",
	"Does it make a sound?",
	"Is it associated with a particular season?",
	"Is it used for work?",
}

// Answerer answers questions reproducibly.
type Answerer interface {
	AnswerQuestionDeterministic(ctx context.Context, word, question string) (string, error)
}

// PuzzleView is the puzzle of one day. Word must never reach a client
// before the game ends.
type PuzzleView struct {
	Day   string
	Word  string
	State *types.PuzzleState
}

// PuzzleBuilder loads or builds the daily puzzle state.
type PuzzleBuilder struct {
	coord   *Coordinator
	store   store.WordStore
	answers Answerer
	secret  string
	log     zerolog.Logger

	mu     sync.Mutex
	states map[string]*types.PuzzleState
}

// NewPuzzleBuilder persists into the coordinator's store, or in process when
// it has none.
func NewPuzzleBuilder(coord *Coordinator, answers Answerer) *PuzzleBuilder {
	return &PuzzleBuilder{
		coord:   coord,
		store:   coord.opts.Store,
		answers: answers,
		secret:  coord.opts.Secret,
		log:     coord.log.With().Str("component", "puzzle").Logger(),
		states:  map[string]*types.PuzzleState{},
	}
}

// State returns today's puzzle, rebuilding the state when it is missing,
// stale or forced.
func (b *PuzzleBuilder) State(ctx context.Context, force bool, salt string) (*PuzzleView, error) {
	day := b.coord.Day()
	word, err := b.coord.wordAt(ctx, day, force, salt)
	if err != nil {
		return nil, err
	}
	version := WordVersion(b.secret, day, word)

	st, ok, err := b.load(ctx, day)
	if err != nil {
		return nil, err
	}
	if ok && !force && st.FormatVersion == PuzzleFormatVersion && st.WordVersion == version {
		return &PuzzleView{Day: day, Word: word, State: st}, nil
	}

	st = b.build(ctx, day, word, version)
	b.save(ctx, day, st)
	return &PuzzleView{Day: day, Word: word, State: st}, nil
}

// RevealCount is how many letters the puzzle shows up front.
func RevealCount(word string) int {
	if len(word) >= 6 {
		return 2
	}
	return 1
}

func (b *PuzzleBuilder) build(ctx context.Context, day, word, version string) *types.PuzzleState {
	seed := fmt.Sprintf("puzzle-state|%s|%s|%s", day, b.secret, version)

	revealed := pickDistinct(seed+"|reveal", len(word), RevealCount(word))
	sort.Ints(revealed)

	count := 2 + generator.HashIndex(seed+"|count", 2)
	qas := make([]types.QA, 0, count)
	for _, i := range pickDistinct(seed+"|questions", len(SampleQuestions), count) {
		q := SampleQuestions[i]
		a, err := b.answers.AnswerQuestionDeterministic(ctx, word, q)
		if err != nil || a == "" {
			b.log.Warn().Err(err).Str("question", q).Msg("Sample answer failed")
			a = cannotSay
		}
		qas = append(qas, types.QA{Q: q, A: a})
	}

	b.log.Info().Str("day", day).Ints("revealed", revealed).Int("qas", len(qas)).Msg("Built puzzle state")
	return &types.PuzzleState{
		RevealedIndices: revealed,
		QAs:             qas,
		FormatVersion:   PuzzleFormatVersion,
		WordVersion:     version,
	}
}

func (b *PuzzleBuilder) load(ctx context.Context, day string) (*types.PuzzleState, bool, error) {
	if b.store == nil {
		b.mu.Lock()
		defer b.mu.Unlock()
		st, ok := b.states[day]
		return st, ok, nil
	}
	st, ok, err := b.store.GetPuzzleState(ctx, day)
	if err != nil {
		return nil, false, fmt.Errorf("read puzzle state: %w", err)
	}
	return st, ok, nil
}

// save logs instead of failing: the state can always be rebuilt.
func (b *PuzzleBuilder) save(ctx context.Context, day string, st *types.PuzzleState) {
	if b.store == nil {
		b.mu.Lock()
		b.states[day] = st
		b.mu.Unlock()
		return
	}
	if err := b.store.SetPuzzleState(ctx, day, st); err != nil {
		b.log.Error().Err(err).Str("day", day).Msg("Saving puzzle state failed")
	}
}

// pickDistinct chooses k distinct indices in [0, n) from seed.
func pickDistinct(seed string, n, k int) []int {
	k = min(k, n)
	taken := make(map[int]bool, k)
	out := make([]int, 0, k)
	for i := 0; len(out) < k; i++ {
		idx := generator.HashIndex(fmt.Sprintf("%s|%d", seed, i), n)
		for taken[idx] {
			idx = (idx + 1) % n
		}
		taken[idx] = true
		out = append(out, idx)
	}
	return out
}
