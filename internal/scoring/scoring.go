// Package scoring compares guesses against the secret word.
//
// There is no positional credit: a guess reveals which of its letters occur
// in the secret and every position where those letters sit.
package scoring

import (
	"errors"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

const (
	MinGuessLength = 4
	MaxGuessLength = 12
)

var (
	ErrMissingGuess = errors.New("missing guess")
	// ErrNotAWord carries the "not a word" marker clients match on.
	ErrNotAWord = errors.New("not a word")
)

var lettersOnly = regexp.MustCompile(`^[a-z]+$`)

// Result is the outcome of a scored guess.
type Result struct {
	Correct         bool
	RevealedMask    []*string
	LettersInCommon []string
}

// Normalize trims and lowercases s.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Validate normalizes a raw guess and checks its shape. Dictionary
// membership is checked separately by the caller.
func Validate(raw string) (string, error) {
	g := Normalize(raw)
	if g == "" {
		return "", ErrMissingGuess
	}
	if !lettersOnly.MatchString(g) || len(g) < MinGuessLength || len(g) > MaxGuessLength {
		return "", ErrNotAWord
	}
	return g, nil
}

// Score compares guess to secret.
func Score(secret, guess string) Result {
	w := Normalize(secret)
	g := Normalize(guess)
	if w == g {
		return Result{Correct: true}
	}

	inGuess := make(map[rune]struct{}, len(g))
	for _, ch := range g {
		inGuess[ch] = struct{}{}
	}

	secretRunes := []rune(w)
	mask := make([]*string, len(secretRunes))
	var shared []string
	for i, ch := range secretRunes {
		if _, ok := inGuess[ch]; !ok {
			continue
		}
		letter := string(ch)
		mask[i] = &letter
		shared = append(shared, letter)
	}

	return Result{
		RevealedMask:    mask,
		LettersInCommon: lo.Uniq(shared),
	}
}

// MaskFromIndices reveals the letters of word at the given positions.
func MaskFromIndices(word string, indices []int) []*string {
	runes := []rune(word)
	mask := make([]*string, len(runes))
	for _, i := range indices {
		if i < 0 || i >= len(runes) {
			continue
		}
		letter := string(runes[i])
		mask[i] = &letter
	}
	return mask
}
