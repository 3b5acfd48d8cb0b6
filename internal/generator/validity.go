package generator

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var dictionaryShape = regexp.MustCompile(`^[a-z]{4,12}$`)

// IsValidEnglishWord reports whether w looks like a real English word. Tokens
// that are not 4-12 lowercase ASCII letters are rejected without a model
// call. Otherwise the check fails open: curated words pass locally, and a
// missing or failing model accepts the guess.
func (g *Generator) IsValidEnglishWord(ctx context.Context, w string) bool {
	if !dictionaryShape.MatchString(w) {
		return false
	}
	if _, ok := curatedSet[w]; ok {
		return true
	}
	if g.llm == nil {
		return true
	}
	reply, err := g.llm.Complete(ctx, Completion{
		Messages: []Message{
			{Role: "system", Content: "You are a strict English dictionary. Answer only Yes or No."},
			{Role: "user", Content: fmt.Sprintf("Is %q a valid English dictionary word?", w)},
		},
		Temperature: 0,
		MaxTokens:   2,
	})
	if err != nil {
		g.log.Warn().Err(err).Str("guess", w).Msg("Dictionary check failed, accepting guess")
		return true
	}
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(reply)), "Y")
}
