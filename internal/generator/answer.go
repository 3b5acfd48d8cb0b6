package generator

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/BlueberryTheta/wordGame/internal/config"
)

const (
	answerTemperature = 0.4
	redacted          = "[redacted]"
)

// AnswerPolicy holds the prompt text that constrains model answers.
type AnswerPolicy struct {
	// Guardrail is the system prompt; %s receives the secret word.
	Guardrail string
	// Nudge is appended when the first reply was a bare refusal.
	Nudge string
	// NonQuestion is returned by the rule-based responder for statements.
	NonQuestion string
	MaxTokens   int
}

var DefaultAnswerPolicy = AnswerPolicy{
	Guardrail: `You are the host of a word-guessing game. The secret word is "%s".
Answer the player's question about the secret word truthfully.
Rules:
- Reply with one short sentence of at most 10 words.
- Never say, spell, rhyme with or hint at the letters of the secret word.
- Never reveal the first or last letter, or any letter position.
- Refuse questions about specific letters with "I can't reveal letters."
- For yes/no questions answer "Yes." or "No." with an optional short qualifier.
- If the property does not apply to this kind of thing, reply "That is not applicable."
- Do not hedge with "Varies" or "It depends"; describe the typical case.
- If the message is not a question, reply "Please ask a question."
- Only say "Can't say." when no reasonable answer exists.`,
	Nudge: `Your previous reply was too cautious. Most questions about meaning, use, ` +
		`size, place or category have a reasonable answer. Give your best short answer.`,
	NonQuestion: "Please ask a question.",
	MaxTokens:   40,
}

var (
	spellingQuestion = regexp.MustCompile(`\b(letters?|spell\w*|vowels?|consonants?|starts?|begins?|ends?|rhymes?|syllables?|alphabet)\b`)
	refusalCleanup   = regexp.MustCompile(`[^a-z' ]+`)
)

var conservativeReplies = setOf(
	"can't say", "cannot say", "can not say", "i can't say", "i cannot say",
	"not sure", "i'm not sure", "i don't know", "unknown", "hard to say",
	"it depends", "depends", "unclear",
)

// AnswerQuestion answers q about word with light variety.
func (g *Generator) AnswerQuestion(ctx context.Context, word, q string) (string, error) {
	return g.answer(ctx, word, q, answerTemperature)
}

// AnswerQuestionDeterministic answers at temperature 0 so repeated calls
// agree. Used for the puzzle sample questions.
func (g *Generator) AnswerQuestionDeterministic(ctx context.Context, word, q string) (string, error) {
	return g.answer(ctx, word, q, 0)
}

func (g *Generator) answer(ctx context.Context, word, q string, temperature float64) (string, error) {
	if g.backend == config.GeneratorStatic {
		return "", ErrUnavailable
	}
	if g.llm == nil {
		return g.ruleAnswer(word, q), nil
	}

	msgs := []Message{
		{Role: "system", Content: fmt.Sprintf(g.policy.Guardrail, word)},
		{Role: "user", Content: q},
	}
	reply, err := g.llm.Complete(ctx, Completion{Messages: msgs, Temperature: temperature, MaxTokens: g.policy.MaxTokens})
	if err != nil {
		g.log.Warn().Err(err).Msg("Answer request failed, using rule-based reply")
		return g.ruleAnswer(word, q), nil
	}
	text := Redact(firstLine(reply), word)

	if isConservative(text) && !spellingQuestion.MatchString(strings.ToLower(q)) {
		nudged := append(msgs,
			Message{Role: "assistant", Content: text},
			Message{Role: "system", Content: g.policy.Nudge},
		)
		retry, err := g.llm.Complete(ctx, Completion{Messages: nudged, Temperature: temperature, MaxTokens: g.policy.MaxTokens})
		if err != nil {
			g.log.Debug().Err(err).Msg("Nudge retry failed, keeping first reply")
		} else if r := Redact(firstLine(retry), word); r != "" {
			text = r
		}
	}
	if text == "" {
		return g.ruleAnswer(word, q), nil
	}
	return text, nil
}

// Redact replaces case-insensitive occurrences of word in text.
func Redact(text, word string) string {
	if word == "" {
		return text
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(word))
	return re.ReplaceAllString(text, redacted)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func isConservative(reply string) bool {
	norm := strings.ToLower(strings.ReplaceAll(reply, "’", "'"))
	norm = strings.TrimSpace(refusalCleanup.ReplaceAllString(norm, ""))
	_, ok := conservativeReplies[norm]
	return ok
}
