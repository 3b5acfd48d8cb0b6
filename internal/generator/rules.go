package generator

import (
	"fmt"
	"regexp"
	"strings"
)

// positional questions ask about a specific letter and fall to the
// spelling refusal.
var positional = regexp.MustCompile(`\b(first|second|third|last|final|middle|starts?|begins?|ends?|position)\b`)

var questionWords = []string{
	"is ", "are ", "am ", "does ", "do ", "did ", "can ", "could ", "would ",
	"will ", "has ", "have ", "was ", "were ", "what ", "which ", "who ",
	"where ", "when ", "why ", "how ", "should ", "might ",
}

// ruleAnswer is the offline responder. It never reveals letters.
func (g *Generator) ruleAnswer(word, q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	word = strings.ToLower(word)

	switch {
	case containsAny(q, "how many letters", "how long", "letters long", "length"):
		return fmt.Sprintf("It has %d letters.", len(word))
	case containsAny(q, "vowel") && !positional.MatchString(q):
		if strings.ContainsAny(word, "aeiou") {
			return "Yes, it has vowels."
		}
		return "No."
	case spellingQuestion.MatchString(q):
		return "I can't reveal letters."
	case containsAny(q, "indoor", "outdoor", "outside", "inside"):
		_, out := outdoorWords[word]
		asksOutdoor := containsAny(q, "outdoor", "outside")
		switch {
		case out && asksOutdoor, !out && !asksOutdoor:
			return "Yes, usually."
		default:
			return "Not usually."
		}
	case containsAny(q, "alive", "living", "animal", "plant"):
		return yesNo(livingWords, word)
	case containsAny(q, "man-made", "man made", "made by", "manufactured", "object", "tool"):
		return yesNo(manMadeWords, word)
	case !looksLikeQuestion(q):
		return g.policy.NonQuestion
	}
	return "Can't say. Try asking where it's found or what it's used for."
}

func yesNo(set map[string]struct{}, word string) string {
	if _, ok := set[word]; ok {
		return "Yes."
	}
	return "No."
}

func looksLikeQuestion(q string) bool {
	if strings.Contains(q, "?") {
		return true
	}
	for _, w := range questionWords {
		if strings.HasPrefix(q, w) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
