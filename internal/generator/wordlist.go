package generator

// CuratedWords is the fallback pool for the main game. Entries are lowercase
// nouns of 4 to 9 letters.
var CuratedWords = []string{
	"acorn", "amber", "anchor", "apricot", "arcade", "aurora", "avocado",
	"badge", "bamboo", "banjo", "barley", "basket", "beacon", "biscuit",
	"blossom", "bottle", "breeze", "bridge", "brook", "cactus", "camera",
	"candle", "canyon", "castle", "cedar", "cherry", "circle", "citrus",
	"clover", "cobalt", "comet", "compass", "copper", "coral", "cottage",
	"crayon", "crystal", "dolphin", "dragon", "ember", "falcon", "feather",
	"fabric", "forest", "fossil", "galaxy", "garden", "ginger", "glacier",
	"glider", "granite", "harbor", "hazelnut", "helmet", "horizon", "island",
	"ivory", "jasmine", "jungle", "kettle", "ladder", "lantern", "lemon",
	"lily", "lobster", "magnet", "mango", "maple", "marble", "market",
	"meadow", "meteor", "mirror", "mosaic", "nectar", "nimbus", "nutmeg",
	"oasis", "ocean", "olive", "onyx", "opal", "orchid", "oyster",
	"paddle", "pepper", "pillow", "planet", "pocket", "puzzle", "quartz",
	"rabbit", "raven", "record", "ribbon", "river", "rocket", "saddle",
	"saffron", "silver", "socket", "sparrow", "spice", "spruce", "sunset",
	"thunder", "timber", "tulip", "turtle", "velvet", "violet", "walnut",
	"willow", "window", "zephyr",
}

// PuzzleWords seeds the puzzle when the text model is unavailable.
var PuzzleWords = []string{
	"puzzle", "garden", "silver", "planet", "sunset", "rocket", "candle",
	"forest", "bridge", "circle", "shadow", "eleven", "cobalt", "nectar",
	"safety", "random", "marble", "artist", "quartz", "harbor",
}

// Coarse categories used by the rule-based responder.
var (
	outdoorWords = setOf(
		"acorn", "aurora", "breeze", "bridge", "brook", "cactus", "canyon",
		"castle", "cedar", "clover", "comet", "dolphin", "falcon", "forest",
		"fossil", "galaxy", "garden", "glacier", "harbor", "horizon", "island",
		"jungle", "maple", "meadow", "meteor", "nimbus", "oasis", "ocean",
		"olive", "planet", "rabbit", "raven", "river", "rocket", "sparrow",
		"spruce", "sunset", "thunder", "turtle", "willow", "zephyr",
	)
	livingWords = setOf(
		"apricot", "avocado", "bamboo", "barley", "blossom", "cactus", "cedar",
		"cherry", "clover", "dolphin", "falcon", "ginger", "jasmine", "lemon",
		"lily", "lobster", "mango", "maple", "olive", "orchid", "oyster",
		"rabbit", "raven", "sparrow", "spruce", "tulip", "turtle", "violet",
		"walnut", "willow",
	)
	manMadeWords = setOf(
		"anchor", "arcade", "badge", "banjo", "basket", "beacon", "biscuit",
		"bottle", "bridge", "camera", "candle", "castle", "compass", "cottage",
		"crayon", "fabric", "glider", "helmet", "kettle", "ladder", "lantern",
		"magnet", "market", "mirror", "mosaic", "paddle", "pillow", "pocket",
		"puzzle", "record", "ribbon", "rocket", "saddle", "socket", "velvet",
		"window",
	)
)

func setOf(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

var curatedSet = setOf(append(append([]string{}, CuratedWords...), PuzzleWords...)...)
