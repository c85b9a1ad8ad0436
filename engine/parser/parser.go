// Package parser turns typed commands into Intents. It knows a fixed
// vocabulary of verbs and compass words and nothing else.
package parser

import (
	"strings"

	"github.com/nathoo/boneyard/types"
)

// compass maps every accepted spelling of the eight grid directions to
// its full name.
var compass = map[string]string{
	"n": "north", "north": "north",
	"s": "south", "south": "south",
	"e": "east", "east": "east",
	"w": "west", "west": "west",
	"ne": "northeast", "northeast": "northeast",
	"nw": "northwest", "northwest": "northwest",
	"se": "southeast", "southeast": "southeast",
	"sw": "southwest", "southwest": "southwest",
}

// synonyms lists, per canonical verb, the words that stand for it.
var synonyms = map[string][]string{
	"look":      {"l"},
	"examine":   {"x", "inspect", "check", "study", "observe", "describe", "search"},
	"go":        {"walk", "run", "move", "step", "proceed", "travel"},
	"take":      {"get", "grab", "hold", "carry", "lift", "wield"},
	"drop":      {"discard"},
	"attack":    {"hit", "fight", "strike", "kill", "punch", "kick", "smash", "stab"},
	"shoot":     {"fire", "loose"},
	"swap":      {"exchange"},
	"dig":       {"exhume", "excavate", "unearth"},
	"talk":      {"ask", "speak", "chat", "converse"},
	"wear":      {"don"},
	"inventory": {"inv", "i"},
	"wait":      {"z", "rest"},
	"status":    {"stats", "body"},
}

// verbOf is synonyms inverted.
var verbOf = func() map[string]string {
	m := map[string]string{}
	for verb, words := range synonyms {
		for _, w := range words {
			m[w] = verb
		}
	}
	return m
}()

// phrases folds two-word verbs into one. The second word is consumed.
var phrases = map[[2]string]string{
	{"look", "at"}:      "examine",
	{"look", "in"}:      "examine",
	{"look", "into"}:    "examine",
	{"pick", "up"}:      "take",
	{"put", "down"}:     "drop",
	{"put", "on"}:       "wear",
	{"dig", "up"}:       "dig",
	{"talk", "to"}:      "talk",
	{"talk", "with"}:    "talk",
	{"speak", "to"}:     "talk",
	{"speak", "with"}:   "talk",
	{"chat", "to"}:      "talk",
	{"chat", "with"}:    "talk",
	{"swap", "hand"}:    "swap",
	{"swap", "hands"}:   "swap",
	{"switch", "hand"}:  "switch",
	{"switch", "hands"}: "switch",
}

var (
	articles     = set("the", "a", "an")
	prepositions = set("on", "at", "to", "with", "in", "from", "about")
)

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// Parse converts a raw command string into an Intent. The first word is
// the verb. The words after it, minus articles, split at the first
// preposition into object and target.
func Parse(input string) types.Intent {
	words := strings.Fields(strings.ToLower(input))
	if len(words) == 0 {
		return types.Intent{}
	}
	if len(words) == 1 {
		if dir, ok := compass[words[0]]; ok {
			return types.Intent{Verb: "go", Object: dir}
		}
	}

	verb, rest := words[0], words[1:]
	if len(rest) > 0 {
		if v, ok := phrases[[2]string{verb, rest[0]}]; ok {
			verb, rest = v, rest[1:]
		}
	}
	if v, ok := verbOf[verb]; ok {
		verb = v
	}

	in := types.Intent{Verb: verb}
	in.Object, in.Target = split(rest)
	if verb == "go" {
		if dir, ok := compass[in.Object]; ok {
			in.Object = dir
		}
	}
	return in
}

// split drops articles and divides the words at the first preposition.
func split(words []string) (object, target string) {
	var obj, tgt []string
	into := &obj
	for _, w := range words {
		switch {
		case articles[w]:
		case prepositions[w] && into == &obj:
			into = &tgt
		default:
			*into = append(*into, w)
		}
	}
	return strings.Join(obj, " "), strings.Join(tgt, " ")
}
