// Package parser converts command strings into Intent structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strconv"
	"strings"

	"github.com/nathoo/towercore/types"
)

var verbAliases = map[string]string{
	// Build
	"b":         "build",
	"place":     "build",
	"construct": "build",
	"erect":     "build",

	// Upgrade
	"u":       "upgrade",
	"up":      "upgrade",
	"improve": "upgrade",
	"level":   "upgrade",

	// Sell
	"s":        "sell",
	"demolish": "sell",
	"scrap":    "sell",
	"remove":   "sell",

	// Waves
	"w":    "wave",
	"next": "wave",
	"call": "wave",
	"send": "wave",

	// Time
	"t":       "tick",
	"z":       "tick",
	"wait":    "tick",
	"advance": "tick",

	// Information
	"l":       "show",
	"look":    "show",
	"map":     "show",
	"m":       "show",
	"st":      "status",
	"info":    "status",
	"route":   "path",
	"list":    "towers",
	"shop":    "towers",
	"catalog": "towers",
	"preview": "waves",
	"ledger":  "history",
	"log":     "history",

	// Abilities
	"use":  "ability",
	"cast": "ability",
}

// Abilities that may be typed as a bare verb.
var abilityShortcuts = map[string]bool{
	"overdrive": true,
}

var fillers = map[string]bool{
	"the": true, "a": true, "an": true,
	"at": true, "on": true, "to": true, "in": true, "x": true,
}

// Parse converts a raw command string into an Intent. Numbers become Args
// in order; the remaining words, joined with underscores, become Object.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ',', '(', ')', ';':
			return ' '
		}
		return r
	}, strings.ToLower(input))
	words := strings.Fields(cleaned)
	if len(words) == 0 {
		return types.Intent{}
	}

	words = expandMultiWordVerbs(words)

	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}
	if abilityShortcuts[words[0]] {
		words = append([]string{"ability"}, words...)
	}

	intent := types.Intent{Verb: words[0]}
	var object []string
	for _, w := range words[1:] {
		if n, err := strconv.Atoi(w); err == nil {
			intent.Args = append(intent.Args, n)
			continue
		}
		if fillers[w] {
			continue
		}
		object = append(object, w)
	}
	intent.Object = strings.Join(object, "_")
	return intent
}

// expandMultiWordVerbs handles "next wave", "call wave" and "tower list".
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "next", "call", "send":
		if words[1] == "wave" {
			return append([]string{"wave"}, words[2:]...)
		}
	case "tower", "towers":
		if words[1] == "list" || words[1] == "types" {
			return append([]string{"towers"}, words[2:]...)
		}
	case "wave":
		if words[1] == "preview" || words[1] == "list" {
			return append([]string{"waves"}, words[2:]...)
		}
	}

	return words
}
