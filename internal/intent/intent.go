// Package intent classifies free-form chat text into a requested
// temperature change. The classifier is a pure function boundary: no I/O,
// deterministic, case-insensitive.
package intent

import (
	"regexp"
	"strings"
)

// Intent is the classified direction of a requested environment change.
type Intent int

const (
	None Intent = iota
	Warmer
	Cooler
)

// String returns the wire/URL form of the intent.
func (i Intent) String() string {
	switch i {
	case Warmer:
		return "warmer"
	case Cooler:
		return "cooler"
	default:
		return "none"
	}
}

// Parse maps a string back to an Intent. Anything unrecognized is None —
// the voice-script endpoint relies on this never failing.
func Parse(s string) Intent {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warmer":
		return Warmer
	case "cooler":
		return Cooler
	default:
		return None
	}
}

// coldPatterns indicate the room is too cold → request Warmer.
// Checked before hotPatterns, matching the original parser's precedence.
var coldPatterns = compileAll([]string{
	`\bcold\b`,
	`\bfreezing\b`,
	`\bchilly\b`,
	`\bshivering\b`,
	`too\s+cold`,
	`very\s+cold`,
	`increase\s+(the\s+)?temp`,
	`turn\s+(up|on)\s+(the\s+)?(heat|temperature)`,
	`raise\s+(the\s+)?temp`,
	`\bwarmer\b`,
	`warm\s+it\s+up`,
})

// hotPatterns indicate the room is too hot → request Cooler.
var hotPatterns = compileAll([]string{
	`\bhot\b`,
	`\bsweating\b`,
	`\bstuffy\b`,
	`\bboiling\b`,
	`too\s+hot`,
	`very\s+hot`,
	`too\s+warm`,
	`decrease\s+(the\s+)?temp`,
	`reduce\s+(the\s+)?temp`,
	`turn\s+(up|on)\s+(the\s+)?(ac|air\s*con)`,
	`turn\s+down\s+(the\s+)?(heat|temperature)`,
	`lower\s+(the\s+)?temp`,
	`\bcooler\b`,
	`cool\s+it\s+down`,
})

func compileAll(exprs []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// Classify scans text for temperature-change requests.
// Cold indicators win over hot indicators when both appear.
func Classify(text string) Intent {
	lower := strings.ToLower(text)
	for _, re := range coldPatterns {
		if re.MatchString(lower) {
			return Warmer
		}
	}
	for _, re := range hotPatterns {
		if re.MatchString(lower) {
			return Cooler
		}
	}
	return None
}

// Description returns the human phrasing used in chat posts.
func Description(i Intent) string {
	switch i {
	case Warmer:
		return "warm the office up (it's too cold)"
	case Cooler:
		return "cool the office down (it's too hot)"
	default:
		return "leave the temperature as it is"
	}
}
