package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleStatusHurt = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("203")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleHere = lipgloss.NewStyle().
			Bold(true)

	styleNearby = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleCombat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("209"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleRoll = lipgloss.NewStyle().
			Foreground(lipgloss.Color("109")).
			Italic(true)

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindHere
	kindNearby
	kindDialogue
	kindCombat
	kindRoll
	kindSystem
	kindError
	kindTrace
)

// combatWords mark lines that report blows and deaths.
var combatWords = []string{
	" dies.", "You die.", " is grazed.", " is crippled.", " is mangled.", " is destroyed.",
	"glances off", "You miss ", " misses ", "You hit ", " hits ", "You shoot ", " shoots ",
}

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(strings.TrimSpace(line), "Roll:"),
		strings.HasPrefix(strings.TrimSpace(line), "Damage:"):
		return kindRoll
	case strings.HasPrefix(line, "Here:"):
		return kindHere
	case strings.HasPrefix(line, "Nearby:"):
		return kindNearby
	case strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "You don't"),
		strings.HasPrefix(line, "You are already"),
		strings.HasPrefix(line, "Game over"):
		return kindError
	case containsQuotedSpeech(line):
		return kindDialogue
	case isCombat(line):
		return kindCombat
	default:
		return kindNarrative
	}
}

func isCombat(line string) bool {
	for _, w := range combatWords {
		if strings.Contains(line, w) {
			return true
		}
	}
	return false
}

// containsQuotedSpeech reports whether a line carries speech in double
// quotes, or a whole line in single quotes.
func containsQuotedSpeech(line string) bool {
	if strings.Count(line, `"`) >= 2 {
		return true
	}
	inQuote := false
	quoteLen := 0
	for _, r := range line {
		if r == '\'' {
			if inQuote && quoteLen > 5 {
				return true
			}
			inQuote = !inQuote
			quoteLen = 0
		} else if inQuote {
			quoteLen++
		}
	}
	return false
}

// styledHere renders "Here: a spade, a coin." with the item names bold.
func styledHere(line string) string {
	const prefix = "Here: "
	if !strings.HasPrefix(line, prefix) {
		return styleNarrative.Render(line)
	}
	return styleNarrative.Render(prefix) + styleHere.Render(line[len(prefix):])
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
