package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/boneyard/engine"
	"github.com/nathoo/boneyard/engine/items"
	"github.com/nathoo/boneyard/engine/state"
)

// handLabel shows what one hand holds: "L: bone knife*", where the
// star marks the active hand.
func handLabel(p *state.Actor, h items.Hand) string {
	prefix := "R"
	if h == items.LeftHand {
		prefix = "L"
	}
	name := "-"
	if it := p.Wield.In(h); it != nil {
		name = it.DisplayName()
	}
	if p.Wield.Active == h {
		name += "*"
	}
	return prefix + ": " + name
}

// renderStatusBar produces a full-width inverted status line showing
// the player's position, hands, wounds and the turn.
func (m Model) renderStatusBar() string {
	s := m.engine.State
	p := s.Player()
	if p == nil {
		return styleStatusBar.Width(m.width).Render(fmt.Sprintf(" T:%d ", s.Turn))
	}

	left := fmt.Sprintf(" %s @ %s | %s  %s", p.Name, p.Pos,
		handLabel(p, items.LeftHand), handLabel(p, items.RightHand))
	right := fmt.Sprintf("T:%d  %d ", s.Turn, s.Year)

	var hurt string
	switch n := len(engine.Injuries(&p.Body)); {
	case p.Dead:
		hurt = "DEAD | "
	case n > 0:
		hurt = fmt.Sprintf("Hurt: %d | ", n)
	}

	// Drop the hands when they do not fit.
	if lipgloss.Width(left)+lipgloss.Width(hurt)+lipgloss.Width(right)+2 > m.width {
		left = fmt.Sprintf(" %s @ %s", p.Name, p.Pos)
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(hurt) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := styleStatusBar.Render(left+strings.Repeat(" ", gap)) +
		styleStatusHurt.Render(hurt) + styleStatusBar.Render(right)
	return lipgloss.NewStyle().Width(m.width).Render(bar)
}
