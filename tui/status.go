package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// statusLeft describes the zone and the player's vitals.
func (m Model) statusLeft() string {
	gs := m.client.State()
	p := gs.Player()

	parts := []string{gs.CurrentZoneName()}
	if p.Name() != "" {
		parts = append(parts, fmt.Sprintf("%s L%d", p.Name(), p.Level()))
	}
	parts = append(parts, fmt.Sprintf("HP %d/%d", p.CurHP(), p.MaxHP()))
	if p.MaxMana() > 0 {
		parts = append(parts, fmt.Sprintf("MP %d/%d", p.CurMana(), p.MaxMana()))
	}
	if sp := gs.Spells(); sp.IsCasting() {
		parts = append(parts, fmt.Sprintf("Casting %.0f%%", sp.CastProgress()*100))
	}
	return " " + strings.Join(parts, " | ")
}

// statusRight shows the target, auto attack and the keyboard focus.
func (m Model) statusRight() string {
	gs := m.client.State()
	c := gs.Combat()

	var parts []string
	if c.HasTarget() {
		target := c.TargetName()
		if e := gs.Entities().GetEntity(c.TargetID()); e != nil {
			target = fmt.Sprintf("%s %d%%", e.DisplayName(), e.HPPercent)
		}
		parts = append(parts, "Target: "+target)
	}
	if c.IsAutoAttacking() {
		parts = append(parts, "ATK")
	}
	if m.chatting {
		parts = append(parts, "[chat]")
	} else {
		parts = append(parts, "[keys]")
	}
	return strings.Join(parts, " | ") + " "
}

// renderStatusBar produces a full-width inverted status line. Low health
// turns the bar red.
func (m Model) renderStatusBar() string {
	left, right := m.statusLeft(), m.statusRight()

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right

	style := styleStatusBar
	p := m.client.State().Player()
	if p.MaxHP() > 0 && p.CurHP()*5 < p.MaxHP() {
		style = styleHPLow
	}
	return style.Width(m.width).Render(bar)
}
