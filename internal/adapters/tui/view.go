package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/okian/fracture/internal/adapters/render"
	"github.com/okian/fracture/internal/adapters/render/coherencemap"
	"github.com/okian/fracture/internal/domain/model"
)

// Landing copy.
const (
	introLine1      = "A fractured signal"
	introLine2      = "has broken through"
	transitionLine1 = "Your resonance is required"
	transitionLine2 = "to stabilise it"
	revealCTA       = "Stabilise the Signal"
	revealSupport   = "The coherence requires your support—and that of others walking the path—to hold."
	coherenceTitle  = "Coherence Map"
	signCTA         = "Add Your Signature"
	finalTitle      = "The Signal is Stabilised"
	finalSubtitle   = "Through collective resonance, the transmission can now continue."
	finalCTA        = "Continue the Journey"
)

// View renders the current page.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var header, body string
	switch m.route {
	case routeLanding:
		header, body = m.viewLanding()
	case routePaths:
		body = m.place(m.viewPaths())
	default:
		body = m.place(m.viewPlaceholder(placeholders[m.route]))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, header),
		body,
		m.help.View(m.keys),
	)
}

func (m Model) place(content string) string {
	return lipgloss.Place(m.width, max(m.bodyHeight(), 0), lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewLanding() (header, body string) {
	s := m.snapshot
	switch {
	case s.Phase.ShowsSignalSwitcher():
		return m.signalSwitcher(), m.viewSignal()
	case s.Phase == model.PhaseReveal:
		return "", m.place(m.viewReveal())
	case s.Phase == model.PhaseCoherence:
		return m.coherenceSwitcher(), m.place(m.viewCoherence())
	default:
		return "", m.place(m.viewFinal())
	}
}

// ============================================================================
// Signal phases
// ============================================================================

func (m Model) viewSignal() string {
	s := m.snapshot
	c := m.canvas
	c.Clear()
	m.field.Draw(c, s.SignalFrame())
	m.overlay.Compose(c)

	mid := c.H / 2
	switch s.Phase {
	case model.PhaseIntro:
		second := render.ToneWhite
		if s.Pulse {
			second = render.ToneViolet
		}
		c.TextCentered(mid-1, m.headline.Render(strings.ToUpper(introLine1)), render.ToneWhite, 1)
		c.TextCentered(mid+1, m.headline.Render(strings.ToUpper(introLine2)), second, 1)
	case model.PhaseTransition:
		c.TextCentered(mid-1, m.headline.Render(strings.ToUpper(transitionLine1)), render.ToneWhite, 1)
		c.TextCentered(mid+1, m.headline.Render(strings.ToUpper(transitionLine2)), render.ToneGold, 1)
	}
	return m.pal.paint(c)
}

func (m Model) signalSwitcher() string {
	labels := make([]string, 0, len(model.SignalVariants()))
	for _, v := range model.SignalVariants() {
		style := switcherIdle
		if v == m.snapshot.SignalVariant {
			style = switcherActive
		}
		labels = append(labels, style.Render(v.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, labels...)
}

// ============================================================================
// Void phases
// ============================================================================

// video is the placeholder player frame.
func (m Model) video() string {
	w := min(56, max(m.width-8, 16))
	h := max(min(w*9/32, m.bodyHeight()/3), 3)
	return videoStyle.Width(w).Height(h).Render("▶")
}

func (m Model) viewReveal() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		m.video(),
		"",
		buttonPrimary.Render(m.body.Render(strings.ToUpper(revealCTA))),
		"",
		subtitleStyle.Width(min(72, max(m.width-4, 20))).Align(lipgloss.Center).Render(m.body.Render(revealSupport)),
	)
}

func (m Model) viewCoherence() string {
	s := m.snapshot

	side := max(m.bodyHeight()-12, 6)
	c := render.NewCanvas(min(int(float64(side)*render.CellAspect), m.width), side)
	m.mapFor(s.CoherenceVariant).Draw(c, coherencemap.State{
		Stability:  s.Stability,
		Signatures: s.Signatures,
		Elapsed:    m.mapElapsed,
	})

	status := subtitleStyle.Render(m.caption.Render(s.Status))
	switch {
	case s.Stabilized:
		status = goldStyle.Render(m.caption.Render(s.Status))
	case s.Signed:
		status = subtitleStyle.Render(m.body.Render(s.Status))
	}

	parts := []string{
		titleStyle.Render(m.caption.Render(coherenceTitle)),
		"",
		m.pal.paint(c),
		subtitleStyle.Render("COHERENCE"),
		accentStyle.Render(percent(s.Percent)),
		"",
		status,
	}
	if !s.Signed {
		parts = append(parts, buttonPrimary.Render(m.body.Render(strings.ToUpper(signCTA))))
	}
	return lipgloss.JoinVertical(lipgloss.Center, parts...)
}

func (m Model) coherenceSwitcher() string {
	labels := make([]string, 0, len(model.CoherenceVariants()))
	for _, v := range model.CoherenceVariants() {
		style := switcherIdle
		if v == m.snapshot.CoherenceVariant {
			style = switcherActive
		}
		labels = append(labels, style.Render(v.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, labels...)
}

func (m Model) viewFinal() string {
	return lipgloss.JoinVertical(lipgloss.Center,
		goldStyle.Render(m.caption.Render(finalTitle)),
		subtitleStyle.Render(m.caption.Render(finalSubtitle)),
		"",
		m.video(),
		"",
		buttonPrimary.Render(m.caption.Render(strings.ToUpper(finalCTA))),
	)
}
