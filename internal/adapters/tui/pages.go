package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// route is a page address.
type route string

// Pages.
const (
	routeLanding  route = "/"
	routeARG      route = "/arg"
	routePlatform route = "/platform"
	routePaths    route = "/paths"
)

// placeholder is a content page with back/continue navigation.
type placeholder struct {
	title       string
	description string
	cardTitle   string
	cardLead    string
	cardBody    string
	back        route
	next        route
	nextLabel   string
}

var placeholders = map[route]placeholder{ //nolint:gochecknoglobals // page copy
	routeARG: {
		title:       "ARG Section",
		description: "The alternate reality game experience begins here.",
		cardTitle:   "ARG Content",
		cardLead:    "Design your ARG experience here",
		cardBody:    "Placeholder for ARG puzzles, clues, and interactive elements.",
		back:        routeLanding,
		next:        routePlatform,
		nextLabel:   "Continue →",
	},
	routePlatform: {
		title:       "Platform Opens",
		description: "Welcome to the platform. The experience unfolds here.",
		cardTitle:   "Platform Content",
		cardLead:    "Main platform interface",
		cardBody:    "Placeholder for platform features and main content area.",
		back:        routeARG,
		next:        routePaths,
		nextLabel:   "Choose Path →",
	},
}

// pathOption is one entry on the path selection page.
type pathOption struct {
	ID          string
	Name        string
	Description string
}

func mockPaths() []pathOption {
	return []pathOption{
		{ID: "path-1", Name: "Path One", Description: "Description for path one"},
		{ID: "path-2", Name: "Path Two", Description: "Description for path two"},
		{ID: "path-3", Name: "Path Three", Description: "Description for path three"},
	}
}

func (m Model) viewPlaceholder(p placeholder) string {
	card := cardStyle.Width(min(60, max(m.width-8, 20))).Render(lipgloss.JoinVertical(lipgloss.Left,
		accentStyle.Render(p.cardTitle),
		subtitleStyle.Render(p.cardLead),
		"",
		p.cardBody,
	))
	buttons := lipgloss.JoinHorizontal(lipgloss.Center,
		buttonStyle.Render("← Back"),
		"  ",
		buttonPrimary.Render(p.nextLabel),
	)
	return lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render(p.title),
		subtitleStyle.Render(p.description),
		"",
		card,
		"",
		buttons,
	)
}

func (m Model) viewPaths() string {
	w := min(60, max(m.width-8, 20))
	items := make([]string, 0, len(m.paths))
	for i, p := range m.paths {
		style := cardStyle.Width(w).Padding(0, 2)
		cursor := "  "
		if i == m.cursor {
			style = style.BorderForeground(colorViolet)
			cursor = accentStyle.Render("› ")
		}
		title := cursor + accentStyle.Render(p.Name)
		if p.ID == m.chosen {
			title += "  " + goldStyle.Render("✓ selected")
		}
		items = append(items, style.Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			subtitleStyle.Render(p.Description),
			buttonStyle.Padding(0, 1).Render("Select"),
		)))
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Path Selection"),
		subtitleStyle.Render("Choose your path to continue the experience."),
		"",
		strings.Join(items, "\n"),
		"",
		buttonStyle.Render("← Back to Platform"),
	)
}

// percent formats a stability percentage.
func percent(p int) string {
	return fmt.Sprintf("%d%%", p)
}
