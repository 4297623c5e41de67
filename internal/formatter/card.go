package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/fstat/internal/models"
	"github.com/desertthunder/fstat/internal/shared"
	"github.com/desertthunder/fstat/internal/tasks"
)

var (
	faceitOrange = lipgloss.Color("#FF5500")
	cardMuted    = lipgloss.Color("#717171")
	cardRed      = lipgloss.Color("#FF3333")

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cardMuted).
			Padding(0, 2)

	cardTitleStyle = lipgloss.NewStyle().Bold(true)
	cardAccent     = lipgloss.NewStyle().Foreground(faceitOrange).Bold(true)
	cardLabelStyle = lipgloss.NewStyle().Foreground(cardMuted)
	cardColumn     = lipgloss.NewStyle().Width(22)

	errorCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cardRed).
			Foreground(cardRed).
			Padding(0, 2)
)

// Card renders stats as a bordered two-column terminal card.
func (r *Renderer) Card(s *models.NormalizedStats) string {
	l := r.localizer.Localize
	item := func(key shared.MessageKey, value string) string {
		return cardLabelStyle.Render(l(key)+":") + " " + value
	}

	title := cardTitleStyle.Render("FACE") + cardAccent.Render("I") + cardTitleStyle.Render("T Statistics")

	left := cardColumn.Render(strings.Join([]string{
		cardLabelStyle.Render(levelLabel(l, s.Variant)+":") + " " + cardAccent.Render(fmt.Sprintf("%d", s.SkillLevel)),
		item(shared.MsgWinRate, Number(s.WinRatePct)+"%"),
		item(shared.MsgMatches, fmt.Sprintf("%d", s.Matches)),
	}, "\n"))

	right := cardColumn.Render(strings.Join([]string{
		item(shared.MsgElo, fmt.Sprintf("%d", s.Elo)),
		item(shared.MsgKD, Number(s.AvgKillDeathRatio)),
		item(shared.MsgHS, Number(s.AvgHeadshotPct)+"%"),
	}, "\n"))

	body := lipgloss.JoinVertical(lipgloss.Center, title, "", lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	return cardStyle.Render(body)
}

// ErrorCard renders a failure in a red bordered box.
func (r *Renderer) ErrorCard(f *tasks.Failure) string {
	return errorCardStyle.Render(r.ErrorMessage(f))
}
