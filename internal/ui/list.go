package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/fstat/internal/formatter"
	"github.com/desertthunder/fstat/internal/models"
)

var _ list.Item = historyItem{}

// historyItem is a finished lookup shown in the history view.
type historyItem struct {
	externalID string
	stats      *models.NormalizedStats
	message    string // failure text when stats is nil
}

func (i historyItem) FilterValue() string { return i.externalID }
func (i historyItem) Title() string       { return i.externalID }
func (i historyItem) Description() string {
	if i.stats == nil {
		return i.message
	}
	return fmt.Sprintf("%s • level %d • %d ELO • %s K/D",
		i.stats.Variant, i.stats.SkillLevel, i.stats.Elo, formatter.Number(i.stats.AvgKillDeathRatio))
}
