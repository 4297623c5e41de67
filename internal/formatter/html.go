package formatter

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/desertthunder/fstat/internal/models"
	"github.com/desertthunder/fstat/internal/shared"
	"github.com/desertthunder/fstat/internal/tasks"
)

// Stylesheet styles the stats and error blocks. Hosts include it once, with id faceit-stats-styles.
const Stylesheet = `.faceit-stats-container {background-color: #00000030; border: 1px solid #717171; border-radius: 8px; padding: 5px; margin-bottom: 20px;}
.faceit-stats-header {display: flex; font-size: 31px; font-weight: bold; margin-bottom: 10px; justify-content: space-evenly;}
.faceit-stats-grid {display: grid; grid-template-columns: repeat(2, 1fr); gap: 10px; align-items: center; justify-items: center;}
.faceit-stats-column {display: flex; flex-direction: column; margin-bottom: 10px;}
.faceit-stats-item {font-size: 16px; display: flex; align-items: center; margin-bottom: 5px; line-height: normal;}
.faceit-stats-item span {margin-left: 5px;}
.faceit-stats-icon {display: flex;}
.faceit-error {background-color: #ffe0e0; padding: 10px; margin-bottom: 10px; border: 1px solid #ff6666; border-radius: 8px; font-family: 'Arial', sans-serif; font-size: 14px; color: #ff3333;}`

const styleTag = `<style id="faceit-stats-styles">` + Stylesheet + `</style>`

var statsTemplate = template.Must(template.New("stats").Parse(styleTag + `
<div class="faceit-stats-container">
<div class="faceit-stats-header">FACE<span style="color: orange">I</span>T Statistics</div>
<div class="faceit-stats-grid">
<div class="faceit-stats-column">
<div class="faceit-stats-item"><span>{{.LevelLabel}}:</span><span class="faceit-stats-icon"><img src="{{.IconURL}}" alt="{{.LevelLabel}}:" width="28" height="28"></span></div>
{{- range .Left}}
<div class="faceit-stats-item"><span>{{.}}</span></div>
{{- end}}
</div>
<div class="faceit-stats-column">
{{- range .Right}}
<div class="faceit-stats-item"><span>{{.}}</span></div>
{{- end}}
</div>
</div>
</div>
`))

var errorTemplate = template.Must(template.New("error").Parse(styleTag + `
<div class="faceit-error">{{.}}</div>
`))

type blockData struct {
	LevelLabel string
	IconURL    string
	Left       []string
	Right      []string
}

// StatsBlock renders the embeddable HTML block: level icon, win rate and matches on the left; ELO, K/D and HS on the right.
func (r *Renderer) StatsBlock(s *models.NormalizedStats) ([]byte, error) {
	l := r.localizer.Localize
	data := blockData{
		LevelLabel: levelLabel(l, s.Variant),
		IconURL:    r.IconURL(s.SkillLevel),
		Left: []string{
			fmt.Sprintf("%s: %s%%", l(shared.MsgWinRate), Number(s.WinRatePct)),
			fmt.Sprintf("%s: %d", l(shared.MsgMatches), s.Matches),
		},
		Right: []string{
			fmt.Sprintf("%s: %d", l(shared.MsgElo), s.Elo),
			fmt.Sprintf("%s: %s", l(shared.MsgKD), Number(s.AvgKillDeathRatio)),
			fmt.Sprintf("%s: %s%%", l(shared.MsgHS), Number(s.AvgHeadshotPct)),
		},
	}

	var buf bytes.Buffer
	if err := statsTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render stats block: %w", err)
	}
	return buf.Bytes(), nil
}

// ErrorBlock renders a failure as the embeddable error block.
func (r *Renderer) ErrorBlock(f *tasks.Failure) ([]byte, error) {
	var buf bytes.Buffer
	if err := errorTemplate.Execute(&buf, r.ErrorMessage(f)); err != nil {
		return nil, fmt.Errorf("failed to render error block: %w", err)
	}
	return buf.Bytes(), nil
}
