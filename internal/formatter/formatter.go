// package formatter renders lookup results as plain text, Markdown, JSON, an embeddable HTML block or a terminal card
package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/desertthunder/fstat/internal/models"
	"github.com/desertthunder/fstat/internal/shared"
	"github.com/desertthunder/fstat/internal/tasks"
)

// DefaultIconBaseURL hosts the skill level icons as <level>-level.svg.
const DefaultIconBaseURL = "https://raw.githubusercontent.com/raizano/FACEIT-Statistics/master/icons/"

// Format is an output format accepted by [Renderer.Render].
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
)

// Formats lists every supported format in display order.
var Formats = []Format{FormatText, FormatMarkdown, FormatJSON, FormatHTML}

// ParseFormat validates a format name. "md" is accepted for Markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatMarkdown, FormatJSON, FormatHTML:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want one of %v)", shared.ErrInvalidFlag, s, Formats)
	}
}

// Renderer turns stats and failures into display output using localized labels.
type Renderer struct {
	localizer   shared.Localizer
	iconBaseURL string
}

// NewRenderer creates a Renderer. An empty iconBaseURL uses [DefaultIconBaseURL]; a nil localizer uses English.
func NewRenderer(l shared.Localizer, iconBaseURL string) *Renderer {
	if l == nil {
		l = shared.NewCatalog()
	}
	if iconBaseURL == "" {
		iconBaseURL = DefaultIconBaseURL
	}
	return &Renderer{localizer: l, iconBaseURL: iconBaseURL}
}

// WithLocalizer returns a copy of r using l.
func (r *Renderer) WithLocalizer(l shared.Localizer) *Renderer {
	cp := *r
	cp.localizer = l
	return &cp
}

// IconURL returns the skill level icon location for level.
func (r *Renderer) IconURL(level int) string {
	return r.iconBaseURL + strconv.Itoa(level) + "-level.svg"
}

// ErrorMessage is the display text for a failure.
//
// A not-found failure is shown as its message alone; anything else gets the localized error prefix.
func (r *Renderer) ErrorMessage(f *tasks.Failure) string {
	if f.Category == tasks.CategoryPlayerNotFound {
		return f.Message
	}
	return r.localizer.Localize(shared.MsgErrorPrefix) + ": " + f.Message
}

// Render writes stats in the given format.
func (r *Renderer) Render(w io.Writer, format Format, stats *models.NormalizedStats) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatText:
		data = r.ExportToText(stats)
	case FormatMarkdown:
		data = r.ExportToMarkdown(stats)
	case FormatJSON:
		data, err = ExportToJSON(stats)
	case FormatHTML:
		data, err = r.StatsBlock(stats)
	default:
		err = fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return err
	}

	_, err = w.Write(data)
	return err
}

// RenderError writes a failure in the given format.
func (r *Renderer) RenderError(w io.Writer, format Format, err error) error {
	var f *tasks.Failure
	if !errors.As(err, &f) {
		f = tasks.Categorize(err, r.localizer)
	}

	var data []byte
	switch format {
	case FormatJSON:
		b, jerr := json.MarshalIndent(map[string]any{"error": f}, "", "  ")
		if jerr != nil {
			return fmt.Errorf("failed to marshal error: %w", jerr)
		}
		data = append(b, '\n')
	case FormatHTML:
		b, herr := r.ErrorBlock(f)
		if herr != nil {
			return herr
		}
		data = b
	case FormatMarkdown:
		data = []byte(fmt.Sprintf("> **%s**\n", r.ErrorMessage(f)))
	default:
		data = []byte(r.ErrorMessage(f) + "\n")
	}

	_, werr := w.Write(data)
	return werr
}

// ExportToText renders stats as labelled plain text lines.
func (r *Renderer) ExportToText(s *models.NormalizedStats) []byte {
	var buf bytes.Buffer
	l := r.localizer.Localize

	buf.WriteString(fmt.Sprintf("%s (%s)\n", l(shared.MsgStatsTitle), s.Variant))
	buf.WriteString(fmt.Sprintf("%s: %d\n", l(shared.MsgLevel), s.SkillLevel))
	buf.WriteString(fmt.Sprintf("%s: %d\n", l(shared.MsgElo), s.Elo))
	buf.WriteString(fmt.Sprintf("%s: %s%%\n", l(shared.MsgWinRate), Number(s.WinRatePct)))
	buf.WriteString(fmt.Sprintf("%s: %d\n", l(shared.MsgMatches), s.Matches))
	buf.WriteString(fmt.Sprintf("%s: %s\n", l(shared.MsgKD), Number(s.AvgKillDeathRatio)))
	buf.WriteString(fmt.Sprintf("%s: %s%%\n", l(shared.MsgHS), Number(s.AvgHeadshotPct)))

	return buf.Bytes()
}

// ExportToMarkdown renders stats as a heading, the level icon and a one-row table.
func (r *Renderer) ExportToMarkdown(s *models.NormalizedStats) []byte {
	var buf bytes.Buffer
	l := r.localizer.Localize

	buf.WriteString(fmt.Sprintf("## %s\n\n", l(shared.MsgStatsTitle)))
	buf.WriteString(fmt.Sprintf("![%s %d](%s) **%s**: %d\n\n",
		l(shared.MsgLevel), s.SkillLevel, r.IconURL(s.SkillLevel), levelLabel(l, s.Variant), s.SkillLevel))

	buf.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
		l(shared.MsgElo), l(shared.MsgWinRate), l(shared.MsgMatches), l(shared.MsgKD), l(shared.MsgHS)))
	buf.WriteString("|---|---|---|---|---|\n")
	buf.WriteString(fmt.Sprintf("| %d | %s%% | %d | %s | %s%% |\n",
		s.Elo, Number(s.WinRatePct), s.Matches, Number(s.AvgKillDeathRatio), Number(s.AvgHeadshotPct)))

	return buf.Bytes()
}

// ExportToJSON renders stats as indented JSON.
func ExportToJSON(s *models.NormalizedStats) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stats: %w", err)
	}
	return append(data, '\n'), nil
}

// Number formats a figure with the fewest digits that round-trip, so 54 stays "54" and 1.18 stays "1.18".
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func levelLabel(l func(shared.MessageKey) string, v models.Variant) string {
	return strings.ToUpper(string(v)) + " " + l(shared.MsgLevel)
}
