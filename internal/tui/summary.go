package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"jpegbatch/internal/pipeline"
	"jpegbatch/internal/settings"
)

type SummaryRow struct {
	Label string
	Value string
	Style lipgloss.Style
}

// ResultRows describes a finished batch for RenderSummary.
func ResultRows(res pipeline.Result, s settings.ExportSettings) []SummaryRow {
	status := SummaryRow{Label: "Status", Value: res.Status.String(), Style: okStyle}
	switch res.Status {
	case pipeline.StatusRetry:
		status.Style = warnStyle
	case pipeline.StatusFailed:
		status.Style = errorStyle
	}
	rows := []SummaryRow{
		status,
		{Label: "Open documents", Value: fmt.Sprintf("%d", res.Total)},
		{Label: "Exported", Value: fmt.Sprintf("%d", len(res.Written))},
		{Label: "Export folder", Value: TruncatePath(s.ExportFolder)},
		{Label: "Quality / max size", Value: fmt.Sprintf("%d / %dpx", s.JPEGQuality, s.MaxImageSize)},
	}
	if res.Err != nil {
		rows = append(rows, SummaryRow{Label: "Reason", Value: res.Err.Error(), Style: status.Style})
	}
	return rows
}

func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(row.Label))
		valueWidth = max(valueWidth, lipgloss.Width(row.Value))
	}

	hline := dimStyle.Render(strings.Repeat("-", labelWidth+valueWidth+3))
	lines := []string{hline}
	for _, row := range rows {
		style := row.Style
		if style.GetForeground() == (lipgloss.NoColor{}) {
			style = valueStyle
		}
		line := fmt.Sprintf("%s %s %s",
			labelStyle.Render(padRight(row.Label, labelWidth)),
			dimStyle.Render("|"),
			style.Render(padRight(row.Value, valueWidth)),
		)
		lines = append(lines, line)
	}
	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

var valueStyle = lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
