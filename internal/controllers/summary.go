package controllers

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/amaumene/postarr/internal/models"
)

// RenderSummary formats the end-of-run report: one row per artwork kind
// with written/skipped/failed counts, followed by one line per failure.
func (c *SyncController) RenderSummary(summary *models.Summary) string {
	kinds := c.enabledKinds()
	if c.lib.Kind == models.ItemKindArtist && c.opts.Poster {
		kinds = append(kinds, models.ArtworkCover)
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(fmt.Sprintf("%s (%s), mode: %s", c.lib.Title, c.lib.Kind, c.opts.Mode))
	tw.AppendHeader(table.Row{"Artwork", "Written", "Skipped", "Failed"})

	for _, kind := range kinds {
		tw.AppendRow(table.Row{
			string(kind),
			summary.Count(kind, models.OutcomeWritten),
			summary.CountSkipped(kind),
			summary.Count(kind, models.OutcomeFailed),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	var b strings.Builder
	b.WriteString(tw.Render())

	failures := summary.Failures()
	if len(failures) > 0 {
		b.WriteString("\n\nFailures:\n")
		for _, f := range failures {
			fmt.Fprintf(&b, "  %s (%s): %s\n", f.Title, f.Kind, f.Reason)
		}
	}
	return b.String()
}
