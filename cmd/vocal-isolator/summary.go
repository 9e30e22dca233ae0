package main

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/handiism/vocal-isolator/internal/ffmpeg"
	"github.com/handiism/vocal-isolator/internal/isolate"
)

// renderSummary draws one row per song of report. Dry runs list the
// ffmpeg command that would have been run.
func renderSummary(report *isolate.Report, runner *ffmpeg.Runner) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Footer = text.FormatDefault
	tw.SetTitle("%s / %s", report.Group, report.Member)

	if report.DryRun {
		tw.AppendHeader(table.Row{"Song", "Command"})
		for _, req := range report.Requests {
			cmd := append([]string{runner.Binary}, runner.Args(req, req.Output)...)
			tw.AppendRow(table.Row{filepath.Base(req.Input), quoteArgs(cmd)})
		}
		return tw.Render()
	}

	tw.AppendHeader(table.Row{"Song", "Output", "Size", "Time", "Status"})
	var total int64
	for _, res := range report.Results {
		status := "ok"
		size := ""
		if res.Err != nil {
			status = "failed"
		} else {
			size = humanize.Bytes(uint64(res.Size))
			total += res.Size
		}
		tw.AppendRow(table.Row{
			res.Selection.Song,
			filepath.Base(res.Output),
			size,
			res.Duration.Round(10 * time.Millisecond).String(),
			status,
		})
	}
	tw.AppendFooter(table.Row{"", "", humanize.Bytes(uint64(total)), "", summaryStatus(report)})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	return tw.Render()
}

func summaryStatus(report *isolate.Report) string {
	failed := report.Failed()
	if failed == 0 {
		return "all ok"
	}
	return humanize.Comma(int64(failed)) + " failed"
}

// quoteArgs joins args for display, single-quoting those a shell would split.
func quoteArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, a := range args {
		if a == "" || strings.ContainsAny(a, " \t'\"$;&|<>()*?") {
			quoted[i] = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
		} else {
			quoted[i] = a
		}
	}
	return strings.Join(quoted, " ")
}
