package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"alignby/internal/driver"
)

var (
	alignedColor = color.New(color.FgGreen)
	failedColor  = color.New(color.FgRed, color.Bold)
	noticeColor  = color.New(color.FgYellow)
)

var numbers = message.NewPrinter(language.English)

// summaryLine renders "Aligning finished, N failed, M unchanged, K aligned."
// Skipped, canceled and cached counts are appended only when non-zero.
func summaryLine(s driver.Summary) string {
	line := numbers.Sprintf("Aligning finished, %d failed, %d unchanged, %d aligned", s.Failed, s.Unchanged, s.Aligned)
	if s.Skipped > 0 {
		line += numbers.Sprintf(", %d skipped", s.Skipped)
	}
	if s.Canceled > 0 {
		line += numbers.Sprintf(", %d canceled", s.Canceled)
	}
	if s.Cached > 0 {
		line += numbers.Sprintf(" (%d from cache)", s.Cached)
	}
	return line + "."
}

func renderText(out, errOut io.Writer, results []driver.Result, check, quiet bool) {
	for _, res := range results {
		switch res.Status {
		case driver.StatusFailed:
			fmt.Fprintf(errOut, "%s %s: %v\n", failedColor.Sprint("failed"), res.Display, res.Err)
		case driver.StatusSkipped:
			if !quiet {
				fmt.Fprintf(errOut, "%s %s: %v\n", noticeColor.Sprint("skipped"), res.Display, res.Err)
			}
		case driver.StatusCanceled:
			if !quiet {
				fmt.Fprintf(out, "%s %s\n", noticeColor.Sprint("canceled"), res.Display)
			}
		case driver.StatusAligned:
			if check {
				// в режиме --check печатаем только путь, как gofmt -l
				fmt.Fprintln(out, res.Display)
			} else if !quiet {
				fmt.Fprintf(out, "%s %s\n", alignedColor.Sprint("aligned"), res.Display)
			}
		}
	}
	if !quiet {
		fmt.Fprintln(out, summaryLine(driver.Summarize(results)))
	}
}

func renderStdout(out, errOut io.Writer, results []driver.Result) {
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(errOut, "alignby: %s: %v\n", res.Display, res.Err)
			continue
		}
		_, _ = out.Write(res.Output)
	}
}

type jsonResult struct {
	Path      string  `json:"path"`
	Status    string  `json:"status"`
	Changed   bool    `json:"changed"`
	Groups    int     `json:"groups"`
	Lines     int     `json:"lines"`
	Cached    bool    `json:"cached,omitempty"`
	ElapsedMS float64 `json:"elapsed_ms"`
	Error     string  `json:"error,omitempty"`
}

type jsonReport struct {
	Check   bool           `json:"check"`
	Files   []jsonResult   `json:"files"`
	Summary driver.Summary `json:"summary"`
}

func renderJSON(out io.Writer, results []driver.Result, check bool) error {
	report := jsonReport{
		Check:   check,
		Files:   make([]jsonResult, 0, len(results)),
		Summary: driver.Summarize(results),
	}
	for _, res := range results {
		jr := jsonResult{
			Path:      res.Display,
			Status:    string(res.Status),
			Changed:   res.Changed,
			Groups:    res.Groups,
			Lines:     res.Lines,
			Cached:    res.Cached,
			ElapsedMS: toMillis(res.Elapsed),
		}
		if res.Err != nil {
			jr.Error = res.Err.Error()
		}
		report.Files = append(report.Files, jr)
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func renderTable(out io.Writer, results []driver.Result, check bool) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"File", "Status", "Groups", "Lines", "Time", "Error"})
	for _, res := range results {
		status := string(res.Status)
		if check && res.Status == driver.StatusAligned {
			status = "needs alignment"
		}
		if res.Cached {
			status += " (cached)"
		}
		errText := ""
		if res.Err != nil {
			errText = res.Err.Error()
		}
		tw.AppendRow(table.Row{
			res.Display,
			status,
			strconv.Itoa(res.Groups),
			numbers.Sprintf("%d", res.Lines),
			fmt.Sprintf("%.1f ms", toMillis(res.Elapsed)),
			errText,
		})
	}
	tw.AppendFooter(table.Row{"", "", "", "", "", summaryLine(driver.Summarize(results))})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	tw.Render()
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
