package refresh

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

type FileReport struct {
	Filename string
	Outcomes []Outcome
}

func (f FileReport) Updated() int {
	count := 0
	for _, o := range f.Outcomes {
		if o.Updated {
			count++
		}
	}
	return count
}

type Skip struct {
	Filename string
	Key      string
	Reason   string
}

type Report struct {
	Files []FileReport
}

// Skipped lists every skipped category across all files, in run order.
func (r Report) Skipped() []Skip {
	var out []Skip
	for _, f := range r.Files {
		for _, o := range f.Outcomes {
			if o.Updated {
				continue
			}
			out = append(out, Skip{Filename: f.Filename, Key: o.Key, Reason: o.Reason})
		}
	}
	return out
}

const (
	FormatText  = "text"
	FormatTable = "table"
)

// Write renders the report, `format` is FormatText or FormatTable.
func (r Report) Write(w io.Writer, format string) error {
	switch format {
	case FormatText, "":
		return r.writeText(w)
	case FormatTable:
		r.writeTable(w)
		return nil
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func (r Report) writeText(w io.Writer) error {
	for _, f := range r.Files {
		_, err := fmt.Fprintf(w, "%s: updated %d categories\n", f.Filename, f.Updated())
		if err != nil {
			return err
		}
	}

	skipped := r.Skipped()
	if len(skipped) == 0 {
		return nil
	}
	_, err := fmt.Fprintln(w, "Skipped categories (kept existing values):")
	if err != nil {
		return err
	}
	for _, s := range skipped {
		_, err = fmt.Fprintf(w, "- %s -> %s: %s\n", s.Filename, s.Key, s.Reason)
		if err != nil {
			return err
		}
	}
	return nil
}

func NewTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func (r Report) writeTable(w io.Writer) {
	files := NewTable(w)
	files.AppendHeader(table.Row{"File", "Updated", "Skipped"})
	for _, f := range r.Files {
		files.AppendRow(table.Row{f.Filename, f.Updated(), len(f.Outcomes) - f.Updated()})
	}
	files.Render()

	skipped := r.Skipped()
	if len(skipped) == 0 {
		return
	}
	skips := NewTable(w)
	skips.SetTitle("Skipped categories (kept existing values)")
	skips.AppendHeader(table.Row{"File", "Category", "Reason"})
	for _, s := range skipped {
		skips.AppendRow(table.Row{s.Filename, s.Key, s.Reason})
	}
	skips.Render()
}
