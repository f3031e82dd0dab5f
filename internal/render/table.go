// Package render prints listing reports as colored terminal tables.
package render

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/utkarsh5026/ogy/internal/listing"
)

// Columns of the listing table, in order.
var Columns = []any{"#", "Permissions", "Links", "Owner", "Size", "Last Modified", "File Name"}

// PathColumn is appended to Columns for search results.
const PathColumn = "File Path"

// Printer writes reports to w.
type Printer struct {
	w io.Writer

	index   *color.Color
	cell    *color.Color
	dir     *color.Color
	failure *color.Color
	summary *color.Color
	warn    *color.Color
}

// NewPrinter returns a Printer writing to w. With noColor set no escape
// sequences are written, whatever the terminal supports.
func NewPrinter(w io.Writer, noColor bool) *Printer {
	p := &Printer{
		w:       w,
		index:   color.New(color.FgHiBlack, color.Bold),
		cell:    color.New(color.FgCyan, color.Bold),
		dir:     color.New(color.FgBlue, color.Bold),
		failure: color.New(color.FgRed),
		summary: color.New(color.Bold),
		warn:    color.New(color.FgYellow),
	}

	if noColor {
		for _, c := range []*color.Color{p.index, p.cell, p.dir, p.failure, p.summary, p.warn} {
			c.DisableColor()
		}
	}
	return p
}

// Report renders the table for r followed by a summary line.
func (p *Printer) Report(r *listing.Report) error {
	if len(r.Entries) == 0 {
		_, err := p.warn.Fprintf(p.w, "%s is empty\n", r.Dir)
		return err
	}

	if err := p.Table(r); err != nil {
		return err
	}
	return p.Summary(r)
}

// Table renders only the rows of r. Reports with ShowPaths set get a
// trailing path column.
func (p *Printer) Table(r *listing.Report) error {
	table := tablewriter.NewWriter(p.w)
	if r.ShowPaths {
		table.Header(append(Columns[:len(Columns):len(Columns)], PathColumn)...)
	} else {
		table.Header(Columns...)
	}

	for i, e := range r.Entries {
		row := p.row(i+1, e)
		if r.ShowPaths {
			row = append(row, p.cell.Sprint(e.Path))
		}
		if err := table.Append(row...); err != nil {
			return fmt.Errorf("append row %d: %w", i+1, err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}

// Summary writes the one-line totals for r.
func (p *Printer) Summary(r *listing.Report) error {
	ok := len(r.Entries) - r.Failures()
	line := fmt.Sprintf("%d entries, %d failed, %d workers, %s",
		len(r.Entries), r.Failures(), r.Workers, r.Elapsed.Round(time.Microsecond))

	if _, err := p.summary.Fprintln(p.w, line); err != nil {
		return err
	}
	if r.TimedOut {
		_, err := p.warn.Fprintf(p.w, "timed out: %d of %d lookups finished in time\n", ok, len(r.Entries))
		return err
	}
	return nil
}

func (p *Printer) row(n int, e listing.Entry) []any {
	idx := p.index.Sprint(n)
	if e.Failed() {
		return []any{
			idx,
			p.failure.Sprint("?"),
			"-", "-", "-", "-",
			p.failure.Sprintf("%s: %s", e.Name, Reason(e.Err)),
		}
	}

	info := e.Info
	name := p.cell.Sprint(e.Name)
	if info.IsDir() {
		name = p.dir.Sprint(e.Name)
	}
	return []any{
		idx,
		p.cell.Sprint(info.Permissions()),
		p.cell.Sprint(strconv.FormatUint(info.Links, 10)),
		p.cell.Sprint(info.Owner),
		p.cell.Sprint(strconv.FormatInt(info.Size, 10)),
		p.cell.Sprint(info.LastModified()),
		name,
	}
}

// Reason returns the short cause of a failed lookup, without the path the
// row already shows.
func Reason(err error) string {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	return err.Error()
}
