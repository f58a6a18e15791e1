// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"gopkg.in/yaml.v2"

	"github.com/staranto/lciochecks/internal/cache"
	"github.com/staranto/lciochecks/internal/config"
	"github.com/staranto/lciochecks/internal/filters"
)

// Formats lists the accepted --output values.
var Formats = []string{"text", "csv", "json", "yaml"}

// Options control how a dataset is narrowed and rendered.
type Options struct {
	Format string
	Filter string
	Sort   string
	Titles bool
	Color  bool
}

// SliceDiceSpit filters, sorts and renders rows. Columns fixes the order of
// the keys in text and csv output.
func SliceDiceSpit(rows []map[string]interface{}, columns []string, opts Options, w io.Writer) error {
	if w == nil {
		w = os.Stdout
	}

	dataset := FilterAndSort(rows, opts.Filter, opts.Sort)

	switch opts.Format {
	case "json":
		out, err := json.Marshal(dataset)
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case "yaml":
		out, err := yaml.Marshal(dataset)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = w.Write(out)
		return err
	case "csv":
		return CSVWriter(dataset, columns, w)
	case "", "text":
		TableWriter(dataset, columns, opts, w)
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", opts.Format)
	}
}

// FilterAndSort narrows rows with the filter spec and sorts what is left.
func FilterAndSort(rows []map[string]interface{}, filter, sort string) []map[string]interface{} {
	// Filter out the rows we don't want before the sort has to look at them.
	dataset := filters.FilterRows(rows, filter)
	SortDataset(dataset, sort)
	return dataset
}

// TableRows converts a cache table into rows keyed by column, the index
// stored under the index name. The returned columns start with the index.
func TableRows(t *cache.Table) ([]map[string]interface{}, []string) {
	columns := append([]string{t.IndexName}, t.Columns...)
	rows := make([]map[string]interface{}, len(t.Rows))
	for i, r := range t.Rows {
		row := map[string]interface{}{}
		if i < len(t.Index) {
			row[t.IndexName] = t.Index[i]
		}
		for j, c := range t.Columns {
			if j >= len(r) {
				break
			}
			row[c] = cellValue(r[j])
		}
		rows[i] = row
	}
	return rows, columns
}

// cellValue keeps integer cells numeric so filters and sorts compare them as
// numbers.
func cellValue(s string) interface{} {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// CSVWriter writes the rows with a header line of columns.
func CSVWriter(rows []map[string]interface{}, columns []string, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, r := range rows {
		record := make([]string, len(columns))
		for i, c := range columns {
			record[i] = cellString(r[c], "")
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// cellString renders a present zero value as itself and a missing one as
// missing.
func cellString(v interface{}, missing string) string {
	if v == nil {
		return missing
	}
	return Stringify(v, fmt.Sprint(v))
}

// palette holds the foreground colors of the text table.
type palette struct {
	Title, Even, Odd string
}

// loadPalette reads <key>.title, <key>.even and <key>.odd from the config.
func loadPalette(key string) palette {
	get := func(name, def string) string {
		v, _ := config.GetString(key+"."+name, def)
		return v
	}
	return palette{
		Title: get("title", "#f6be00"),
		Even:  get("even", "#ffffff"),
		Odd:   get("odd", "#00c8f0"),
	}
}

// styler picks the style of each table cell: striped rows, a header style
// and pad spaces in front of every column but the first.
func styler(opts Options, pad int) func(row, col int) lipgloss.Style {
	base := lipgloss.NewStyle().Align(lipgloss.Left)
	header, even, odd := base, base, base
	if opts.Color {
		p := loadPalette("colors")
		header = header.Foreground(lipgloss.Color(p.Title))
		even = even.Foreground(lipgloss.Color(p.Even))
		odd = odd.Foreground(lipgloss.Color(p.Odd))
	}

	return func(row, col int) lipgloss.Style {
		style := odd
		if row == table.HeaderRow {
			style = header
		} else if row%2 == 0 {
			style = even
		}
		if col > 0 {
			return style.PaddingLeft(pad)
		}
		return style
	}
}

// TableWriter prints rows as a borderless lipgloss table. Nothing is printed
// for an empty result set.
func TableWriter(resultSet []map[string]interface{}, columns []string, opts Options, w io.Writer) {
	if len(resultSet) == 0 {
		return
	}

	cells := make([][]string, len(resultSet))
	for i, result := range resultSet {
		cells[i] = make([]string, len(columns))
		for j, c := range columns {
			cells[i][j] = cellString(result[c], "-")
		}
	}

	pad, _ := config.GetInt("padding", 2) //nolint:mnd
	log.Debugf("table padding: %d", pad)

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		StyleFunc(styler(opts, pad)).
		Rows(cells...)

	if opts.Titles {
		// BorderHeader must follow Headers, see lipgloss issue 261.
		t = t.Headers(columns...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)
}

// Stringify renders a value for a table cell. Zero values come out as
// empty, or as empty[0] when given.
func Stringify(value interface{}, empty ...string) string {
	blank := ""
	if len(empty) > 0 {
		blank = empty[0]
	}
	if value == nil || reflect.ValueOf(value).IsZero() {
		return blank
	}

	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Local().Format(time.DateTime)
	}
	if raw, err := json.Marshal(value); err == nil {
		return string(raw)
	}
	return fmt.Sprintf("%v", value)
}
