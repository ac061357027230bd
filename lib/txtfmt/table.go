//
// (C) Copyright 2019-2022 Intel Corporation.
//
// SPDX-License-Identifier: BSD-2-Clause-Patent
//

// Package txtfmt renders human-readable tables for command output.
package txtfmt

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// MissingValue is displayed for a column a row has no value for.
const MissingValue = "-"

// TableRow is a map of string values to be printed, keyed by column title.
type TableRow map[string]string

// TableFormatter formats rows as a table with labeled columns.
type TableFormatter struct {
	titles []string
	indent string
}

// NewTableFormatter returns a TableFormatter for the given ordered
// column titles.
func NewTableFormatter(columnTitles ...string) *TableFormatter {
	return &TableFormatter{titles: columnTitles}
}

// WithIndent prefixes every output line with n spaces.
func (t *TableFormatter) WithIndent(n int) *TableFormatter {
	t.indent = strings.Repeat(" ", n)
	return t
}

func (t *TableFormatter) writeLine(w io.Writer, cells []string) {
	fmt.Fprintf(w, "%s%s\n", t.indent, strings.Join(cells, "\t"))
}

// Write renders the header and rows to w, filling only the titled
// columns in order.
func (t *TableFormatter) Write(w io.Writer, rows []TableRow) error {
	if len(t.titles) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	rules := make([]string, len(t.titles))
	for i, title := range t.titles {
		rules[i] = strings.Repeat("-", len(title))
	}
	t.writeLine(tw, t.titles)
	t.writeLine(tw, rules)

	cells := make([]string, len(t.titles))
	for _, row := range rows {
		for i, title := range t.titles {
			val, found := row[title]
			if !found || val == "" {
				val = MissingValue
			}
			cells[i] = val
		}
		t.writeLine(tw, cells)
	}

	return tw.Flush()
}

// Format returns the rendered table as a string.
func (t *TableFormatter) Format(rows []TableRow) string {
	var buf bytes.Buffer
	if err := t.Write(&buf, rows); err != nil {
		return err.Error()
	}
	return buf.String()
}
