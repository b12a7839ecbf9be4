package app

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/Nike1016/selfoss/internal/domain/entity"
	"github.com/Nike1016/selfoss/internal/domain/spout"
)

// sourceJSON is the machine-readable form of a source, matching the HTTP API.
type sourceJSON struct {
	ID        int64             `json:"id"`
	Title     string            `json:"title"`
	Spout     string            `json:"spout"`
	Params    entity.Params     `json:"params"`
	Error     string            `json:"error"`
	SpoutInfo *spout.Descriptor `json:"spout_info"`
}

func toJSON(v *entity.SourceView) sourceJSON {
	return sourceJSON{ID: v.ID, Title: v.Title, Spout: v.Spout, Params: v.Params, Error: v.Error, SpoutInfo: v.Descriptor}
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) printTable(header []string, rows [][]string) error {
	table := tablewriter.NewWriter(c.out)
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	table.Header(cells...)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func (c *cli) printSources(views []*entity.SourceView) error {
	if c.jsonOutput() {
		out := make([]sourceJSON, 0, len(views))
		for _, v := range views {
			out = append(out, toJSON(v))
		}
		return c.printJSON(out)
	}

	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{fmt.Sprint(v.ID), v.Title, v.Spout, v.Error})
	}
	return c.printTable([]string{"ID", "TITLE", "SPOUT", "ERROR"}, rows)
}

func (c *cli) printSource(v *entity.SourceView) error {
	if c.jsonOutput() {
		return c.printJSON(toJSON(v))
	}

	_, _ = fmt.Fprintf(c.out, "id:     %d\ntitle:  %s\nspout:  %s\n", v.ID, v.Title, v.Spout)
	if v.Descriptor == nil {
		_, _ = fmt.Fprintln(c.out, "        (spout not registered)")
	}
	if v.HasError() {
		_, _ = fmt.Fprintf(c.out, "error:  %s\n", v.Error)
	}
	for _, p := range v.Params {
		_, _ = fmt.Fprintf(c.out, "param:  %s=%s\n", p.ID, p.Value)
	}
	return nil
}

// printFieldErrors writes one "field: message" line per rejected field.
func (c *cli) printFieldErrors(errs entity.FieldErrors) {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(c.out, "%s: %s\n", k, errs[k])
	}
}
