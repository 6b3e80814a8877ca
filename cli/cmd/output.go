package cmd

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/goccy/go-yaml"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Output formats accepted by the --format flags.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// defaultIndent is the indent width of JSON and YAML output.
const defaultIndent = 2

// encode writes v to w as JSON or YAML.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatYAML:
		b, err := yaml.MarshalWithOptions(v, yaml.Indent(defaultIndent))
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		_, err = w.Write(b)
		if err != nil {
			return ErrWriteOutput.Wrap(err)
		}

	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(v)
		if err != nil {
			return ErrJSONMarshal.Wrap(err).With(slog.String("format", format))
		}
	}

	return nil
}

// renderTable writes rows under headers as a rounded table. Columns listed
// in right are right-aligned.
func renderTable(w io.Writer, headers []string, rows [][]string, right ...int) error {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}

	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}

		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, len(headers))
	for i := range headers {
		align := text.AlignLeft

		for _, n := range right {
			if n == i {
				align = text.AlignRight
			}
		}

		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}

	tw.SetColumnConfigs(configs)

	_, err := io.WriteString(w, tw.Render()+"\n")
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
