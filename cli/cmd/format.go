package cmd

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/goccy/go-yaml"
)

// Output formats shared by the commands that print structured data.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// yamlIndent is the indentation of YAML output.
const yamlIndent = 2

// encode writes v to w as JSON or YAML.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(v); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

		return nil

	case formatYAML:
		data, err := yaml.MarshalWithOptions(v, yaml.Indent(yamlIndent))
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		_, err = w.Write(data)

		return err

	default:
		return ErrFormat.With(slog.String("format", format))
	}
}
