package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/kmap/log"
)

// unmarshalFunc decodes a configuration document into v.
type unmarshalFunc func(data []byte, v any) error

// loadYAML is a [kong.ConfigurationLoader] for YAML configuration files.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	return load(r, "yaml", func(data []byte, v any) error {
		return yaml.Unmarshal(data, v)
	})
}

// loadTOML is a [kong.ConfigurationLoader] for TOML configuration files.
func loadTOML(r io.Reader) (kong.Resolver, error) {
	return load(r, "toml", toml.Unmarshal)
}

// load reads a configuration document and flattens it into a [config].
//
// Nested tables are joined with hyphens and underscores in keys are read as
// hyphens, so all of the following set --log-level:
//
//	log-level: debug
//	log_level: debug
//	log:
//	  level: debug
//
// A document that cannot be decoded is logged and yields an empty config.
// Command-line flags and environment variables override config values.
func load(r io.Reader, format string, unmarshal unmarshalFunc) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc map[string]any

	if err := unmarshal(data, &doc); err != nil {
		log.Warn("ignoring invalid configuration",
			slog.String("format", format),
			slog.Any("error", err),
		)

		return config{}, nil
	}

	cfg := make(config, len(doc))
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] over a flattened configuration document.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := c[normalize(flag.Name)]; ok {
		return value, nil
	}

	// Not found: let kong use the default.
	return nil, nil
}

func (c config) flatten(prefix string, node map[string]any) {
	for key, value := range node {
		name := normalize(key)
		if prefix != "" {
			name = prefix + "-" + name
		}

		switch v := value.(type) {
		case map[string]any:
			c.flatten(name, v)

		case map[any]any:
			m := make(map[string]any, len(v))
			for k, e := range v {
				m[fmt.Sprint(k)] = e
			}

			c.flatten(name, m)

		case []any:
			list := make([]any, len(v))
			for i, e := range v {
				list[i] = scalar(e)
			}

			c[name] = list

		default:
			c[name] = scalar(v)
		}
	}
}

func normalize(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", "-"))
}

// scalar converts numbers to strings, which kong parses with the flag's own
// mapper.
func scalar(v any) any {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return v
	}
}
