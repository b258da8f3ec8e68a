package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func resolveFlag(t *testing.T, r kong.Resolver, name string) any {
	t.Helper()

	val, err := r.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
	if err != nil {
		t.Fatalf("Resolve(%q) failed: %v", name, err)
	}

	return val
}

func TestLoad_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		loader kong.ConfigurationLoader
		doc    string
	}{
		{
			name:   "yaml_flat",
			loader: loadYAML,
			doc:    "log-level: debug\nlog_pretty: false\nlayouts: /tmp/keymaps\njobs: 4\n",
		},
		{
			name:   "yaml_nested",
			loader: loadYAML,
			doc:    "log:\n  level: debug\n  pretty: false\nlayouts: /tmp/keymaps\njobs: 4\n",
		},
		{
			name:   "toml_flat",
			loader: loadTOML,
			doc:    "log_level = \"debug\"\nlog-pretty = false\nlayouts = \"/tmp/keymaps\"\njobs = 4\n",
		},
		{
			name:   "toml_table",
			loader: loadTOML,
			doc:    "layouts = \"/tmp/keymaps\"\njobs = 4\n[log]\nlevel = \"debug\"\npretty = false\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := tt.loader(strings.NewReader(tt.doc))
			if err != nil {
				t.Fatalf("loader failed: %v", err)
			}

			want := map[string]any{
				"log-level":  "debug",
				"log-pretty": false,
				"layouts":    "/tmp/keymaps",
				"jobs":       "4",
			}

			for name, value := range want {
				if got := resolveFlag(t, r, name); got != value {
					t.Errorf("%s = %#v, want %#v", name, got, value)
				}
			}

			if got := resolveFlag(t, r, "missing"); got != nil {
				t.Errorf("missing = %#v, want nil", got)
			}
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	for name, loader := range map[string]kong.ConfigurationLoader{
		"yaml": loadYAML,
		"toml": loadTOML,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r, err := loader(strings.NewReader("[[[ not valid"))
			if err != nil {
				t.Fatalf("invalid config should be ignored, got %v", err)
			}

			if got := resolveFlag(t, r, "log-level"); got != nil {
				t.Errorf("expected empty config, got %#v", got)
			}
		})
	}
}

func TestLoad_List(t *testing.T) {
	t.Parallel()

	r, err := loadYAML(strings.NewReader("layouts:\n  - de\n  - 7\n"))
	if err != nil {
		t.Fatal(err)
	}

	list, ok := resolveFlag(t, r, "layouts").([]any)
	if !ok || len(list) != 2 || list[0] != "de" || list[1] != "7" {
		t.Errorf("unexpected list %#v", list)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{
		"log-level":    "log-level",
		"log_level":    "log-level",
		"Common_Codes": "common-codes",
	} {
		if got := normalize(in); got != want {
			t.Errorf("normalize(%q) = %q, want %q", in, got, want)
		}
	}
}
