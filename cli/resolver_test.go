package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestResolve_Formats(t *testing.T) {
	tests := []struct {
		name   string
		loader kong.ConfigurationLoader
		doc    string
	}{
		{
			name:   "yaml",
			loader: yamlLoader,
			doc:    "library: /music/library.msc\nlog_level: debug\nlog-pretty: false\n",
		},
		{
			name:   "toml flat",
			loader: tomlLoader,
			doc:    "library = \"/music/library.msc\"\nlog_level = \"debug\"\nlog-pretty = false\n",
		},
		{
			name:   "toml table",
			loader: tomlLoader,
			doc:    "library = \"/music/library.msc\"\n[log]\nlevel = \"debug\"\npretty = false\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.loader(strings.NewReader(tt.doc))
			if err != nil {
				t.Fatalf("loader: %v", err)
			}

			want := map[string]any{
				"library":    "/music/library.msc",
				"log-level":  "debug",
				"log-pretty": false,
			}

			for name, val := range want {
				got, err := res.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
				if err != nil {
					t.Fatalf("Resolve(%s): %v", name, err)
				}

				if got != val {
					t.Errorf("Resolve(%s) = %#v, want %#v", name, got, val)
				}
			}

			got, _ := res.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "cache"}})
			if got != nil {
				t.Errorf("Resolve(cache) = %#v, want nil", got)
			}
		})
	}
}

func TestResolve_NumbersBecomeStrings(t *testing.T) {
	res, err := yamlLoader(strings.NewReader("depth: 3\nratio: 0.5\n"))
	if err != nil {
		t.Fatalf("loader: %v", err)
	}

	for name, want := range map[string]string{"depth": "3", "ratio": "0.5"} {
		got, _ := res.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: name}})
		if got != want {
			t.Errorf("Resolve(%s) = %#v, want %q", name, got, want)
		}
	}
}

func TestResolve_Invalid(t *testing.T) {
	_, err := tomlLoader(strings.NewReader("not = [valid"))
	if err == nil {
		t.Error("expected error for malformed TOML")
	}
}
