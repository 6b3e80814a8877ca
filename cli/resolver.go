package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/EmmChriss/msc/pkg"
)

// Configuration file base names under [pkg.ConfigDir]. JSON is handled by
// [kong.JSON]; the others use [resolve].
const (
	configJSON = "config.json"
	configYAML = "config.yaml"
	configTOML = "config.toml"
)

// resolve returns a [kong.ConfigurationLoader] that decodes a flat document
// with unmarshal. It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(yaml.Unmarshal), "/path/to/config.yaml")
//
// Keys name long flags, with either hyphens or underscores:
//
//	library: ~/music/library.msc
//	log_level: debug
//	log-pretty: false
//
// Nested tables are flattened by joining keys with "-", so the TOML table
// [log] with key level sets --log-level. Command-line flags override values
// from the file.
func resolve(unmarshal func([]byte, any) error) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, pkg.ErrIO.Wrap(err)
		}

		var doc map[string]any

		err = unmarshal(data, &doc)
		if err != nil {
			return nil, ErrConfig.Wrap(err)
		}

		cfg := make(config, len(doc))
		cfg.flatten("", doc)

		return cfg, nil
	}
}

// yamlLoader and tomlLoader decode the YAML and TOML configuration files.
var (
	yamlLoader = resolve(yaml.Unmarshal)
	tomlLoader = resolve(toml.Unmarshal)
)

// ErrConfig is returned for a configuration file that cannot be decoded.
var ErrConfig = pkg.NewError("invalid configuration file")

// config implements [kong.Resolver] over flattened configuration keys.
type config map[string]any

func (c config) flatten(prefix string, m map[string]any) {
	for key, val := range m {
		name := normalize(key)
		if prefix != "" {
			name = prefix + "-" + name
		}

		switch v := val.(type) {
		case map[string]any:
			c.flatten(name, v)
		case []any:
			parts := make([]string, 0, len(v))
			for _, item := range v {
				parts = append(parts, fmt.Sprint(item))
			}

			c[name] = strings.Join(parts, ",")
		case string, bool:
			c[name] = v
		default:
			// kong parses numbers from strings
			c[name] = fmt.Sprint(v)
		}
	}
}

func normalize(key string) string {
	return strings.ReplaceAll(strings.ToLower(key), "_", "-")
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[normalize(flag.Name)]; ok {
		return value, nil
	}

	return nil, nil //nolint:nilnil
}
