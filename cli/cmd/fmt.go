package cmd

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/EmmChriss/msc/library"
	"github.com/EmmChriss/msc/pkg"
)

// Fmt prints the parsed library descriptor in the chosen format.
type Fmt struct {
	JSON JSON `cmd:"" default:"withargs" help:"Format as JSON (default)."`
	YAML YAML `cmd:""                    help:"Format as YAML."`
}

// JSON prints the descriptor as JSON.
type JSON struct {
	Indent int    `default:"2" help:"Indent width for JSON output."                    short:"i"`
	Source string `arg:""      help:"Descriptor file or '-' for stdin (default: --library)." optional:""`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context, g *Globals) error {
	d, err := source(ctx, g, j.Source)
	if err != nil {
		return err
	}

	b, err := json.MarshalIndent(d, "", strings.Repeat(" ", max(j.Indent, 0)))
	if err != nil {
		return ErrJSONMarshal.Wrap(err)
	}

	_, err = g.stdout().Write(append(b, '\n'))
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// YAML prints the descriptor as YAML.
type YAML struct {
	Indent int    `default:"2" help:"Indent width for YAML output."                    short:"i"`
	Source string `arg:""      help:"Descriptor file or '-' for stdin (default: --library)." optional:""`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context, g *Globals) error {
	d, err := source(ctx, g, y.Source)
	if err != nil {
		return err
	}

	b, err := yaml.MarshalWithOptions(d, yaml.Indent(max(y.Indent, 1)))
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	_, err = g.stdout().Write(b)
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// source builds the descriptor named by path, falling back to the library.
func source(ctx context.Context, g *Globals, path string) (*library.Descriptor, error) {
	if path == "" {
		return g.descriptor(ctx)
	}

	r, err := g.open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	d, err := library.Read(ctx, r)
	if err != nil {
		return nil, pkg.WrapError(err).With(slog.String("source", path))
	}

	return d, nil
}
