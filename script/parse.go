package script

import (
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/EmmChriss/msc/pkg"
)

// Marker is the character that introduces a script line in a descriptor.
const Marker = '$'

// Reasons attached to [pkg.ErrMalformedScript] under the "reason" key.
const (
	reasonExpectedPath    = "expected path"
	reasonEmptySegment    = "empty path segment"
	reasonExpectedAssign  = "expected '='"
	reasonExpectedValue   = "expected value"
	reasonUnterminated    = "unterminated string"
	reasonExpectedClose   = "expected ')'"
	reasonUnexpectedInput = "unexpected input after value"
)

// Position locates a point in a script line.
type Position struct {
	Offset int // byte offset, 0-based
	Column int // rune column, 1-based
}

// Parse parses a single script line. A leading [Marker] and surrounding
// whitespace are ignored. Positions in returned errors are relative to the
// untrimmed line.
func Parse(line string) (*Script, error) {
	p := &parser{input: line, col: 1}

	p.skipWhitespace()

	if p.peek() == Marker {
		p.advance()
	}

	p.skipWhitespace()

	return p.parseScript()
}

// MustParse is like [Parse] but panics on error. It is meant for tests and
// static initialization.
func MustParse(line string) *Script {
	s, err := Parse(line)
	if err != nil {
		panic(err)
	}

	return s
}

// parser is a cursor over one script line.
type parser struct {
	input string
	pos   int
	col   int
}

// parseScript parses: path '=' value.
func (p *parser) parseScript() (*Script, error) {
	target, err := p.parsePath()
	if err != nil {
		return nil, err
	}

	p.skipWhitespace()

	if !p.expect('=') {
		return nil, p.fail(p.position(), reasonExpectedAssign)
	}

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	p.skipWhitespace()

	if !p.eof() {
		return nil, p.fail(p.position(), reasonUnexpectedInput)
	}

	return &Script{Target: target, Value: value}, nil
}

// parsePath parses: segment ('.' segment)*. Whitespace around segments is
// ignored.
func (p *parser) parsePath() ([]string, error) {
	pos := p.position()

	var segments []string

	for {
		p.skipWhitespace()

		seg := p.identifier()
		if seg == "" {
			if len(segments) == 0 && p.peek() != '.' {
				return nil, p.fail(pos, reasonExpectedPath)
			}

			return nil, p.fail(pos, reasonEmptySegment).
				With(slog.String("path", p.input[pos.Offset:p.pos]))
		}

		segments = append(segments, seg)

		p.skipWhitespace()

		if !p.expect('.') {
			return segments, nil
		}
	}
}

// parseValue parses: string | pathRef | call.
func (p *parser) parseValue() (Val, error) {
	p.skipWhitespace()

	pos := p.position()

	switch ch := p.peek(); {
	case p.eof():
		return Val{}, p.fail(pos, reasonExpectedValue)

	case ch == '\'' || ch == '"':
		return p.parseString(ch)

	case isIdentifier(ch):
		run := p.identifierRun()

		if p.peek() == '(' {
			// the callee is the first segment of the run
			name, _, _ := strings.Cut(run, ".")

			return p.parseCall(name, pos)
		}

		path, err := splitPath(run, pos)
		if err != nil {
			return Val{}, err
		}

		return Variable(path...), nil

	default:
		return Val{}, p.fail(pos, reasonExpectedValue).
			With(slog.String("found", string(ch)))
	}
}

// parseString parses a quoted literal ending at the next occurrence of the
// opening quote. There are no escape sequences.
func (p *parser) parseString(quote rune) (Val, error) {
	pos := p.position()

	p.advance() // opening quote

	end := strings.IndexRune(p.input[p.pos:], quote)
	if end < 0 {
		return Val{}, p.fail(pos, reasonUnterminated)
	}

	s := p.input[p.pos : p.pos+end]

	for range s {
		p.col++
	}

	p.pos += end

	p.advance() // closing quote

	return Literal(s), nil
}

// parseCall parses the argument list of: identifier '(' (value (',' value)*)? ')'.
// Separating commas and whitespace are skipped loosely.
func (p *parser) parseCall(name string, pos Position) (Val, error) {
	p.advance() // '('

	args := make([]Val, 0)

	for {
		p.skipWhitespace()

		switch {
		case p.eof():
			return Val{}, p.fail(p.position(), reasonExpectedClose).
				With(slog.String("function", name), slog.Int("call_column", pos.Column))

		case p.expect(')'):
			return Call(name, args...), nil

		case p.expect(','):
			continue
		}

		arg, err := p.parseValue()
		if err != nil {
			return Val{}, err
		}

		args = append(args, arg)
	}
}

// identifier consumes a contiguous run of identifier runes.
func (p *parser) identifier() string {
	start := p.pos

	for !p.eof() && isIdentifier(p.peek()) {
		p.advance()
	}

	return p.input[start:p.pos]
}

// identifierRun consumes a contiguous run of identifier runes and dots.
func (p *parser) identifierRun() string {
	start := p.pos

	for !p.eof() {
		if ch := p.peek(); !isIdentifier(ch) && ch != '.' {
			break
		}

		p.advance()
	}

	return p.input[start:p.pos]
}

func splitPath(run string, pos Position) ([]string, error) {
	segments := strings.Split(run, ".")

	for _, seg := range segments {
		if seg == "" {
			return nil, pkg.ErrMalformedScript.With(
				slog.String("reason", reasonEmptySegment),
				slog.String("path", run),
				slog.Int("offset", pos.Offset),
				slog.Int("column", pos.Column),
			)
		}
	}

	return segments, nil
}

// Helper methods

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(p.input[p.pos:])

	return r
}

func (p *parser) advance() {
	if p.eof() {
		return
	}

	_, size := utf8.DecodeRuneInString(p.input[p.pos:])

	p.pos += size
	p.col++
}

func (p *parser) expect(ch rune) bool {
	if !p.eof() && p.peek() == ch {
		p.advance()

		return true
	}

	return false
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) position() Position {
	return Position{Offset: p.pos, Column: p.col}
}

func (p *parser) skipWhitespace() {
	for !p.eof() && unicode.IsSpace(p.peek()) {
		p.advance()
	}
}

func (p *parser) fail(pos Position, reason string) *pkg.Error {
	return pkg.ErrMalformedScript.With(
		slog.String("reason", reason),
		slog.Int("offset", pos.Offset),
		slog.Int("column", pos.Column),
	)
}

// isIdentifier reports whether r may appear in a path segment or function
// name.
func isIdentifier(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}
