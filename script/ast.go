package script

import (
	"slices"
	"strings"
)

// Script is a parsed assignment of a computed value to a dotted target path:
//
//	title.full = replace(title.raw, "_", " ")
//
// A Script is immutable once parsed.
type Script struct {
	// Target is the dot-split left-hand side, in source order.
	Target []string
	// Value is the right-hand side expression.
	Value Val
}

// ValKind identifies the variant held by a [Val].
type ValKind int

const (
	// ValString is a quoted string literal.
	ValString ValKind = iota
	// ValVariable is a dotted variable reference.
	ValVariable
	// ValCall is a builtin function call.
	ValCall
)

// String returns the name of the kind.
func (k ValKind) String() string {
	switch k {
	case ValString:
		return "string"
	case ValVariable:
		return "variable"
	case ValCall:
		return "call"
	default:
		return "unknown"
	}
}

// Val is a value expression. Exactly the fields relevant to Kind are set.
type Val struct {
	Kind ValKind
	Str  string   // ValString
	Path []string // ValVariable
	Name string   // ValCall
	Args []Val    // ValCall
}

// Literal returns a string literal expression.
func Literal(s string) Val { return Val{Kind: ValString, Str: s} }

// Variable returns a variable reference expression.
func Variable(path ...string) Val { return Val{Kind: ValVariable, Path: path} }

// Call returns a function call expression.
func Call(name string, args ...Val) Val {
	return Val{Kind: ValCall, Name: name, Args: args}
}

// String renders the script in canonical source form, without the leading
// "$" marker.
func (s *Script) String() string {
	return strings.Join(s.Target, ".") + " = " + s.Value.String()
}

// String renders the expression in canonical source form.
func (v Val) String() string {
	switch v.Kind {
	case ValString:
		// No escapes exist, so pick the quote the literal does not contain.
		if strings.ContainsRune(v.Str, '"') {
			return "'" + v.Str + "'"
		}

		return `"` + v.Str + `"`

	case ValVariable:
		return strings.Join(v.Path, ".")

	case ValCall:
		args := make([]string, len(v.Args))
		for i, arg := range v.Args {
			args[i] = arg.String()
		}

		return v.Name + "(" + strings.Join(args, ", ") + ")"

	default:
		return ""
	}
}

// Equal reports whether two expressions are structurally identical.
func (v Val) Equal(w Val) bool {
	if v.Kind != w.Kind {
		return false
	}

	switch v.Kind {
	case ValString:
		return v.Str == w.Str

	case ValVariable:
		return slices.Equal(v.Path, w.Path)

	case ValCall:
		if v.Name != w.Name || len(v.Args) != len(w.Args) {
			return false
		}

		for i := range v.Args {
			if !v.Args[i].Equal(w.Args[i]) {
				return false
			}
		}

		return true
	}

	return false
}

// Equal reports whether two scripts are structurally identical.
func (s *Script) Equal(t *Script) bool {
	if s == nil || t == nil {
		return s == t
	}

	return slices.Equal(s.Target, t.Target) && s.Value.Equal(t.Value)
}
