// Package script implements the small assignment language embedded in
// library descriptors.
//
// # Grammar
//
// Informal EBNF:
//
//	Script  → Path '=' Value
//	Path    → Segment ('.' Segment)*      ; letters and '_'
//	Value   → String | PathRef | Call
//	String  → "'" chars "'" | '"' chars '"'   ; no escapes
//	PathRef → Path
//	Call    → Identifier '(' (Value (',' Value)*)? ')'
//
// A string literal ends at the first following occurrence of its opening
// quote, so a literal cannot contain its own quote character.
//
// # Example
//
//	$ title.full = replace(title.raw, "_", " ")
//
// # Evaluation
//
// An [Evaluator] resolves a [Script] against a [value.Value] object and
// writes the resulting string back into it. Dotted paths are walked from the
// last segment to the first, for reads and writes alike. Reads of missing
// paths resolve to "" and calls to unknown functions resolve to "" unless the
// Evaluator is strict; both conditions are logged and counted.
//
// Builtins live in a [Registry]; [DefaultRegistry] provides replace, lower,
// upper, trim, and title.
package script
