// Package diag defines the closed set of failure kinds the Noble pipeline can
// report (§7 of the specification): LexError, ParseError, TypeError and
// CodegenError. Every stage returns a *Diagnostic (wrapped in the standard
// error interface) instead of a bare string so callers can branch on Kind
// with errors.As without parsing messages.
package diag

import "fmt"

// Kind is a closed enumeration of the taxonomy a Noble compilation can fail
// with. There is intentionally no "unknown" catch-all kind: every fallible
// stage picks one of the four below.
type Kind int

const (
	LexError Kind = iota
	ParseError
	TypeError
	CodegenError
)

func (k Kind) String() string {
	switch k {
	case LexError:
		return "LexError"
	case ParseError:
		return "ParseError"
	case TypeError:
		return "TypeError"
	case CodegenError:
		return "CodegenError"
	default:
		return "UnknownError"
	}
}

// Diagnostic is the concrete error value every Noble stage returns on
// failure. Reason is a short machine-stable tag (e.g. "undefined_identifier",
// "integer_overflow") named after the spec's own wording; Detail is a
// human-readable message; Cause, when present, lets Unwrap chain through to
// an underlying error (e.g. strconv.ErrRange on an overflowing literal).
type Diagnostic struct {
	Kind   Kind
	Reason string
	Detail string
	Cause  error
}

func (d *Diagnostic) Error() string {
	if d.Detail == "" {
		return fmt.Sprintf("%s: %s", d.Kind, d.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", d.Kind, d.Reason, d.Detail)
}

func (d *Diagnostic) Unwrap() error { return d.Cause }

// New builds a Diagnostic with no wrapped cause.
func New(kind Kind, reason, detail string) *Diagnostic {
	return &Diagnostic{Kind: kind, Reason: reason, Detail: detail}
}

// Wrap builds a Diagnostic around an underlying error, preserving it for
// errors.Unwrap/errors.Is while still exposing a stable Kind/Reason.
func Wrap(kind Kind, reason string, cause error) *Diagnostic {
	detail := ""
	if cause != nil {
		detail = cause.Error()
	}
	return &Diagnostic{Kind: kind, Reason: reason, Detail: detail, Cause: cause}
}
