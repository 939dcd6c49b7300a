package models

import (
	"errors"
	"fmt"
	"strings"
)

// Wear engine and catalog errors
var (
	ErrUnknownMaterial    = errors.New("unknown material")
	ErrDegenerateInterval = errors.New("degenerate wear interval")
	ErrCeilingBelowDomain = errors.New("wear ceiling below output domain")
	ErrTierNotFound       = errors.New("no tier contains wear value")
	ErrNotMapped          = errors.New("no price mapping configured")
	ErrUnknownOutputKind  = errors.New("unknown output kind")
	ErrUnknownLine        = errors.New("unknown product line")
	ErrUnknownItem        = errors.New("unknown item")
	ErrInvalidCatalog     = errors.New("invalid catalog")
)

// LookupError reports a name that isn't configured, with close matches if any
type LookupError struct {
	Kind        error
	Name        string
	Suggestions []string
}

func (e *LookupError) Error() string {
	msg := fmt.Sprintf("%v: %q", e.Kind, e.Name)
	if len(e.Suggestions) > 0 {
		quoted := make([]string, len(e.Suggestions))
		for i, s := range e.Suggestions {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(quoted, ", "))
	}
	return msg
}

func (e *LookupError) Unwrap() error {
	return e.Kind
}
