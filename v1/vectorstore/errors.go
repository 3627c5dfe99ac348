package vectorstore

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration is matched by every *ConfigurationError.
	ErrConfiguration = errors.New("vectorstore: invalid configuration")

	// ErrConstructionMisuse is returned by every operation on a Store that
	// was not built by Create.
	ErrConstructionMisuse = errors.New("vectorstore: store must be created with vectorstore.Create")

	// ErrUnsupportedDialect is returned by search operations on engines whose
	// database has no vector distance operators.
	ErrUnsupportedDialect = errors.New("vectorstore: operation not supported by this database dialect")
)

// ConfigurationError applies to a column setting that is invalid,
// missing or conflicting, or to inputs whose counts do not line up. It is always
// returned before any row is written.
type ConfigurationError struct {
	// Column is the offending column or argument, if any.
	Column string
	// Actual is what was found, e.g. the declared type.
	Actual string
	// Expected is what was required, e.g. a type class.
	Expected string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("vectorstore: ")
	if e.Column != "" {
		fmt.Fprintf(&b, "column %q: ", e.Column)
	}
	b.WriteString(e.Reason)
	if e.Expected != "" || e.Actual != "" {
		fmt.Fprintf(&b, " (expected %s, got %s)", orNone(e.Expected), orNone(e.Actual))
	}
	return b.String()
}

// Is makes errors.Is(err, ErrConfiguration) hold.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func configErr(column, reason string) *ConfigurationError {
	return &ConfigurationError{Column: column, Reason: reason}
}

func typeErr(column, actual, expected string) *ConfigurationError {
	return &ConfigurationError{
		Column:   column,
		Actual:   actual,
		Expected: expected,
		Reason:   "column has the wrong type",
	}
}
