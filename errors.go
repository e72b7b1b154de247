package remez

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-fir-remez/internal/engine"
)

// Design errors. Every failure returned by this package wraps one of these,
// so callers can branch with errors.Is.
var (
	// ErrInvalidSpecification indicates bands or parameters that cannot be
	// turned into a grid.
	ErrInvalidSpecification = errors.New("invalid filter specification")

	// ErrExtremalSearch indicates an iteration found fewer than L+2
	// alternating extrema, usually an order too low for the bands.
	ErrExtremalSearch = engine.ErrExtremalSearch

	// ErrNotConverged indicates the exchange hit its iteration cap.
	ErrNotConverged = engine.ErrNotConverged

	// ErrRippleExceeded indicates a converged design whose deviation breaks
	// a band's ripple tolerance. It wraps ErrNotConverged.
	ErrRippleExceeded = fmt.Errorf("%w: ripple tolerance exceeded", ErrNotConverged)
)

// ErrorKind classifies a DesignError.
type ErrorKind int

const (
	KindInvalidSpecification ErrorKind = iota + 1
	KindExtremalSearch
	KindNotConverged
	KindRippleExceeded
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidSpecification:
		return "invalid specification"
	case KindExtremalSearch:
		return "extremal search failure"
	case KindNotConverged:
		return "not converged"
	case KindRippleExceeded:
		return "ripple exceeded"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindInvalidSpecification:
		return ErrInvalidSpecification
	case KindExtremalSearch:
		return ErrExtremalSearch
	case KindRippleExceeded:
		return ErrRippleExceeded
	default:
		return ErrNotConverged
	}
}

// DesignError is the typed failure of a design.
type DesignError struct {
	Kind ErrorKind

	// Order is the filter order of the failed specification.
	Order int

	// Iteration is the exchange pass the failure was detected in, 0 when
	// the design never started iterating.
	Iteration int

	// Found and Required count extremal points for KindExtremalSearch.
	Found    int
	Required int

	// Band is the offending band index for KindRippleExceeded, else -1.
	Band int

	Cause error
}

func (e *DesignError) Error() string {
	msg := fmt.Sprintf("remez: %s (order %d", e.Kind, e.Order)
	if e.Iteration > 0 {
		msg += fmt.Sprintf(", iteration %d", e.Iteration)
	}
	if e.Kind == KindExtremalSearch {
		msg += fmt.Sprintf(", found %d of %d extrema", e.Found, e.Required)
	}
	if e.Kind == KindRippleExceeded && e.Band >= 0 {
		msg += fmt.Sprintf(", band %d", e.Band)
	}
	msg += ")"
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes both the kind's sentinel and the underlying cause.
func (e *DesignError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Cause}
}

func invalidSpec(order int, cause error) *DesignError {
	return &DesignError{Kind: KindInvalidSpecification, Order: order, Band: -1, Cause: cause}
}

// fromEngine converts an engine failure into a DesignError.
func fromEngine(order int, err error) *DesignError {
	de := &DesignError{Kind: KindNotConverged, Order: order, Band: -1, Cause: err}

	var ierr *engine.IterationError
	if errors.As(err, &ierr) {
		de.Iteration = ierr.Iteration
		de.Found = ierr.Found
		de.Required = ierr.Required
	}
	if errors.Is(err, engine.ErrExtremalSearch) {
		de.Kind = KindExtremalSearch
	}
	return de
}
