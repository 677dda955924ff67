package lexcalc

import (
	"errors"
	"sort"
	"strconv"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Error categories. Every error returned by the package wraps exactly one of
// these, so callers can test with errors.Is.
var (
	ErrLex         = errors.New("invalid token")
	ErrParse       = errors.New("syntax error")
	ErrUndefined   = errors.New("undefined identifier")
	ErrArity       = errors.New("wrong argument count")
	ErrParamRange  = errors.New("parameter out of range")
	ErrUnsupported = errors.New("unsupported operator")
)

// UndefinedError is an error from linking a name that is neither a parameter
// nor defined in the context.
type UndefinedError struct {
	// Name is the name that was missing.
	Name string
	// Func is whether the name was used as a function.
	Func bool
	// Suggestion is a defined name similar to Name, or empty if there is none.
	Suggestion string
}

func (err *UndefinedError) Error() string {
	s := "undefined variable: "
	if err.Func {
		s = "undefined function: "
	}
	s += strconv.Quote(err.Name)
	if err.Suggestion != "" {
		s += " (did you mean " + strconv.Quote(err.Suggestion) + "?)"
	}
	return s
}

func (err *UndefinedError) Unwrap() error {
	return ErrUndefined
}

// ArityError is an error from calling or redefining a function with the wrong
// number of arguments.
type ArityError struct {
	// Name is the function name.
	Name string
	// Want is the function's parameter count.
	Want int
	// Got is the number of arguments supplied.
	Got int
}

func (err *ArityError) Error() string {
	return "wrong argument count for " + strconv.Quote(err.Name) + ": expected " + strconv.Itoa(err.Want) + ", got " + strconv.Itoa(err.Got)
}

func (err *ArityError) Unwrap() error {
	return ErrArity
}

// ParamRangeError is an error from substituting a parameter that has no
// corresponding argument. After successful linking, it indicates a bug.
type ParamRangeError struct {
	// Index is the parameter index.
	Index int
	// Len is the number of arguments available.
	Len int
}

func (err *ParamRangeError) Error() string {
	return "no argument for parameter $" + strconv.Itoa(err.Index) + " among " + strconv.Itoa(err.Len)
}

func (err *ParamRangeError) Unwrap() error {
	return ErrParamRange
}

// UnsupportedError is an error from differentiating an operator that has no
// derivative rule.
type UnsupportedError struct {
	Op Op
}

func (err *UnsupportedError) Error() string {
	return "no derivative rule for " + strconv.Quote(err.Op.String())
}

func (err *UnsupportedError) Unwrap() error {
	return ErrUnsupported
}

// suggest finds the candidate closest to name, or the empty string if none is
// close. Abbreviations are preferred, then small edit distances.
func suggest(name string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) > 0 {
		sort.Stable(ranks)
		return ranks[0].Target
	}
	best, dist := "", len(name)/3+1
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(name, c); d <= dist && (best == "" || d < dist) {
			best, dist = c, d
		}
	}
	return best
}
