package config

import (
	"strconv"
	"strings"
)

// Index is the right-hand side of a 'dim=idx' decision: either a
// numeric branch index or a branch name.
type Index struct {
	// Num is the branch index when Named is false.
	Num int
	// Name is the branch name when Named is true.
	Name  string
	Named bool
}

// NumIndex builds a numeric index.
func NumIndex(n int) Index { return Index{Num: n} }

// NameIndex builds a named index.
func NameIndex(name string) Index { return Index{Name: name, Named: true} }

func (i Index) String() string {
	if i.Named {
		return i.Name
	}
	return strconv.Itoa(i.Num)
}

// Decision is one command-line decision: a bare choice name that
// selects whatever dimension declares it, or an explicit
// dimension=index pair.
type Decision struct {
	// Dim is the dimension name for pair decisions, empty for bare
	// ones.
	Dim string
	// Choice is the bare choice name, or the pair's index.
	Choice Index
}

// Bare reports whether the decision names a choice without a
// dimension.
func (d Decision) Bare() bool { return d.Dim == "" }

func (d Decision) String() string {
	if d.Bare() {
		return d.Choice.String()
	}
	return d.Dim + "=" + d.Choice.String()
}

// ParseDecision parses one command-line decision argument.
//
// Accepted shapes are 'choice', 'dim=n' with n a natural below 128,
// and 'dim=branch'. Anything else is a config error.
func ParseDecision(arg string) (Decision, error) {
	if eq := strings.IndexByte(arg, '='); eq >= 0 {
		dim, idx := arg[:eq], arg[eq+1:]
		if !ValidIdentifier(dim) {
			return Decision{}, errorf(InvalidIdentifier, "%q is not a valid dimension name", dim)
		}
		if idx == "" {
			return Decision{}, errorf(InvalidChoice, "decision '%s=' names no branch", dim)
		}
		if isNumeric(idx) {
			n, err := atoiIndex(idx)
			if err != nil {
				return Decision{}, err
			}
			return Decision{Dim: dim, Choice: NumIndex(n)}, nil
		}
		if !ValidIdentifier(idx) {
			return Decision{}, errorf(InvalidIdentifier, "%q is not a valid branch name", idx)
		}
		return Decision{Dim: dim, Choice: NameIndex(idx)}, nil
	}

	if !ValidIdentifier(arg) {
		return Decision{}, errorf(InvalidIdentifier, "%q is not a valid choice name", arg)
	}
	return Decision{Choice: NameIndex(arg)}, nil
}

// ParseDecisions parses every argument, collecting all errors before
// giving up so the user sees the full list at once.
func ParseDecisions(args []string) ([]Decision, []error) {
	var (
		decisions []Decision
		errs      []error
	)
	for _, arg := range args {
		d, err := ParseDecision(arg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		decisions = append(decisions, d)
	}
	return decisions, errs
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
