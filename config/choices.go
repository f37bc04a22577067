package config

import (
	"fmt"
	"strconv"
)

// MaxArity bounds how many branches a dimension may declare. Branch
// indices must fit in a byte with room for a sign, so 127 is the cap.
const MaxArity = 127

// Choices declares the branch space of a dimension: either a bare
// arity or an explicit list of branch names.
type Choices struct {
	// Size is the declared arity when the branches are unnamed.
	Size int
	// Names holds the branch names, index position being the branch
	// index. Empty when Size is used.
	Names []string
}

// Sized reports whether the declaration is a bare arity.
func (c Choices) Sized() bool { return len(c.Names) == 0 }

// Arity returns the number of branches the declaration spans.
func (c Choices) Arity() int {
	if c.Sized() {
		return c.Size
	}
	return len(c.Names)
}

// IndexOf returns the branch index of a named choice, or -1.
func (c Choices) IndexOf(name string) int {
	for i, n := range c.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// UnmarshalYAML accepts either an integer arity or a sequence of
// branch names.
func (c *Choices) UnmarshalYAML(unmarshal func(any) error) error {
	var size int
	if err := unmarshal(&size); err == nil {
		if size < 1 || size > MaxArity {
			return fmt.Errorf("dimension size %d out of range [1, %d]", size, MaxArity)
		}
		*c = Choices{Size: size}
		return nil
	}

	var names []string
	if err := unmarshal(&names); err != nil {
		return fmt.Errorf("dimension must be a size or a list of branch names: %w", err)
	}
	if len(names) == 0 {
		return fmt.Errorf("dimension declares no branches")
	}
	if len(names) > MaxArity {
		return fmt.Errorf("dimension declares %d branches, more than %d", len(names), MaxArity)
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if !ValidIdentifier(n) {
			return fmt.Errorf("branch name %q is not a valid identifier", n)
		}
		if _, dup := seen[n]; dup {
			return fmt.Errorf("branch name %q declared twice", n)
		}
		seen[n] = struct{}{}
	}
	*c = Choices{Names: names}
	return nil
}

// ValidIdentifier reports whether s matches the identifier shape used
// for dimension and branch names.
func ValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// atoiIndex parses a decision index, rejecting values that do not fit
// the branch index space.
func atoiIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 || n >= 128 {
		return 0, &Error{Kind: OutOfRange, Message: fmt.Sprintf("decision index %d out of range [0, 127]", n)}
	}
	return n, nil
}
