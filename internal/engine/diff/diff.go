// Package diff renders the flattened leaves of two values as a unified diff.
package diff

import (
	"fmt"
	"strconv"

	"github.com/pmezard/go-difflib/difflib"
	"go.trai.ch/quasi/internal/core/domain"
)

const contextLines = 3

// FormatLeaf renders a single leaf on one line.
// Strings are quoted and other values carry their type so that 1 and "1" differ visibly.
func FormatLeaf(v any) string {
	switch x := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return strconv.Quote(x)
	default:
		return fmt.Sprintf("%v (%T)", v, v)
	}
}

// Lines flattens v and renders one line per leaf, each ending in a newline.
func Lines(v any, opts ...domain.Option) ([]string, error) {
	lines := make([]string, 0)
	for leaf, err := range domain.Flatten(v, opts...) {
		if err != nil {
			return nil, err
		}
		lines = append(lines, FormatLeaf(leaf)+"\n")
	}
	return lines, nil
}

// Unified returns a unified diff from the leaves of x to the leaves of y.
// It returns "" when the rendered leaves are identical.
func Unified(from, to string, x, y any, opts ...domain.Option) (string, error) {
	a, err := Lines(x, opts...)
	if err != nil {
		return "", err
	}
	b, err := Lines(y, opts...)
	if err != nil {
		return "", err
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        a,
		B:        b,
		FromFile: from,
		ToFile:   to,
		Context:  contextLines,
		Eol:      "\n",
	})
}
