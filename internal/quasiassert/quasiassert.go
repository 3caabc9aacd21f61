// Package quasiassert provides testify-style assertions based on quasi-equality.
package quasiassert

import (
	"fmt"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/quasi/internal/core/domain"
	"go.trai.ch/quasi/internal/engine/diff"
)

type tHelper interface {
	Helper()
}

// Equal asserts that expected and actual flatten to equal leaf sequences.
//
//	quasiassert.Equal(t, want, got)
func Equal(t assert.TestingT, expected, actual any, msgAndArgs ...any) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}

	m, err := domain.Compare(expected, actual)
	if err != nil {
		return assert.Fail(t, fmt.Sprintf("Cannot compare values: %v", err), msgAndArgs...)
	}
	if m.Equal {
		return true
	}

	msg := fmt.Sprintf("Not quasi-equal at leaf %d (%s):\n"+
		"expected: %s\n"+
		"actual  : %s", m.Index, m.Reason, describe(m.Left, m.Reason == domain.ReasonLeftShorter), describe(m.Right, m.Reason == domain.ReasonRightShorter))
	if d, err := Diff(expected, actual); err == nil && d != "" {
		msg += "\n\nDiff:\n" + d
	}
	return assert.Fail(t, msg, msgAndArgs...)
}

// NotEqual asserts that expected and actual are not quasi-equal.
func NotEqual(t assert.TestingT, expected, actual any, msgAndArgs ...any) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}

	eq, err := domain.Equal(expected, actual)
	if err != nil {
		return assert.Fail(t, fmt.Sprintf("Cannot compare values: %v", err), msgAndArgs...)
	}
	if eq {
		return assert.Fail(t, fmt.Sprintf("Should not be quasi-equal: %#v", actual), msgAndArgs...)
	}
	return true
}

// Diff returns a unified diff of the flattened leaves of expected and actual.
func Diff(expected, actual any) (string, error) {
	return diff.Unified("Expected", "Actual", expected, actual)
}

func describe(leaf any, missing bool) string {
	if missing {
		return "(no more leaves)"
	}
	return diff.FormatLeaf(leaf)
}
