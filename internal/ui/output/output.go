// Package output creates termenv outputs that honour NO_COLOR.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// ColorProfile returns Ascii when NO_COLOR is set and the detected terminal profile otherwise.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// New creates an output for w using ColorProfile. A nil w writes to stdout.
func New(w io.Writer) *termenv.Output {
	return NewWithProfile(w, ColorProfile())
}

// NewWithProfile creates an output for w with a fixed profile.
func NewWithProfile(w io.Writer, profile termenv.Profile) *termenv.Output {
	if w == nil {
		w = os.Stdout
	}
	return termenv.NewOutput(w, termenv.WithProfile(profile), termenv.WithTTY(true))
}

// Paint renders s in the given lipgloss hex colour.
func Paint(out *termenv.Output, s string, hex string) string {
	return out.String(s).Foreground(termenv.RGBColor(hex)).String()
}
