package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`   ___                _               `, "#f59e0b"},
	{`  / __|___ _ _  __ __(_)___ _ _ __ _ ___`, "#f97316"},
	{` | (__/ _ \ ' \/ _/ -_) / -_) '_/ _' / -_)`, "#ef4444"},
	{`  \___\___/_||_\__\___|_\___|_| \__, \___|`, "#ec4899"},
	{`                                |___/    `, "#d946ef"},
}

// PrintBanner writes the startup banner, colored when the output supports it.
func PrintBanner(w io.Writer) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, out.String(line.text).Foreground(out.Color(line.color)))
	}
	fmt.Fprintln(w)
}
