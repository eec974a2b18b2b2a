package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text, color string
}{
	{"       _                                  ", "#818cf8"},
	{"      (_) ___  _   _ _ __ _ __   ___ _   _ ", "#a78bfa"},
	{"      | |/ _ \\| | | | '__| '_ \\ / _ \\ | | |", "#c084fc"},
	{"      | | (_) | |_| | |  | | | |  __/ |_| |", "#e879f9"},
	{"     _/ |\\___/ \\__,_|_|  |_| |_|\\___|\\__, |", "#f472b6"},
	{"    |__/                             |___/ ", "#fb7185"},
}

// PrintBanner writes the journey banner to w. Colors are dropped when w is
// not a color terminal.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("    v"+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}
