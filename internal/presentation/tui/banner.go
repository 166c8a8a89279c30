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
	{`             _                `, "#bbf7d0"},
	{`  __ _ _ __| |__   ___  _ __ `, "#86efac"},
	{` / _' | '__| '_ \ / _ \| '__|`, "#4ade80"},
	{`| (_| | |  | |_) | (_) | |   `, "#22c55e"},
	{` \__,_|_|  |_.__/ \___/|_|   `, "#16a34a"},
}

// PrintBanner writes the arbor ASCII banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.EnvColorProfile()

	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, termenv.String(line.text).Foreground(p.Color(line.color)))
	}
	fmt.Fprintln(w)
}
