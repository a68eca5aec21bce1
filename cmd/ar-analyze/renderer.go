package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"arstatic/internal/progress"
)

// linearRenderer is the CLI's sole progress.Renderer implementation —
// the core packages never import one (internal/progress's own doc
// comment), so it lives here, next to main, the way the teacher keeps
// output formatting in its cmd/ binaries rather than its grammar/
// internal packages.
type linearRenderer struct {
	depth int
}

func (r *linearRenderer) Render(f progress.Frame) {
	switch f.Kind {
	case progress.CallFrame:
		fmt.Printf("%s%s\n", strings.Repeat("  ", r.depth), color.CyanString("-> %s", f.Function))
		r.depth++
	case progress.PopFrame:
		if r.depth > 0 {
			r.depth--
		}
	case progress.CycleFrame:
		dir := "increasing"
		if f.Direction == progress.Decreasing {
			dir = "decreasing"
		}
		fmt.Printf("%s%s\n", strings.Repeat("  ", r.depth),
			color.HiBlackString("cycle head=%d iter=%d (%s)", f.CycleHead, f.Iteration, dir))
	}
}

func (r *linearRenderer) Finish() {
	color.HiBlack("analysis complete")
}
