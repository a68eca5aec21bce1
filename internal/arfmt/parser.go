// Package arfmt implements spec.md §6.1's data model's textual
// counterpart: a small AR assembly format, parsed and printed with the
// teacher's participle/lexer toolkit repurposed from a source-language
// grammar to an already-AR textual dump (never a frontend from source
// or bitcode — that remains out of scope). It exists purely as test
// and debug tooling: building an *ar.Bundle fixture by hand in Go
// becomes unwieldy past a handful of statements, the same problem the
// teacher's internal/ir/printer.go's round-trippable dump solves for
// its own IR, generalized here to a full parser instead of one-way
// printing.
package arfmt

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"

	"arstatic/internal/ar"
)

var parser = participle.MustBuild[Program](
	participle.Lexer(ARLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(3),
)

// ParseString assembles a textual AR file's contents into an
// *ar.Bundle, named for diagnostics.
func ParseString(name, src string) (*ar.Bundle, error) {
	prog, err := parser.ParseString(name, src)
	if err != nil {
		reportParseError(src, err)
		return nil, err
	}
	return Assemble(name, prog)
}

// ParseFile reads path and assembles it the same way ParseString does.
func ParseFile(path string) (*ar.Bundle, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseString(path, string(src))
}

// reportParseError prints a caret-style syntax error, the same shape
// the teacher's grammar.reportParseError renders for its own language.
func reportParseError(src string, err error) {
	pe, ok := err.(participle.Error)
	if !ok {
		color.Red("unexpected error: %s", err)
		return
	}
	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		color.Red("syntax error at unknown location: %s", err)
		return
	}
	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", pos.Column-1) + "^"
	color.Red("syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column)
	fmt.Println(line)
	color.HiRed(caret)
	fmt.Printf("-> %s\n", pe.Message())
}
