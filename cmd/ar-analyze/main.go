// Package main is the ambient CLI entry point for the analysis core:
// parse a textual AR file, run the orchestrator over it, print a
// colored summary the way the teacher's cmd/kanso-cli/main.go reports
// a parse, and optionally persist per-finding detail as JSONL.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"arstatic/internal/aerrors"
	"arstatic/internal/arfmt"
	"arstatic/internal/callctx"
	"arstatic/internal/checker"
	"arstatic/internal/orchestrator"
	"arstatic/internal/progress"
	"arstatic/internal/report"
)

// Exit codes: 0 success with no error-level findings, 1 usage/parse/
// config failure, 2 at least one checker reported Error, 3 at least
// one entry point's analysis itself failed (a fatal aerrors.* fault).
const (
	exitOK = iota
	exitUsage
	exitFindings
	exitEntryFailure
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// YAML config, if any, must be loaded before flags are bound to it
	// so flags override the file rather than the reverse (the same
	// layering spec.md §6.2 asks for) — so -config is prescanned here
	// without triggering "flag not defined" on every other orchestrator
	// flag, which isn't registered yet at this point.
	cfg, err := orchestrator.LoadConfig(prescanConfigFlag(args))
	if err != nil {
		color.Red("failed to load config: %s", err)
		return exitUsage
	}

	fs := flag.NewFlagSet("ar-analyze", flag.ContinueOnError)
	fs.String("config", "", "optional YAML orchestrator config (already consumed above)")
	entries := fs.String("entry", "", "comma-separated entry point names, overriding config")
	jsonlPath := fs.String("jsonl", "", "optional path to stream per-finding JSONL output")
	cfg.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() < 1 {
		fmt.Println("Usage: ar-analyze [flags] <file.ar>")
		fs.PrintDefaults()
		return exitUsage
	}
	path := fs.Arg(0)

	if *entries != "" {
		cfg.EntryPoints = strings.Split(*entries, ",")
	}

	bundle, err := arfmt.ParseFile(path)
	if err != nil {
		// arfmt.ParseFile already printed a caret-style diagnostic.
		return exitUsage
	}

	var sink *report.MemorySink
	var jsonlFile *os.File
	if *jsonlPath != "" {
		jsonlFile, err = os.Create(*jsonlPath)
		if err != nil {
			color.Red("failed to create %s: %s", *jsonlPath, err)
			return exitUsage
		}
		defer jsonlFile.Close()
		sink = report.NewJSONLSink(jsonlFile)
	}

	reporter, closeReporter := buildProgressReporter(cfg.Progress)
	defer closeReporter()

	o := orchestrator.New(bundle, cfg, reporter)
	summary := o.Run(context.Background())

	if sink != nil {
		if err := persistFindings(sink, o.Findings()); err != nil {
			color.Red("failed to persist findings: %s", err)
		}
	}

	printSummary(summary)
	printFindingDiagnostics(path, o.Findings())

	for _, e := range summary.Entries {
		if e.Err != nil {
			return exitEntryFailure
		}
	}
	if hasErrorFinding(summary) {
		return exitFindings
	}
	return exitOK
}

// prescanConfigFlag finds -config/--config's value (joined or
// separate-argument form) without parsing the rest of args, since the
// full orchestrator flag set isn't registered until after the config
// file it would override has been loaded.
func prescanConfigFlag(args []string) string {
	for i, a := range args {
		switch {
		case a == "-config" || a == "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, "-config="):
			return strings.TrimPrefix(a, "-config=")
		case strings.HasPrefix(a, "--config="):
			return strings.TrimPrefix(a, "--config=")
		}
	}
	return ""
}

func hasErrorFinding(summary orchestrator.Summary) bool {
	for _, byResult := range summary.Totals {
		if byResult["error"] > 0 {
			return true
		}
	}
	return false
}

func printSummary(summary orchestrator.Summary) {
	names := make([]string, 0, len(summary.Totals))
	for name := range summary.Totals {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		counts := summary.Totals[name]
		fmt.Printf("%s: ", name)
		parts := make([]string, 0, 4)
		for _, result := range []string{"ok", "warning", "error", "unreachable"} {
			if n := counts[result]; n > 0 {
				parts = append(parts, colorForResult(result, n))
			}
		}
		fmt.Println(strings.Join(parts, ", "))
	}

	for _, w := range summary.Warnings {
		color.Yellow("warning: %s", w)
	}

	for _, e := range summary.Entries {
		if e.Err != nil {
			color.Red("entry %s failed: %s", e.Function, e.Err)
			continue
		}
		color.Green("entry %s analyzed (returns=%v)", e.Function, e.HasReturn)
	}
}

// printFindingDiagnostics renders every warning/error Finding as a
// caret-style source diagnostic, the way the teacher's own CLI reports
// a parse failure — built from the same Finding data persistFindings
// already flattens to a CheckResultRow, just routed through
// aerrors.ErrorReporter instead of JSON.
func printFindingDiagnostics(path string, findings []checker.Finding) {
	var reporter *aerrors.ErrorReporter
	if src, err := os.ReadFile(path); err == nil {
		reporter = aerrors.NewErrorReporter(path, string(src))
	}
	for _, f := range findings {
		if f.Result != checker.Warning && f.Result != checker.Error {
			continue
		}
		level := aerrors.Warning
		if f.Result == checker.Error {
			level = aerrors.Error
		}
		ce := aerrors.CompilerError{
			Level:    level,
			Message:  fmt.Sprintf("%s: %s in %s", f.Checker, f.Result, f.Function),
			Location: f.Location,
			Length:   1,
			Notes:    findingNotes(f),
		}
		if reporter != nil {
			fmt.Print(reporter.FormatError(ce))
			continue
		}
		fmt.Printf("%s[%s]: %s (%s:%d:%d)\n", ce.Level, f.Checker, ce.Message, path, f.Location.Line, f.Location.Column)
	}
}

// findingNotes turns a Finding's free-form Info map into the Notes a
// CompilerError renders below the caret, in stable key order.
func findingNotes(f checker.Finding) []string {
	keys := make([]string, 0, len(f.Info))
	for k := range f.Info {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	notes := make([]string, 0, len(keys))
	for _, k := range keys {
		notes = append(notes, fmt.Sprintf("%s: %v", k, f.Info[k]))
	}
	if f.CallContext != nil {
		notes = append(notes, fmt.Sprintf("call context: depth %d, sites %v",
			callctx.Depth(f.CallContext), callctx.Sites(f.CallContext)))
	}
	return notes
}

func colorForResult(result string, n int) string {
	text := fmt.Sprintf("%d %s", n, result)
	switch result {
	case "error":
		return color.RedString(text)
	case "warning":
		return color.YellowString(text)
	case "unreachable":
		return color.HiBlackString(text)
	default:
		return color.GreenString(text)
	}
}

// persistFindings writes every recorded checker verdict as a
// CheckResultRow, batched at report.MaxBatchRows per commit (spec.md
// §6.4); call-context and operand side tables are left to a future
// concrete checker layer that actually needs to join back to them.
func persistFindings(sink report.Sink, findings []checker.Finding) error {
	rows := make([]report.CheckResultRow, 0, len(findings))
	for _, f := range findings {
		infoJSON := ""
		if len(f.Info) > 0 {
			b, err := json.Marshal(f.Info)
			if err == nil {
				infoJSON = string(b)
			}
		}
		rows = append(rows, report.CheckResultRow{
			ID:          report.NewID(),
			CheckerName: f.Checker,
			Result:      f.Result.String(),
			Function:    f.Function,
			File:        f.Location.File,
			Line:        f.Location.Line,
			Column:      f.Location.Column,
			StatementID: uint64(f.StatementID),
			InfoJSON:    infoJSON,
		})
		if len(rows) == report.MaxBatchRows {
			if err := sink.WriteCheckResults(rows); err != nil {
				return err
			}
			rows = rows[:0]
		}
	}
	if len(rows) > 0 {
		if err := sink.WriteCheckResults(rows); err != nil {
			return err
		}
	}
	return sink.Close()
}

// buildProgressReporter wires spec.md §5's progress frames to a linear
// renderer when requested; "interactive" degrades to the same linear
// renderer since the teacher's stack carries no TUI library to ground
// a richer one on (documented in DESIGN.md). The returned func always
// stops the worker cleanly, a no-op when progress is disabled.
func buildProgressReporter(mode orchestrator.ProgressMode) (progress.Reporter, func()) {
	switch mode {
	case orchestrator.ProgressLinear, orchestrator.ProgressInteractive, orchestrator.ProgressAuto:
		w := progress.NewWorker(&linearRenderer{}, 256)
		return w, w.Close
	default:
		return progress.NoopReporter{}, func() {}
	}
}
