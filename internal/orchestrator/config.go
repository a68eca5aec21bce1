package orchestrator

import (
	"flag"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"arstatic/internal/aerrors"
	"arstatic/internal/exec"
)

// Precision selects the set of tracked abstract dimensions (spec.md
// §6.2). New builds its exec.Executor with the matching exec.Precision
// level via execPrecision.
type Precision string

const (
	PrecisionRegister Precision = "register"
	PrecisionPointer  Precision = "pointer"
	PrecisionMemory   Precision = "memory"
)

// execPrecision maps the config's string-keyed level onto the exec
// package's native enum; an unrecognized value defaults to the
// strongest level rather than silently under-tracking.
func execPrecision(p Precision) exec.Precision {
	switch p {
	case PrecisionRegister:
		return exec.PrecisionRegister
	case PrecisionPointer:
		return exec.PrecisionPointer
	default:
		return exec.PrecisionMemory
	}
}

// ProgressMode selects how spec.md §5's progress frames are rendered.
type ProgressMode string

const (
	ProgressNone        ProgressMode = "none"
	ProgressLinear      ProgressMode = "linear"
	ProgressInteractive ProgressMode = "interactive"
	ProgressAuto        ProgressMode = "auto"
)

// Config is spec.md §6.2's orchestrator configuration: loaded from an
// optional YAML file via gopkg.in/yaml.v3, then overridden by CLI
// flags the way the teacher's main.go layers flags over file config.
type Config struct {
	EntryPoints         []string      `yaml:"entry_points"`
	UseFixpointCache    bool          `yaml:"use_fixpoint_cache"`
	TraceARStatements   bool          `yaml:"trace_ar_statements"`
	Precision           Precision     `yaml:"precision"`
	WideningDelay       int           `yaml:"widening_delay"`
	WideningPeriod      int           `yaml:"widening_period"`
	WideningStrategy    string        `yaml:"widening_strategy"`  // widen | join
	NarrowingStrategy   string        `yaml:"narrowing_strategy"` // narrow | meet
	NarrowingIterations int           `yaml:"narrowing_iterations"`
	WideningHints       map[string][]int64 `yaml:"widening_hints"` // cycle-head label -> threshold set
	Progress            ProgressMode  `yaml:"progress"`
	RunChecks           bool          `yaml:"run_checks"`
	MaxWorkers          int           `yaml:"max_workers"`
	PerFunctionTimeout  time.Duration `yaml:"per_function_timeout"`
	GlobalTimeout       time.Duration `yaml:"global_timeout"`
}

// DefaultConfig matches spec.md §6.2's stated defaults (entry_points
// defaults to "main") plus reasonable ambient defaults for the fields
// the spec leaves unconstrained.
func DefaultConfig() Config {
	return Config{
		EntryPoints:       []string{"main"},
		UseFixpointCache:  true,
		Precision:         PrecisionMemory,
		WideningDelay:     1,
		WideningPeriod:    1,
		WideningStrategy:  "widen",
		NarrowingStrategy: "narrow",
		Progress:          ProgressNone,
		RunChecks:         true,
		MaxWorkers:        0, // 0 means GOMAXPROCS, resolved by Orchestrator.Run
	}
}

// LoadConfig reads an optional YAML config file over DefaultConfig; a
// missing path is not an error — callers rely on flags/defaults alone.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.WithStack(&aerrors.DbError{Op: "read_config", Err: err})
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parsing orchestrator config")
	}
	return cfg, nil
}

// BindFlags registers flag.FlagSet overrides for every Config field a
// CLI invocation plausibly wants to override at the command line,
// layered on top of whatever the YAML file (or defaults) already set.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.UseFixpointCache, "use-fixpoint-cache", c.UseFixpointCache, "accepted but not read: the (call-site, callee) fixpoint result cache is always enabled")
	fs.BoolVar(&c.TraceARStatements, "trace-ar-statements", c.TraceARStatements, "accepted but not read: no per-statement debug stream is emitted")
	fs.StringVar((*string)(&c.Precision), "precision", string(c.Precision), "register | pointer | memory")
	fs.IntVar(&c.WideningDelay, "widening-delay", c.WideningDelay, "plain-join iterations before widening begins")
	fs.IntVar(&c.WideningPeriod, "widening-period", c.WideningPeriod, "widen every Nth iteration thereafter")
	fs.StringVar(&c.WideningStrategy, "widening-strategy", c.WideningStrategy, "widen | join")
	fs.StringVar(&c.NarrowingStrategy, "narrowing-strategy", c.NarrowingStrategy, "narrow | meet")
	fs.IntVar(&c.NarrowingIterations, "narrowing-iterations", c.NarrowingIterations, "0 means iterate to a narrowing fixpoint")
	fs.StringVar((*string)(&c.Progress), "progress", string(c.Progress), "none | linear | interactive | auto")
	fs.BoolVar(&c.RunChecks, "run-checks", c.RunChecks, "run the reference checker pass")
	fs.IntVar(&c.MaxWorkers, "max-workers", c.MaxWorkers, "0 means GOMAXPROCS")
	fs.DurationVar(&c.PerFunctionTimeout, "per-function-timeout", c.PerFunctionTimeout, "0 disables")
	fs.DurationVar(&c.GlobalTimeout, "global-timeout", c.GlobalTimeout, "0 disables")
}
