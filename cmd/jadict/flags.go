package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/heartmarshall/kobo-jadict/internal/config"
)

const defaultTimeout = 30 * time.Minute

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// cliFlags holds parsed command-line values. Only flags that were set
// explicitly override the loaded configuration.
type cliFlags struct {
	configPath string
	output     string
	version    bool
	timeout    time.Duration

	jmdict      string
	pitchAccent string
	koboJaDict  string
	yomichan    stringList
	katakana    bool
	moveTerms   bool
	sortMode    string
	workers     int
	format      string
	exportPG    bool
	name        string

	set map[string]bool
}

func parseArgs(args []string) (*cliFlags, error) {
	var c cliFlags
	fs := flag.NewFlagSet("jadict", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&c.configPath, "config", "", "path to YAML config file (default: CONFIG_PATH or ./config.yaml)")
	fs.BoolVar(&c.version, "version", false, "print version and exit")
	fs.DurationVar(&c.timeout, "timeout", defaultTimeout, "abort the build after this long")

	fs.StringVar(&c.jmdict, "jmdict", "", "path to the JMdict XML file (required)")
	fs.StringVar(&c.pitchAccent, "pitch-accent", "", "path to the pitch accent TSV file")
	fs.StringVar(&c.koboJaDict, "kobo-ja-dict", "", "path to a Kobo Japanese-Japanese dicthtml file")
	fs.Var(&c.yomichan, "yomichan", "path to a Yomichan dictionary archive (repeatable)")
	fs.BoolVar(&c.katakana, "katakana", false, "display readings in katakana instead of hiragana")
	fs.BoolVar(&c.moveTerms, "use-move-terms", false, `label transitivity as "other-move"/"self-move"`)
	fs.StringVar(&c.sortMode, "sort", "", "entry order: priority or length")
	fs.IntVar(&c.workers, "workers", 0, "concurrent entry synthesis (0 = GOMAXPROCS)")
	fs.StringVar(&c.format, "format", "", "output format: kobo or text")
	fs.BoolVar(&c.exportPG, "export-postgres", false, "also export entries to DATABASE_DSN")
	fs.StringVar(&c.name, "name", "", "dictionary name used for the database export")

	fs.Usage = func() {}
	if err := fs.Parse(args); err != nil {
		return nil, usageError(fs, err)
	}

	c.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { c.set[f.Name] = true })

	switch fs.NArg() {
	case 0:
		if !c.version {
			return nil, usageError(fs, fmt.Errorf("missing OUTPUT argument"))
		}
	case 1:
		c.output = fs.Arg(0)
	default:
		return nil, usageError(fs, fmt.Errorf("unexpected arguments: %v", fs.Args()[1:]))
	}

	return &c, nil
}

// apply overrides cfg with explicitly set flags.
func (c *cliFlags) apply(cfg *config.Config) {
	if c.output != "" {
		cfg.Output.Path = c.output
	}
	if c.set["jmdict"] {
		cfg.Sources.JMdict = c.jmdict
	}
	if c.set["pitch-accent"] {
		cfg.Sources.PitchAccent = c.pitchAccent
	}
	if c.set["kobo-ja-dict"] {
		cfg.Sources.KoboJaDict = c.koboJaDict
	}
	if c.set["yomichan"] {
		cfg.Sources.Yomichan = c.yomichan
	}
	if c.set["katakana"] {
		cfg.Render.Katakana = c.katakana
	}
	if c.set["use-move-terms"] {
		cfg.Render.MoveTerms = c.moveTerms
	}
	if c.set["sort"] {
		cfg.Build.SortMode = c.sortMode
	}
	if c.set["workers"] {
		cfg.Build.Workers = c.workers
	}
	if c.set["format"] {
		cfg.Output.Format = c.format
	}
	if c.set["name"] {
		cfg.Output.Name = c.name
	}
	if c.set["export-postgres"] {
		cfg.Database.Export = c.exportPG
	}
}

func usageError(fs *flag.FlagSet, err error) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%v\n\nUsage: jadict [flags] OUTPUT\n\nFlags:\n", err)
	fs.SetOutput(&b)
	fs.PrintDefaults()
	return fmt.Errorf("%s", strings.TrimRight(b.String(), "\n"))
}
