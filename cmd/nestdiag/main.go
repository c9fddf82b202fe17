// Command nestdiag prints and renders the default settings of the nested
// sampling results pipeline, and manages the cache of results tables.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/banshee-data/nestdiag/internal/config"
	"github.com/banshee-data/nestdiag/internal/estimators"
	"github.com/banshee-data/nestdiag/internal/labels"
	"github.com/banshee-data/nestdiag/internal/plotting"
	"github.com/banshee-data/nestdiag/internal/resultsdb"
	"github.com/banshee-data/nestdiag/internal/settings"
	"github.com/banshee-data/nestdiag/internal/version"
)

const defaultDBPath = "results_cache.db"

var errUsage = errors.New("usage")

func main() {
	log.SetFlags(0)
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		if errors.Is(err, errUsage) {
			log.Print(err)
			printUsage(os.Stderr)
			os.Exit(2)
		}
		log.Fatalf("nestdiag: %v", err)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `Usage: nestdiag <command> [flags]

Commands:
  grid        print the (ndim, nlive, nrepeats) run configurations as CSV
  limits      print default plot limits for a likelihood as JSON, optionally rendering them
  estimators  print the default estimator list
  plot        render the run configuration grid (.png, .svg, .pdf or .html)
  evaluate    compute the default estimators for run files and cache the table
  cache       list cached results tables, or print one as CSV
  version     print build information

Run "nestdiag <command> -h" for command flags.`)
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) < 1 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "grid":
		return runGrid(rest, stdout)
	case "limits":
		return runLimits(rest, stdout)
	case "estimators":
		return runEstimators(rest, stdout)
	case "plot":
		return runPlot(rest)
	case "evaluate":
		return runEvaluate(ctx, rest)
	case "cache":
		return runCache(ctx, rest, stdout)
	case "version":
		fmt.Fprintln(stdout, version.String())
		return nil
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// sweepFlags are the grid overrides shared by grid and plot.
type sweepFlags struct {
	configPath string
	nd, nl, nr string
}

func (f *sweepFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "JSON sweep config file (see "+config.DefaultConfigPath+")")
	fs.StringVar(&f.nd, "nd", "", "ndim values: comma list or min:max:step (overrides config)")
	fs.StringVar(&f.nl, "nl", "", "nlive values: comma list or min:max:step (overrides config)")
	fs.StringVar(&f.nr, "nr", "", "nrepeats values: comma list or min:max:step (overrides config)")
}

// load reads the config file if given and applies list overrides.
func (f *sweepFlags) load() (*config.SweepConfig, error) {
	cfg := config.EmptySweepConfig()
	if f.configPath != "" {
		var err error
		if cfg, err = config.LoadSweepConfig(f.configPath); err != nil {
			return nil, err
		}
	}
	overrides := []struct {
		name string
		spec string
		dst  *[]int
	}{
		{"nd", f.nd, &cfg.NDims},
		{"nl", f.nl, &cfg.NLives},
		{"nr", f.nr, &cfg.NRepeats},
	}
	for _, o := range overrides {
		vals, err := settings.ParseIntList(o.spec)
		if err != nil {
			return nil, fmt.Errorf("-%s: %w", o.name, err)
		}
		if vals != nil {
			*o.dst = vals
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runGrid(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("grid", flag.ContinueOnError)
	var sf sweepFlags
	sf.register(fs)
	format := fs.String("format", "csv", "Output format: csv or json")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := sf.load()
	if err != nil {
		return err
	}
	grid := settings.BuildGrid(cfg.GridOptions())

	switch *format {
	case "csv":
		w := csv.NewWriter(stdout)
		w.Write([]string{"ndim", "nlive", "nrepeats"})
		for _, c := range grid {
			w.Write([]string{strconv.Itoa(c.NDim), strconv.Itoa(c.NLive), strconv.Itoa(c.NRepeats)})
		}
		w.Flush()
		return w.Error()
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(grid)
	default:
		return fmt.Errorf("unknown format %q (expected csv or json)", *format)
	}
}

func runLimits(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("limits", flag.ContinueOnError)
	configPath := fs.String("config", "", "JSON sweep config file providing likelihood, ndim and plot size")
	like := fs.String("like", "", "Likelihood name (default from config, else Gaussian)")
	ndim := fs.Int("ndim", 0, "Number of dimensions (default from config, else 20)")
	out := fs.String("out", "", "Also render the limited axes to this file (.png, .svg or .pdf)")
	xLabel := fs.String("x", labels.Param(0), "x axis label for -out")
	yLabel := fs.String("y", labels.NormBold, "y axis label for -out")
	if err := fs.Parse(args); err != nil {
		return err
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg := config.EmptySweepConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadSweepConfig(*configPath); err != nil {
			return err
		}
	}
	likeName := cfg.GetLikelihood()
	if set["like"] {
		likeName = *like
	}
	nd := cfg.GetNDim()
	if set["ndim"] {
		nd = *ndim
	}

	lims, err := settings.DefaultLimits(likeName, nd)
	if err != nil {
		return err
	}
	if *out != "" {
		if err := plotting.SaveLimitsPlot(likeName, lims, *xLabel, *yLabel, *out, cfg.GetPlotWidthCm(), cfg.GetPlotHeightCm()); err != nil {
			return err
		}
	}

	res := struct {
		Likelihood string          `json:"likelihood"`
		NDim       int             `json:"ndim"`
		LogXMin    float64         `json:"logx_min"`
		Limits     settings.Limits `json:"limits"`
	}{likeName, nd, settings.DefaultLogXMin(likeName, nd), lims}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(res)
}

func runEstimators(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("estimators", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	w := csv.NewWriter(stdout)
	w.Comma = '\t'
	for i, e := range estimators.DefaultList() {
		w.Write([]string{strconv.Itoa(i), e.Key, e.Name})
	}
	w.Flush()
	return w.Error()
}

func runPlot(args []string) error {
	fs := flag.NewFlagSet("plot", flag.ContinueOnError)
	var sf sweepFlags
	sf.register(fs)
	out := fs.String("out", "grid.png", "Output file; the extension selects the format")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := sf.load()
	if err != nil {
		return err
	}
	grid := settings.BuildGrid(cfg.GridOptions())

	if !plotting.IsHTML(*out) {
		return plotting.SaveGridPlot(grid, *out, cfg.GetPlotWidthCm(), cfg.GetPlotHeightCm())
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", *out, err)
	}
	if err := plotting.WriteGridHTML(f, grid); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("wrote %s (%d configurations)", *out, len(grid))
	return nil
}

// keyFlags select one cached table.
type keyFlags struct {
	like                  string
	ndim, nlive, nrepeats int
}

func (f *keyFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.like, "like", settings.LikeGaussian, "Likelihood name")
	fs.IntVar(&f.ndim, "ndim", settings.Baseline.NDim, "Number of dimensions")
	fs.IntVar(&f.nlive, "nlive", settings.Baseline.NLive, "Number of live points")
	fs.IntVar(&f.nrepeats, "nrepeats", settings.Baseline.NRepeats, "Number of slice sampling repeats")
}

func (f *keyFlags) key() resultsdb.Key {
	return resultsdb.Key{
		Likelihood: f.like,
		Config:     settings.Config{NDim: f.ndim, NLive: f.nlive, NRepeats: f.nrepeats},
	}
}

func runEvaluate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	dbPath := fs.String("db", defaultDBPath, "Results cache database")
	var kf keyFlags
	kf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: evaluate needs at least one run JSON file", errUsage)
	}

	list := estimators.DefaultList()
	rows := make([][]float64, 0, fs.NArg())
	for _, path := range fs.Args() {
		r, err := readRun(path)
		if err != nil {
			return err
		}
		vals, err := estimators.Evaluate(r, list)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		rows = append(rows, vals)
	}

	db, err := resultsdb.Open(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.SaveTable(ctx, kf.key(), estimators.Names(list), rows)
	return err
}

func readRun(path string) (*estimators.Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read run file: %w", err)
	}
	var r estimators.Run
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse run file %s: %w", path, err)
	}
	return &r, nil
}

func runCache(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("cache", flag.ContinueOnError)
	dbPath := fs.String("db", defaultDBPath, "Results cache database")
	show := fs.Bool("show", false, "Print the table selected by -like/-ndim/-nlive/-nrepeats")
	var kf keyFlags
	kf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := resultsdb.Open(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	w := csv.NewWriter(stdout)
	if !*show {
		keys, err := db.ListTables(ctx)
		if err != nil {
			return err
		}
		w.Write([]string{"likelihood", "ndim", "nlive", "nrepeats"})
		for _, k := range keys {
			w.Write([]string{k.Likelihood, strconv.Itoa(k.NDim), strconv.Itoa(k.NLive), strconv.Itoa(k.NRepeats)})
		}
		w.Flush()
		return w.Error()
	}

	names := estimators.Names(estimators.DefaultList())
	rows, err := db.LoadTable(ctx, kf.key(), names)
	if err != nil {
		return err
	}
	w.Write(names)
	for _, row := range rows {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		w.Write(rec)
	}
	w.Flush()
	return w.Error()
}
