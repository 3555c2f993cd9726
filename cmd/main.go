package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/stsnsn/quickARSC/internal/config"
	"github.com/stsnsn/quickARSC/internal/detect"
	"github.com/stsnsn/quickARSC/internal/genepred"
	"github.com/stsnsn/quickARSC/internal/pipeline"
	"github.com/stsnsn/quickARSC/internal/report"
)

// version is the program version. It can be overridden at build time with -ldflags "-X main.version=..."
var version = "0.3.0"

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

// errUsage marks command-line misuse.
var errUsage = errors.New("usage")

type options struct {
	input      string
	output     string
	configPath string
	threads    int
	decimals   int
	perSeq     bool
	aaComp     bool
	stats      bool
	minLength  int
	maxLength  int
	nucleotide bool
	noAuto     bool
	noHeader   bool
	prodigal   string
	progress   bool
	verbose    bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:   "quickarsc [flags] [input]",
		Short: "Compute N/C/S-ARSC and average residue molecular weight from FASTA files",
		Long: titleStyle.Render("quickARSC "+version) + `

Computes atomic residue-specific composition (N-ARSC, C-ARSC, S-ARSC) and the
average residue molecular weight of protein FASTA files. Nucleotide input is
detected automatically and translated with prodigal before the computation.

Input is a single .faa/.fna/.ffn/.fa/.fas/.fasta file (optionally .gz) or a
directory of such files.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case len(args) == 1 && o.input != "":
				return fmt.Errorf("%w: cannot specify both positional input and -i/--input", errUsage)
			case len(args) == 1:
				o.input = args[0]
			case o.input == "":
				return fmt.Errorf("%w: missing input: provide a FASTA file or directory", errUsage)
			}
			if o.minLength < 0 || o.maxLength < 0 {
				return fmt.Errorf("%w: length bounds must not be negative", errUsage)
			}
			if o.maxLength > 0 && o.minLength > o.maxLength {
				return fmt.Errorf("%w: --min-length %d exceeds --max-length %d", errUsage, o.minLength, o.maxLength)
			}
			return run(cmd.Context(), cmd, o, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVarP(&o.input, "input", "i", "", "input FASTA file or directory")
	f.StringVarP(&o.output, "output", "o", "", "output TSV file (default stdout)")
	f.StringVarP(&o.configPath, "config", "c", "", "config file (default ./quickarsc.{yaml,json,toml})")
	f.IntVarP(&o.threads, "threads", "t", 1, "number of worker threads")
	f.IntVarP(&o.decimals, "decimal-places", "d", report.DefaultPrecision, "decimal places for floating columns")
	f.BoolVarP(&o.perSeq, "per-sequence", "p", false, "report one row per sequence")
	f.BoolVarP(&o.aaComp, "aa-composition", "a", false, "append amino-acid composition columns")
	f.BoolVarP(&o.stats, "stats", "s", false, "print summary statistics to stderr (directory input only)")
	f.IntVar(&o.minLength, "min-length", 0, "drop rows shorter than this length")
	f.IntVar(&o.maxLength, "max-length", 0, "drop rows longer than this length (0 = unbounded)")
	f.BoolVarP(&o.nucleotide, "nucleotide", "n", false, "treat every input as nucleotide")
	f.BoolVar(&o.noAuto, "no-auto-detection", false, "treat every input as protein")
	f.BoolVar(&o.noHeader, "no-header", false, "omit the header row")
	f.StringVar(&o.prodigal, "prodigal", genepred.DefaultTool, "gene predictor executable")
	f.BoolVar(&o.progress, "progress", false, "show a progress bar on stderr")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, o options, stdout, stderr io.Writer) error {
	cfg, err := config.Load(o.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg, o.verbose, stderr)
	if err != nil {
		return err
	}
	defer closeLog()
	logger.Debug("loaded config", "threads", cfg.Threads, "decimal_places", cfg.DecimalPlaces,
		"log_file", cfg.LogFile, "prodigal", cfg.Prodigal, "prodigal_mode", cfg.ProdigalMode,
		"genepred_timeout", cfg.GenepredTimeout)

	inputs, isDir, err := pipeline.Discover(o.input)
	if err != nil {
		return err
	}
	logger.Info("found input files", "count", len(inputs), "threads", cfg.Threads)

	popts := pipeline.Options{
		PerSequence: o.perSeq,
		Detect: detect.Options{
			SampleSize: cfg.DetectSampleSize,
			Threshold:  cfg.DetectThreshold,
		},
		Threads: cfg.Threads,
		Logger:  logger,
	}
	switch {
	case o.nucleotide:
		popts.Mode = pipeline.ModeNucleotide
	case o.noAuto:
		popts.Mode = pipeline.ModeProtein
	}
	if popts.Mode != pipeline.ModeProtein {
		if path, err := genepred.Find(cfg.Prodigal); err == nil {
			logger.Debug("gene predictor found", "path", path)
			popts.Predictor = &genepred.Prodigal{Path: path, Mode: cfg.ProdigalMode, Timeout: cfg.GenepredTimeout}
		} else if popts.Mode == pipeline.ModeNucleotide {
			logger.Warn("gene predictor not available; nucleotide files will fail", "err", err)
		} else {
			logger.Debug("gene predictor not available", "err", err)
		}
	}

	var bar *pb.ProgressBar
	if o.progress {
		bar = pb.New(len(inputs))
		bar.Output = stderr
		bar.ShowSpeed = false
		bar.Start()
		popts.OnDone = func(pipeline.Result) { bar.Increment() }
	}
	results := pipeline.Run(ctx, inputs, popts)
	if bar != nil {
		bar.Finish()
	}

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
			logger.Error("skipping file", "file", r.Path, "kind", r.Kind, "err", r.Err)
		}
	}

	ropts := report.Options{
		PerSequence: o.perSeq,
		Composition: o.aaComp,
		Nucleotide:  popts.Mode == pipeline.ModeNucleotide || report.HasNucleotide(results),
		NoHeader:    o.noHeader,
		Precision:   cfg.DecimalPlaces,
		MinLength:   o.minLength,
		MaxLength:   o.maxLength,
	}
	rows := report.Rows(results, ropts)
	if err := writeReport(o.output, stdout, rows, ropts); err != nil {
		return err
	}
	if o.output != "" {
		logger.Info("output written", "path", o.output, "rows", len(rows), "failed", failed)
	}

	if o.stats {
		if !isDir {
			logger.Warn("--stats only applies to directory input; ignoring")
		} else if err := report.WriteStats(stderr, report.Summarize(rows, ropts), cfg.DecimalPlaces); err != nil {
			return fmt.Errorf("write stats: %w", err)
		}
	}
	return nil
}

func writeReport(path string, stdout io.Writer, rows []report.Row, opts report.Options) error {
	if path == "" {
		return report.Write(stdout, rows, opts)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := report.Write(f, rows, opts); err != nil {
		f.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		logger := log.NewWithOptions(stderr, log.Options{Prefix: "quickarsc"})
		logger.Error(err.Error())
		if errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, "Run 'quickarsc --help' for usage.")
		}
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
