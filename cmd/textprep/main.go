package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/baditaflorin/go_text_preprocessing/internal/config"
	"github.com/baditaflorin/go_text_preprocessing/internal/core/domain"
	"github.com/baditaflorin/go_text_preprocessing/internal/tabular"
	"github.com/baditaflorin/go_text_preprocessing/pkg/preprocess"
)

// options holds the command-line settings
type options struct {
	inputFile    string
	outputFile   string
	column       string
	resultColumn string
	sheet        string
	text         string
	top          int
	outputFormat string
	workers      int
	nullPolicy   string
	stemFallback bool
	timeout      time.Duration
	verbose      bool
}

func parseFlags(cfg config.Config) options {
	var o options

	// Inputs
	flag.StringVar(&o.inputFile, "input", "", "CSV/TSV/XLSX file with a text column")
	flag.StringVar(&o.column, "column", "text", "Name of the text column")
	flag.StringVar(&o.sheet, "sheet", "", "XLSX sheet (default: first sheet)")
	flag.StringVar(&o.text, "text", "", "Normalize a single text instead of a file")

	// Outputs
	flag.StringVar(&o.outputFile, "output", "", "Write the table plus the normalized column to this CSV/TSV/XLSX file")
	flag.StringVar(&o.resultColumn, "result-column", "clean_text", "Name of the normalized column")
	flag.IntVar(&o.top, "top", 0, "Print the N most common lemmas (0 = off)")
	flag.StringVar(&o.outputFormat, "format", "text", "Output format for printed results: 'text' or 'json'")

	// Pipeline
	flag.IntVar(&o.workers, "workers", cfg.Workers, "Worker pool size (0 = NumCPU)")
	flag.StringVar(&o.nullPolicy, "null-policy", cfg.NullPolicy.String(), "Null cells: 'empty' or 'fail'")
	flag.BoolVar(&o.stemFallback, "stem-fallback", cfg.StemFallback, "Stem words missing from the dictionary")
	flag.DurationVar(&o.timeout, "timeout", 5*time.Minute, "Overall processing timeout")
	flag.BoolVar(&o.verbose, "verbose", false, "Enable verbose output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --text=\"Кошки любят молоко!\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --input=reviews.xlsx --column=review --output=clean.xlsx --top=30\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --input=comments.csv --top=20 --format=json\n", os.Args[0])
	}

	flag.Parse()
	return o
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	o := parseFlags(cfg)
	if err := o.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	pp, err := newPreprocessor(cfg, o)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing preprocessor: %v\n", err)
		os.Exit(1)
	}

	if err := run(ctx, pp, o, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// validate checks the command-line inputs
func (o options) validate() error {
	if o.inputFile == "" && o.text == "" {
		return errors.New("must provide either --input or --text")
	}
	if o.inputFile != "" && o.text != "" {
		return errors.New("--input and --text are mutually exclusive")
	}
	if o.outputFile != "" && o.inputFile == "" {
		return errors.New("--output requires --input")
	}
	if o.top < 0 {
		return errors.New("top must not be negative")
	}
	if o.outputFormat != "text" && o.outputFormat != "json" {
		return fmt.Errorf("invalid output format: %s. Must be 'text' or 'json'", o.outputFormat)
	}
	if _, err := domain.ParseNullPolicy(o.nullPolicy); err != nil {
		return err
	}
	return nil
}

func newPreprocessor(cfg config.Config, o options) (*preprocess.Preprocessor, error) {
	policy, err := domain.ParseNullPolicy(o.nullPolicy)
	if err != nil {
		return nil, err
	}

	opts := []preprocess.Option{
		preprocess.WithWorkers(o.workers),
		preprocess.WithNullPolicy(policy),
		preprocess.WithStemmingFallback(o.stemFallback),
		preprocess.WithFastNormalizer(),
		preprocess.WithDataDir(cfg.DataDir),
		preprocess.WithResourceSource(preprocess.ResourceSource(cfg.ResourceSource), cfg.ResourceBaseURL),
		preprocess.WithFetchTimeout(cfg.FetchTimeout()),
	}
	if !o.verbose {
		opts = append(opts, preprocess.WithQuietLogger())
	}
	return preprocess.New(opts...)
}

// run normalizes the configured input and writes results
func run(ctx context.Context, pp *preprocess.Preprocessor, o options, stdout io.Writer) error {
	if o.text != "" {
		out, err := pp.NormalizeStrings(ctx, []string{o.text})
		if err != nil {
			return err
		}
		if o.outputFormat == "json" {
			return json.NewEncoder(stdout).Encode(map[string]string{"input": o.text, "result": out[0]})
		}
		fmt.Fprintln(stdout, out[0])
		return printTop(stdout, o, out)
	}

	table, err := tabular.ReadFile(o.inputFile, o.sheet)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", o.inputFile, err)
	}
	records, err := table.Column(o.column)
	if err != nil {
		return err
	}

	start := time.Now()
	out, err := pp.Normalize(ctx, records)
	if err != nil {
		return err
	}
	if o.verbose {
		fmt.Fprintf(os.Stderr, "Normalized %d records in %.2f ms\n", len(out), float64(time.Since(start).Microseconds())/1000)
	}

	if o.outputFile != "" {
		if err := table.AppendColumn(o.resultColumn, out); err != nil {
			return err
		}
		if err := tabular.WriteFile(table, o.outputFile); err != nil {
			return fmt.Errorf("error writing %s: %w", o.outputFile, err)
		}
	} else if o.top == 0 {
		for _, s := range out {
			fmt.Fprintln(stdout, s)
		}
	}

	return printTop(stdout, o, out)
}

// printTop outputs the most common lemmas when requested
func printTop(w io.Writer, o options, normalized []string) error {
	if o.top == 0 {
		return nil
	}
	entries := preprocess.MostCommon(normalized, o.top)

	if o.outputFormat == "json" {
		return json.NewEncoder(w).Encode(entries)
	}
	fmt.Fprintf(w, "\n=== Top %d lemmas ===\n", o.top)
	for i, e := range entries {
		fmt.Fprintf(w, "%3d. %-24s %d\n", i+1, e.Token, e.Count)
	}
	return nil
}
