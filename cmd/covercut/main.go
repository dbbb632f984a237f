package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"cover-matte/internal/batch"
	"cover-matte/internal/config"
	"cover-matte/internal/logging"
	"cover-matte/internal/matte"
	"cover-matte/internal/preset"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (json, yaml or toml)")
	removeBg := flag.Bool("remove-bg", false, "Force background removal on transparent presets")
	noRemoveBg := flag.Bool("no-remove-bg", false, "Disable background removal")
	bgTolerance := flag.Float64("bg-tolerance", 22, "Background color distance treated as background (0-255)")
	bgFeather := flag.Float64("bg-feather", 8, "Distance band past the tolerance with partial alpha")
	minArea := flag.Int("min-area", 0, "Drop opaque islands smaller than this many pixels")
	featherPasses := flag.Int("feather-passes", 0, "Box-blur passes over the alpha mask")
	workers := flag.Int("workers", 0, "Number of worker goroutines for 'all' (default: NumCPU)")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: covercut [flags] <input> <cover|hang|bubble|story|all> [output]")
		fmt.Fprintln(os.Stderr)
		for _, p := range preset.All() {
			fmt.Fprintf(os.Stderr, "  %-7s %4dx%-4d  %s, limit %dKB\n", p.Name, p.Width, p.Height, p.Label, p.SizeLimitKB)
		}
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 2 || flag.NArg() > 3 {
		flag.Usage()
		os.Exit(2)
	}
	if *removeBg && *noRemoveBg {
		fmt.Fprintln(os.Stderr, "Error: -remove-bg and -no-remove-bg are mutually exclusive")
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// CLI flags override config file
	set := config.Visited(flag.CommandLine)
	cfg.Resolve(config.Flags{
		Workers:       pick(set, "workers", workers),
		LogMode:       debugMode(*verbose),
		RemoveBg:      removeMode(*removeBg, *noRemoveBg),
		BgTolerance:   pick(set, "bg-tolerance", bgTolerance),
		BgFeather:     pick(set, "bg-feather", bgFeather),
		CoverMinArea:  pick(set, "min-area", minArea),
		FeatherPasses: pick(set, "feather-passes", featherPasses),
	})

	log, err := logging.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync(log)

	input, kind, output := flag.Arg(0), strings.ToLower(flag.Arg(1)), flag.Arg(2)
	if _, err := os.Stat(input); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var presets []preset.Preset
	if kind == "all" {
		presets = preset.All()
	} else {
		p, err := preset.Lookup(kind)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		presets = []preset.Preset{p}
	}

	pipe := batch.CoverPipeline(cfg.Cover, cfg.Matte.MaxDispersion)
	job := func(p preset.Preset, out string) batch.Result {
		var pp *matte.Pipeline
		if cfg.Cover.RemoveBackground(p.RemoveBackground) {
			pp = pipe
		}
		return batch.CutPreset(input, out, p, pp, log)
	}

	if len(presets) == 1 {
		p := presets[0]
		if output == "" {
			output = batch.CoverOutputPath(input, "", p.Name)
		}
		printPreset(p)
		r := job(p, output)
		if !r.Success {
			fmt.Fprintf(os.Stderr, "Error: %s: %s\n", p.Name, r.Error)
			os.Exit(1)
		}
		printResult(p, r)
		return
	}

	// All presets; output, when given, is a directory.
	byName := make(map[string]preset.Preset, len(presets))
	names := make([]string, len(presets))
	for i, p := range presets {
		byName[p.Name] = p
		names[i] = p.Name
	}
	if output != "" {
		if err := os.MkdirAll(output, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Cover presets: %s, %d workers\n", strings.Join(names, ", "), cfg.Workers)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	results := batch.Run(batch.Config{Workers: cfg.Workers, Logger: log}, names, func(name string) batch.Result {
		return job(byName[name], batch.CoverOutputPath(input, output, name))
	})

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())
	for _, r := range results {
		p := byName[r.Task]
		if !r.Success {
			fmt.Printf("  %-7s FAILED: %s\n", p.Name, r.Error)
			continue
		}
		printPreset(p)
		printResult(p, r)
	}

	failed := batch.Failed(results)
	fmt.Printf("Generated: %d/%d\n", len(results)-len(failed), len(results))
	if len(failed) > 0 {
		log.Warn("some presets failed", zap.Int("failed", len(failed)))
		os.Exit(1)
	}
}

func printPreset(p preset.Preset) {
	fmt.Printf("%s (%s) %dx%d, ratio %s, limit %dKB\n", p.Label, p.Name, p.Width, p.Height, p.Ratio, p.SizeLimitKB)
	for _, h := range p.Hints() {
		fmt.Printf("  - %s\n", h)
	}
}

func printResult(p preset.Preset, r batch.Result) {
	status := "ok"
	if r.OverLimit {
		status = "OVER LIMIT"
	}
	fmt.Printf("  -> %s (%s, %s / %dKB, %s)\n", r.Output, r.Format, humanize.IBytes(uint64(r.Bytes)), p.SizeLimitKB, status)
	if r.Background != "" {
		fmt.Printf("  background: %s\n", r.Background)
	}
}

// pick returns v when the flag was given explicitly.
func pick[T any](set map[string]bool, name string, v *T) *T {
	if set[name] {
		return v
	}
	return nil
}

func debugMode(verbose bool) *string {
	if !verbose {
		return nil
	}
	m := "debug"
	return &m
}

func removeMode(on, off bool) *string {
	var m string
	switch {
	case on:
		m = "on"
	case off:
		m = "off"
	default:
		return nil
	}
	return &m
}
