package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cover-matte/internal/batch"
	"cover-matte/internal/config"
	"cover-matte/internal/imageio"
	"cover-matte/internal/logging"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (json, yaml or toml)")
	mode := flag.String("mode", "auto", "Background mode: auto, white or gray")
	tolerance := flag.Float64("tolerance", 30, "Color tolerance 0-100")
	feather := flag.Int("feather", 3, "Edge feather passes 0-20")
	minArea := flag.Int("min-area", 100, "Drop opaque islands smaller than this many pixels")
	bgColor := flag.String("bg-color", "", "Force background color (hex, e.g. f0f0f0)")
	format := flag.String("format", "png", "Output format: png or webp")
	outputDir := flag.String("o", "", "Output directory (default: next to the input, <dir>/transparent for a directory)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: removebg [flags] <input> [output]")
		fmt.Fprintln(os.Stderr, "       removebg [flags] <dir>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		flag.Usage()
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
		Workers:   pick(set, "workers", workers),
		LogMode:   debugMode(*verbose),
		OutputDir: pick(set, "o", outputDir),
		Format:    pick(set, "format", format),
		Mode:      pick(set, "mode", mode),
		Tolerance: pick(set, "tolerance", tolerance),
		Feather:   pick(set, "feather", feather),
		MinArea:   pick(set, "min-area", minArea),
		BgColor:   pick(set, "bg-color", bgColor),
	})

	log, err := logging.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync(log)

	outFormat, err := imageio.ParseFormat(cfg.Format)
	if err != nil || outFormat == imageio.JPEG {
		fmt.Fprintf(os.Stderr, "Error: output format must be png or webp, got %q\n", cfg.Format)
		os.Exit(2)
	}

	pipe, err := batch.RemovePipeline(cfg.Matte)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	input := flag.Arg(0)
	st, err := os.Stat(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !st.IsDir() {
		output := batch.RemoveTarget(input, flag.Arg(1), cfg.OutputDir, outFormat)
		r := batch.RemoveBackground(input, output, pipe, outFormat, cfg.Quality, log)
		if !r.Success {
			fmt.Fprintf(os.Stderr, "Error: %s: %s\n", input, r.Error)
			os.Exit(1)
		}
		fmt.Printf("%s -> %s (%s)\n", input, r.Output, humanize.IBytes(uint64(r.Bytes)))
		return
	}

	// Directory mode
	inputs, err := batch.CollectInputs(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(inputs) == 0 {
		fmt.Println("No images to process.")
		os.Exit(0)
	}

	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = filepath.Join(input, "transparent")
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Background removal: %d images, %d workers\n", len(inputs), cfg.Workers)
	fmt.Printf("Mode: %s, tolerance: %.0f, feather: %d, min area: %d\n",
		cfg.Matte.Mode, cfg.Matte.Tolerance, cfg.Matte.Feather, cfg.Matte.MinArea)
	fmt.Printf("Output: %s\n", outDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()
	results := batch.Run(batch.Config{Workers: cfg.Workers, Logger: log}, inputs, func(in string) batch.Result {
		return batch.RemoveBackground(in, batch.RemoveOutputPath(in, outDir, outFormat), pipe, outFormat, cfg.Quality, log)
	})

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

	failed := batch.Failed(results)
	untouched := 0
	var total int64
	for _, r := range results {
		total += r.Bytes
		if r.Success && r.Regions == 0 {
			untouched++
		}
	}
	fmt.Printf("Processed: %d/%d (%s)\n", len(results)-len(failed), len(results), humanize.IBytes(uint64(total)))
	if untouched > 0 {
		fmt.Printf("No background detected: %d (saved unchanged)\n", untouched)
	}

	if len(failed) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failed))
		limit := 20
		if len(failed) < limit {
			limit = len(failed)
		}
		for _, e := range failed[:limit] {
			fmt.Printf("  %s: %s\n", e.Task, e.Error)
		}
	}

	manifestPath := filepath.Join(outDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, "removebg", results); err != nil {
		log.Warn("manifest write failed", zap.Error(err))
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if len(failed) > 0 {
		os.Exit(1)
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
