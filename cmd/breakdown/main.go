// cmd/breakdown/main.go
//
// breakdown analyzes one screenplay file and writes the resulting breakdown
// document as JSON. By default the deterministic local pipeline is used;
// with an OpenAI key configured and -provider=openai, chunks are extracted
// remotely.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/labordacousins/scriptbreakdown/internal/config"
	apperrors "github.com/labordacousins/scriptbreakdown/internal/errors"
	"github.com/labordacousins/scriptbreakdown/internal/extractor"
	"github.com/labordacousins/scriptbreakdown/internal/services"
	"github.com/labordacousins/scriptbreakdown/internal/storage"
	"github.com/labordacousins/scriptbreakdown/internal/utils"
)

func main() {
	var (
		inPath   = flag.String("in", "", "screenplay text file to analyze (required)")
		outPath  = flag.String("out", "", "output file; stdout when empty")
		title    = flag.String("title", "", "title hint; inferred from the text when empty")
		provider = flag.String("provider", "", "extractor provider override (local, openai)")
		known    = flag.String("known", "", "comma-separated character names already known to appear")
		timeout  = flag.Duration("timeout", 10*time.Minute, "analysis timeout")
	)
	flag.Parse()

	if *inPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	utils.GetLogger().Enable(false)

	if err := run(*inPath, *outPath, *title, *provider, *known, *timeout); err != nil {
		if apperrors.IsStructuralFailure(err) {
			fmt.Fprintf(os.Stderr, "input is not a screenplay: %v\n", err)
			os.Exit(3)
		}
		fmt.Fprintf(os.Stderr, "breakdown failed: %v\n", err)
		os.Exit(1)
	}
}

func run(inPath, outPath, title, provider, known string, timeout time.Duration) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if provider != "" {
		cfg.ExtractorProvider = provider
	}
	if cfg.ExtractorProvider == "openai" && cfg.OpenAIAPIKey == "" {
		cfg.ExtractorProvider = "local"
	}

	raw, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inPath, err)
	}

	store, err := storage.NewFileStorage(cfg.DataDir)
	if err != nil {
		return err
	}

	registry := extractor.NewRegistry()
	registry.Register(extractor.NewLocalExtractor(config.DefaultTuning()))
	if cfg.OpenAIAPIKey != "" {
		registry.Register(extractor.NewOpenAIExtractor(cfg.OpenAIAPIKey, cfg.ExtractorModel))
	}

	svc := services.NewBreakdownService(cfg, store, services.NewProgressService(), registry)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var titleCandidates []string
	if title != "" {
		titleCandidates = []string{title}
	}

	var knownChars []string
	for _, name := range strings.Split(known, ",") {
		if name = strings.TrimSpace(name); name != "" {
			knownChars = append(knownChars, name)
		}
	}

	doc, err := svc.AnalyzeScript(ctx, string(raw), titleCandidates, knownChars)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')

	if outPath == "" {
		_, err = os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(outPath, out, 0644)
}
