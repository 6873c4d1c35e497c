// Command canal runs a pipeline document and writes its Export nodes.
//
// Usage:
//
//	canal -pipeline poster.hcl -out build/
//	canal -config engine.yaml -pipeline poster.yaml -timeout 30s
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gogpu/canal"
	"github.com/gogpu/canal/config"
	"github.com/gogpu/canal/effect"
)

func main() {
	var (
		configPath   = flag.String("config", "", "engine settings (YAML)")
		pipelinePath = flag.String("pipeline", "", "pipeline document (.yaml, .yml or .hcl)")
		outDir       = flag.String("out", ".", "directory exports are written to")
		timeout      = flag.Duration("timeout", time.Minute, "give up when the graph has not settled by then")
	)
	flag.Parse()

	cfg := config.DefaultEngine()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadEngine(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, "canal:", err)
			os.Exit(1)
		}
	}
	logger := cfg.NewLogger(os.Stderr)

	if *pipelinePath == "" {
		fmt.Fprintln(os.Stderr, "canal: -pipeline is required")
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	if err := run(ctx, logger, cfg, *pipelinePath, *outDir); err != nil {
		logger.Error("canal: run failed", "err", err)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Engine, pipelinePath, outDir string) error {
	p, err := config.LoadPipeline(pipelinePath)
	if err != nil {
		return err
	}
	exports := p.Exports()
	if len(exports) == 0 {
		logger.Warn("canal: pipeline has no export nodes", "pipeline", pipelinePath)
	}

	eng := canal.New(append(cfg.Options(), canal.WithLogger(logger))...)
	defer eng.Close()

	start := time.Now()
	if err := p.Apply(eng); err != nil {
		return err
	}
	if err := eng.WaitContext(ctx); err != nil {
		return fmt.Errorf("waiting for the graph to settle: %w", err)
	}
	stats := eng.Stats()
	logger.Info("canal: graph settled",
		"nodes", stats.Nodes,
		"evaluations", stats.Evaluations,
		"duration", time.Since(start))

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	var errs []error
	for _, id := range exports {
		if err := export(ctx, eng, id, outDir); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func export(ctx context.Context, eng *canal.Engine, id, outDir string) error {
	n, _ := eng.Node(id)
	spec, _ := n.Effect.(effect.Export)
	path := filepath.Join(outDir, canal.ExportFileName(spec, time.Now()))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := eng.Export(ctx, id, f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}
