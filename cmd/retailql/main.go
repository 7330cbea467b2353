package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sg243/retailql/internal/config"
	"github.com/sg243/retailql/internal/engine"
	"github.com/sg243/retailql/internal/logging"
	"github.com/sg243/retailql/internal/normalizer"
	"github.com/sg243/retailql/internal/repl"
	"github.com/sg243/retailql/internal/storage/loader"
)

func main() {
	var (
		filePath   = flag.String("f", "", "delimited text file to load (required)")
		query      = flag.String("q", "", "run a single query and exit instead of starting the shell")
		configPath = flag.String("config", "", "directory containing config.yaml")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger, closeFn := logging.SetupLogger(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.SeqURL)
	defer closeFn()
	slog.SetDefault(logger)

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: retailql -f <file.csv> [-q <query>] [-config <dir>]")
		closeFn()
		os.Exit(2)
	}

	raw, err := loader.LoadFile(*filePath, cfg.Loader.DelimiterRune())
	if err != nil {
		slog.Error("failed to load file", "path", *filePath, "error", err)
		closeFn()
		os.Exit(1)
	}
	slog.Info("loaded upload", "path", *filePath, "rows", raw.Len(), "columns", len(raw.Columns))

	opts := normalizer.Options{DropUnparseableRows: !cfg.Normalizer.PreserveRows}
	if cfg.Normalizer.AliasFile != "" {
		mapping, err := normalizer.LoadMappingFile(cfg.Normalizer.AliasFile)
		if err != nil {
			slog.Error("failed to load alias overrides", "path", cfg.Normalizer.AliasFile, "error", err)
			closeFn()
			os.Exit(1)
		}
		opts.Mapping = mapping
	}

	table, actions, err := normalizer.Normalize(raw, opts)
	if err != nil {
		slog.Error("cleaning failed", "error", err)
		closeFn()
		os.Exit(1)
	}
	for _, a := range actions {
		fmt.Println(a)
	}

	eng := engine.New()
	eng.AddObserver(engine.NewLoggingObserver())

	if *query != "" {
		result, err := eng.Execute(*query, table)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			closeFn()
			os.Exit(1)
		}
		repl.PrintResult(os.Stdout, result)
		return
	}

	repl.Start(eng, table, actions)
}
