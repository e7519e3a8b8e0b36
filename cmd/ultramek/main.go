// Command ultramek runs the ingestion pipelines from the command line.
//
//	ultramek [-config file] parse <file>
//	ultramek [-config file] layers <board>
//	ultramek [-config file] ingest <dir> <category>
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/maldun/UltraMekCore/config"
	"github.com/maldun/UltraMekCore/metrics"
	"github.com/maldun/UltraMekCore/parsers"
	"github.com/maldun/UltraMekCore/persistence"
	"github.com/maldun/UltraMekCore/services"
)

func main() {
	flag.Usage = usage
	configPath := flag.String("config", os.Getenv("ULTRAMEK_CONFIG"), "Path to YAML configuration file (env: ULTRAMEK_CONFIG)")
	flag.Parse()

	if err := run(*configPath, flag.Args(), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "ultramek:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: ultramek [flags] <command> [args]

Commands:
  parse <file>            decode a .mtf, .blk, .mul or .board file and print it as JSON
  layers <board>          print the layer projection of a board file
  ingest <dir> <category> parse every unit file under dir into the store

Flags:
`)
	flag.PrintDefaults()
}

func run(configPath string, args []string, out io.Writer) error {
	if len(args) == 0 {
		usage()
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := cfg.Log.NewLogger(os.Stderr)

	switch cmd := args[0]; cmd {
	case "parse":
		if len(args) != 2 {
			return fmt.Errorf("usage: parse <file>")
		}
		rec, err := parsers.ParseFile(args[1])
		if err != nil {
			return err
		}
		return printJSON(out, rec)

	case "layers":
		if len(args) != 2 {
			return fmt.Errorf("usage: layers <board>")
		}
		boards := services.NewBoardService("", nil, nil, logger)
		rec, err := boards.Layers(args[1])
		if err != nil {
			return err
		}
		return printJSON(out, rec)

	case "ingest":
		if len(args) != 3 {
			return fmt.Errorf("usage: ingest <dir> <category>")
		}
		db, err := persistence.Open(cfg.Store, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		units := services.NewUnitService(cfg.Units.CustomDir, cfg.Units.ArchiveDir, db, metrics.New(), logger)
		ingest := services.NewIngestService(units, db, cfg.Units.Workers, logger)
		results, err := ingest.IngestDir(ctx, args[1], args[2])
		if err != nil {
			return err
		}

		failed := services.Failed(results)
		for _, r := range failed {
			fmt.Fprintf(out, "FAIL %s: %v\n", r.Path, r.Err)
		}
		fmt.Fprintf(out, "ingested %d of %d files into %s\n", len(results)-len(failed), len(results), args[2])
		if len(failed) > 0 {
			return fmt.Errorf("%d files failed", len(failed))
		}
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
