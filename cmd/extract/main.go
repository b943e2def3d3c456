package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/maraichr/joingraph/internal/export"
	"github.com/maraichr/joingraph/internal/extract"
)

func main() {
	output := flag.String("output", "joins.csv", "path of the CSV file to write")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <sql-file> [<sql-file>...]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	report := extract.NewReport()
	for _, path := range flag.Args() {
		sqlText, err := os.ReadFile(path)
		if err != nil {
			logger.Error("failed to read file", slog.String("path", path), slog.String("error", err.Error()))
			os.Exit(1)
		}
		source := filepath.Base(path)
		report.Add(extract.New(source, string(sqlText), logger).Extract())
	}

	f, err := os.Create(*output)
	if err != nil {
		logger.Error("failed to create output file", slog.String("path", *output), slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := export.WriteCSV(f, report.Rows()); err != nil {
		f.Close()
		logger.Error("failed to write CSV", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		logger.Error("failed to close output file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("extraction complete",
		slog.Int("units", len(report.Units)),
		slog.String("output", *output))

	fmt.Println(report.RenderStats())
}
