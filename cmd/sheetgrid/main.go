// Package main provides the CLI entry point for sheetgrid-go.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetgrid-go/internal/config"
	"github.com/ukaji3/sheetgrid-go/internal/logging"
	"github.com/ukaji3/sheetgrid-go/pkg/sheetgrid"
	"github.com/ukaji3/sheetgrid-go/pkg/sheetgrid/delimited"
	"github.com/ukaji3/sheetgrid-go/pkg/sheetgrid/models"
	"github.com/ukaji3/sheetgrid-go/pkg/sheetgrid/output"
	"github.com/ukaji3/sheetgrid-go/pkg/sheetgrid/parser"
)

type cliFlags struct {
	outputPath    string
	pretty        bool
	format        string
	mode          string
	encoding      string
	delimiter     string
	sheet         string
	sheetsDir     string
	printAreasDir string
	configPath    string
	logLevel      string
	logFormat     string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}

	rootCmd := &cobra.Command{
		Use:   "sheetgrid [input]",
		Short: "Decode spreadsheets and delimited text into string grids",
		Long: `sheetgrid-go decodes .xlsx packages, legacy .xls workbooks and delimited text of unknown encoding
into dense grids of strings and outputs JSON or CSV.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, args[0])
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "TOML configuration file")
	pf.StringVar(&flags.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flags.logFormat, "log-format", "text", "Log format: text, json")
	pf.StringVar(&flags.encoding, "encoding", "", "Encoding of delimited text (default: detect)")
	pf.StringVar(&flags.delimiter, "delimiter", "", "Field delimiter of delimited text (default: ,)")
	pf.BoolVar(&flags.pretty, "pretty", false, "Pretty-print JSON output")

	f := rootCmd.Flags()
	f.StringVarP(&flags.outputPath, "output", "o", "", "Output file path (default: stdout)")
	f.StringVar(&flags.format, "format", "json", "Output format: json, csv")
	f.StringVar(&flags.mode, "mode", "standard", "Decoding mode: light, standard, verbose")
	f.StringVar(&flags.sheet, "sheet", "", "Only output the named sheet")
	f.StringVar(&flags.sheetsDir, "sheets-dir", "", "Directory for per-sheet output files")
	f.StringVar(&flags.printAreasDir, "print-areas-dir", "", "Directory for per-print-area output files")

	rootCmd.AddCommand(newDetectCmd(flags))
	return rootCmd
}

func newDetectCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:          "detect [input]",
		Short:        "Print the encoding profiles of a delimited text file",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, flags, args[0])
		},
	}
}

// loadConfig merges the config file with flags set on the command line.
func loadConfig(cmd *cobra.Command, flags *cliFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if changed("log-format") {
		cfg.Log.Format = flags.logFormat
	}
	if changed("encoding") {
		cfg.Decode.Encoding = flags.encoding
	}
	if changed("delimiter") {
		cfg.Decode.Delimiter = flags.delimiter
	}
	if changed("mode") {
		cfg.Decode.Mode = flags.mode
	}
	if changed("format") {
		cfg.Output.Format = flags.format
	}
	if changed("pretty") {
		cfg.Output.Pretty = flags.pretty
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}

func decodeOptions(ctx context.Context, cfg *config.Config) (sheetgrid.Options, error) {
	opts := sheetgrid.Options{
		Mode:          sheetgrid.Mode(cfg.Decode.Mode),
		Delimiter:     cfg.Decode.DelimiterRune(),
		Encoding:      cfg.Decode.Encoding,
		MaxInputBytes: cfg.Decode.MaxInputBytes,
		Logger:        logging.FromContext(ctx),
	}

	for _, name := range cfg.Decode.Candidates {
		c, err := delimited.LookupEncoding(name)
		if err != nil {
			return opts, err
		}
		opts.Candidates = append(opts.Candidates, c)
	}

	if pattern := cfg.Decode.DatePattern; pattern != "" {
		opts.DateFormatter = func(value time.Time, fallback func() string) string {
			if s, err := parser.FormatDate(value, pattern); err == nil {
				return s
			}
			return fallback()
		}
	}
	return opts, nil
}

func run(cmd *cobra.Command, flags *cliFlags, inputPath string) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, _ := logging.WithRunID(cmd.Context())
	logger := logging.WithFields(ctx, "input", inputPath)

	opts, err := decodeOptions(ctx, cfg)
	if err != nil {
		return err
	}

	started := time.Now()
	wb, err := sheetgrid.OpenFile(inputPath, opts)
	if err != nil {
		logger.Error("decoding failed", "error", err)
		return fmt.Errorf("decoding failed: %w", err)
	}
	logger.Info("decoded", "sheets", len(wb.Sheets()), "encoding", wb.Encoding(), "elapsed", time.Since(started))

	data := wb.Data()
	if flags.sheet != "" {
		sheet, err := wb.Sheet(flags.sheet)
		if err != nil {
			return err
		}
		data = &models.WorkbookData{
			BookName:   data.BookName,
			Encoding:   data.Encoding,
			Properties: data.Properties,
			Sheets:     []models.StringSheet{sheet},
		}
	}

	if flags.outputPath != "" || (flags.sheetsDir == "" && flags.printAreasDir == "") {
		if err := writeOutput(cmd, cfg, data, flags.outputPath); err != nil {
			return err
		}
	}

	if flags.sheetsDir != "" {
		if err := writeSheetFiles(cfg, data, flags.sheetsDir); err != nil {
			return fmt.Errorf("failed to write sheet files: %w", err)
		}
	}

	if flags.printAreasDir != "" {
		if err := writePrintAreaFiles(cfg, wb, flags.printAreasDir); err != nil {
			return fmt.Errorf("failed to write print area files: %w", err)
		}
	}

	return nil
}

func writeOutput(cmd *cobra.Command, cfg *config.Config, data *models.WorkbookData, path string) error {
	var w io.Writer = cmd.OutOrStdout()
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		defer f.Close()
		w = f
	}

	if cfg.Output.Format == "csv" {
		if len(data.Sheets) != 1 {
			return fmt.Errorf("csv output needs exactly one sheet, got %d (use --sheet)", len(data.Sheets))
		}
		return output.WriteCSV(w, data.Sheets[0].Rows, cfg.Decode.DelimiterRune())
	}

	jsonData, err := output.ToJSON(data, cfg.Output.Pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func writeSheetFiles(cfg *config.Config, data *models.WorkbookData, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for i := range data.Sheets {
		sheet := &data.Sheets[i]
		if cfg.Output.Format == "csv" {
			if err := writeCSVFile(filepath.Join(dir, sheet.Name+".csv"), sheet.Rows, cfg.Decode.DelimiterRune()); err != nil {
				return err
			}
			continue
		}

		jsonData, err := output.SheetToJSON(sheet, cfg.Output.Pretty)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, sheet.Name+".json"), jsonData, 0644); err != nil {
			return err
		}
	}

	return nil
}

func writeCSVFile(path string, rows [][]string, delimiter rune) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := output.WriteCSV(f, rows, delimiter); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writePrintAreaFiles(cfg *config.Config, wb *sheetgrid.Workbook, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	counts := make(map[string]int)
	for _, view := range wb.PrintAreaViews() {
		counts[view.SheetName]++
		jsonData, err := output.PrintAreaViewToJSON(&view, cfg.Output.Pretty)
		if err != nil {
			return err
		}

		filename := filepath.Join(dir, fmt.Sprintf("%s_area%d.json", view.SheetName, counts[view.SheetName]))
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return err
		}
	}

	return nil
}

func runDetect(cmd *cobra.Command, flags *cliFlags, inputPath string) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)
	ctx, _ := logging.WithRunID(cmd.Context())

	opts, err := decodeOptions(ctx, cfg)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	detection := delimited.DetectEncoding(data, delimited.DetectOptions{
		Delimiter:  opts.Delimiter,
		Candidates: opts.Candidates,
		Logger:     opts.Logger,
	})
	logging.WithFields(ctx, "input", inputPath).Info("encoding detected",
		"encoding", detection.Candidate.Name, "fallback", detection.Fallback)

	jsonData, err := output.ProfilesToJSON(detection.Profiles, cfg.Output.Pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
	return err
}
