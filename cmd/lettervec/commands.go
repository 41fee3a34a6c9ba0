package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kalambet/lettervec/internal/config"
	"github.com/kalambet/lettervec/internal/pdftext"
	"github.com/kalambet/lettervec/internal/source"
	"github.com/kalambet/lettervec/internal/storage"
)

// --- import ---

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import documents into the vector store",
}

var importFilesCmd = &cobra.Command{
	Use:   "files",
	Short: "Import every .txt file in a directory",
	Long: `Import every .txt file in a directory.

The year is taken from the first four-digit run in the file name and the
title from the name itself, so "2020_letter.txt" becomes "2020 Letter".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogging(cfg)

		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = cfg.Import.LettersDir
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := openApp(ctx, cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer a.Close()

		err = runImport(ctx, cmd.OutOrStdout(), a, &source.FileReader{Dir: dir})
		if errors.Is(err, source.ErrNoDocuments) {
			printWarning("No .txt files found in %s", dir)
			fmt.Fprintf(cmd.OutOrStdout(), "Add files named like 2020_letter.txt to %s and run this command again.\n", dir)
			return nil
		}
		return err
	},
}

var importLettersCmd = &cobra.Command{
	Use:   "letters",
	Short: "Download and import the shareholder letter catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogging(cfg)

		catalogPath, _ := cmd.Flags().GetString("catalog")
		if catalogPath == "" {
			catalogPath = cfg.Import.CatalogPath
		}
		catalog, err := source.LoadCatalog(catalogPath)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := openApp(ctx, cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		printStep("Starting import of shareholder letters")
		printStatus("Letters", "%d to process", len(catalog))

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			n, err := a.store.Count(ctx)
			if err != nil {
				return fmt.Errorf("counting documents: %w", err)
			}
			if n > 0 && !confirm(cmd.InOrStdin(), out, fmt.Sprintf("Database already contains %d documents. Continue?", n)) {
				fmt.Fprintln(out, "Aborting.")
				return nil
			}
		}

		reader := &source.RemoteReader{
			Catalog:    catalog,
			HTTPClient: downloadClient,
			Extractor:  pdftext.PDF{},
		}
		return runImport(ctx, out, a, reader)
	},
}

var importSampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Import the built-in sample letter excerpt",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogging(cfg)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := openApp(ctx, cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer a.Close()

		return runImport(ctx, cmd.OutOrStdout(), a, source.SampleReader{})
	},
}

func init() {
	importFilesCmd.Flags().String("dir", "", "directory of .txt files (default: import.letters_dir)")
	importLettersCmd.Flags().String("catalog", "", "TOML catalog of letters (default: built-in list)")
	importLettersCmd.Flags().BoolP("yes", "y", false, "do not ask before importing into a non-empty store")
	importCmd.AddCommand(importFilesCmd)
	importCmd.AddCommand(importLettersCmd)
	importCmd.AddCommand(importSampleCmd)
}

var downloadClient = &http.Client{Timeout: 2 * time.Minute}

// runImport drives the importer over r, then reports failures and the
// store's total record count.
func runImport(ctx context.Context, out io.Writer, a *app, r source.Reader) error {
	sum, err := a.importer.Run(ctx, r)
	if err != nil {
		return err
	}

	if len(sum.Failures) == 0 {
		fmt.Fprintln(out, "\n✓ Import complete!")
	} else {
		printWarning("%d of %d documents failed", len(sum.Failures), sum.Documents)
		for _, f := range sum.Failures {
			printError("%s: %v (%d chunks stored)", f.ID, f.Err, f.Stored)
		}
	}

	return printTotal(ctx, out, a.store)
}

func printTotal(ctx context.Context, out io.Writer, store storage.RecordStore) error {
	n, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting documents: %w", err)
	}
	fmt.Fprintf(out, "Total documents in database: %d\n", n)
	return nil
}

// confirm asks a y/n question on in. Only "y" (any case) accepts.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s (y/n): ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}

// --- count ---

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of stored records",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogging(cfg)

		store, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("opening %s store: %w", cfg.Store.Driver, err)
		}
		defer store.Close()

		return printTotal(cmd.Context(), cmd.OutOrStdout(), store)
	},
}

// --- export ---

type exportRecord struct {
	ID         string    `json:"id"`
	Year       int       `json:"year"`
	Title      string    `json:"title"`
	SourceURL  string    `json:"source_url"`
	Content    string    `json:"content"`
	ChunkIndex int       `json:"chunk_index"`
	Embedding  []float32 `json:"embedding"`
	CreatedAt  time.Time `json:"created_at"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all stored records as JSONL",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		setupLogging(cfg)

		store, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("opening %s store: %w", cfg.Store.Driver, err)
		}
		defer store.Close()

		exp, ok := store.(storage.Exporter)
		if !ok {
			return fmt.Errorf("export is not supported by the %s store", cfg.Store.Driver)
		}

		output, _ := cmd.Flags().GetString("output")
		var w io.Writer = cmd.OutOrStdout()
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			w = f
		}

		n, err := exportRecords(cmd.Context(), exp, w)
		if err != nil {
			return err
		}
		if output != "" {
			printSuccess("Exported %d records to %s", n, output)
		}
		return nil
	},
}

func exportRecords(ctx context.Context, exp storage.Exporter, w io.Writer) (int, error) {
	records, err := exp.ExportAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("exporting records: %w", err)
	}
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(exportRecord(r)); err != nil {
			return 0, fmt.Errorf("writing record %s: %w", r.ID, err)
		}
	}
	return len(records), nil
}

func init() {
	exportCmd.Flags().String("output", "", "output file path (default: stdout)")
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", colorize(colorCyan, config.ConfigFilePath()))
		for _, k := range config.ShowAll(cfg) {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  "Set a configuration value. Valid keys: " + strings.Join(config.ValidKeys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a configuration value so its default applies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.UnsetKey(args[0]); err != nil {
			return err
		}
		printSuccess("Unset %s", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
}
