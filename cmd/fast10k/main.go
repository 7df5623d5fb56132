// Command fast10k is the CLI entrypoint for the EDGAR/EDINET filing
// catalog: download, index, search, and a refreshable status view.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/komsit37/fast10k/internal/cliutil"
	"github.com/komsit37/fast10k/internal/config"
	"github.com/komsit37/fast10k/internal/download"
	"github.com/komsit37/fast10k/internal/errs"
	"github.com/komsit37/fast10k/internal/indexer"
	"github.com/komsit37/fast10k/internal/source"
	"github.com/komsit37/fast10k/internal/source/edgar"
	"github.com/komsit37/fast10k/internal/source/edinet"
	"github.com/komsit37/fast10k/internal/store"
	"github.com/komsit37/fast10k/internal/transport"
	"github.com/komsit37/fast10k/internal/tui"
	"github.com/komsit37/fast10k/pkg/model"
)

// env bundles everything a subcommand needs, built once in
// PersistentPreRunE and torn down in PersistentPostRunE. A package-level
// var here mirrors how this CLI's own teacher wires its root command.
var env *appEnv

type appEnv struct {
	cfg      *config.Config
	store    *store.Store
	registry *source.Registry
	indexer  *indexer.Indexer
	pipeline *download.Pipeline
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(errs.ExitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "fast10k",
	Short: "fast10k catalogs and downloads EDGAR and EDINET regulatory filings",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		var cfg *config.Config
		var err error
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}

		if dbPath, _ := cmd.Flags().GetString("database"); dbPath != "" {
			cfg.DatabasePath = dbPath
		}
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.LogLevel = level
		}

		log := cliutil.NewLogger(cfg)

		client, err := transport.NewClient(cfg, log)
		if err != nil {
			return err
		}
		st, err := store.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}

		edgarAdapter := edgar.NewAdapter(client)
		edinetAdapter := edinet.NewAdapter(client, st, cfg.EdinetAPIKey)
		registry := source.NewRegistry(edgarAdapter, edinetAdapter)
		ix := indexer.New(st, edgarAdapter, edinetAdapter, log, cfg.IndexStalenessDays)
		pipeline := download.New(registry, st, ix, client, log)

		env = &appEnv{cfg: cfg, store: st, registry: registry, indexer: ix, pipeline: pipeline}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if env != nil && env.store != nil {
			return env.store.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/fast10k.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("database", "", "sqlite database path override")

	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(tuiCmd)
}

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "resolve an issuer, find matching filings, and materialize them to disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := parseSource(cmd)
		if err != nil {
			return err
		}
		ticker, _ := cmd.Flags().GetString("ticker")
		formatStr, _ := cmd.Flags().GetString("format")
		limit, _ := cmd.Flags().GetInt("limit")
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = env.cfg.DownloadDir
		}

		filter, err := buildQuery(cmd, src)
		if err != nil {
			return err
		}

		req := download.Request{
			Source:     src,
			Ticker:     ticker,
			FilingType: filter.FilingType,
			From:       filter,
			Format:     model.Format(formatStr),
			Limit:      limit,
			OutputRoot: output,
		}

		result, err := env.pipeline.Run(cmd.Context(), req)
		if err != nil {
			return err
		}

		tui.RenderResults(cmd.OutOrStdout(), result.Downloaded)
		for _, failure := range result.Failed {
			fmt.Fprintf(cmd.ErrOrStderr(), "failed: %s/%s: %v\n", failure.Document.Source, failure.Document.ID, failure.Err)
		}
		if len(result.Failed) > 0 && len(result.Downloaded) == 0 {
			return result.Failed[0].Err
		}
		return nil
	},
}

func init() {
	downloadCmd.Flags().String("source", "edgar", "filing source: edgar, edinet, tdnet")
	downloadCmd.Flags().String("ticker", "", "ticker or securities code (required)")
	downloadCmd.Flags().String("filing-type", "", "filing type code, e.g. 10-K, AnnualReport")
	downloadCmd.Flags().String("format", string(model.FormatPlainText), "payload format: plain-text, html, xbrl, inline-xbrl, pdf, complete-package")
	downloadCmd.Flags().String("from-date", "", "inclusive lower bound, YYYY-MM-DD")
	downloadCmd.Flags().String("to-date", "", "inclusive upper bound, YYYY-MM-DD")
	downloadCmd.Flags().Int("limit", 5, "maximum number of filings to download")
	downloadCmd.Flags().String("output", "", "download directory root (default: config download_dir)")
	downloadCmd.MarkFlagRequired("ticker")
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "search the catalog, refreshing it first if it is stale",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := parseSource(cmd)
		if err != nil {
			return err
		}
		if err := env.indexer.EnsureFresh(cmd.Context(), src); err != nil {
			return err
		}

		filter, err := buildQuery(cmd, src)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		docs, err := env.store.FindDocuments(filter, limit)
		if err != nil {
			return err
		}
		tui.RenderResults(cmd.OutOrStdout(), docs)
		return nil
	},
}

func init() {
	searchCmd.Flags().String("source", "edgar", "filing source: edgar, edinet, tdnet")
	searchCmd.Flags().String("ticker", "", "ticker or securities code")
	searchCmd.Flags().String("filing-type", "", "filing type code, e.g. 10-K, AnnualReport")
	searchCmd.Flags().Bool("amendments", false, "treat filing-type as a base type and include its amendments")
	searchCmd.Flags().String("from-date", "", "inclusive lower bound, YYYY-MM-DD")
	searchCmd.Flags().String("to-date", "", "inclusive upper bound, YYYY-MM-DD")
	searchCmd.Flags().Int("limit", 20, "maximum number of results")
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "inspect or refresh the catalog directly, bypassing the search freshness check",
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "print catalog size and per-source date coverage",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := env.indexer.Stats()
		if err != nil {
			return err
		}
		tui.RenderStatus(cmd.OutOrStdout(), stats, nil)
		return nil
	},
}

var indexUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "catch the catalog up to the present for one source",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := parseSource(cmd)
		if err != nil {
			return err
		}
		result, err := env.indexer.Update(cmd.Context(), src)
		return reportIndexResult(cmd, result, err)
	},
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "walk an explicit date range into the catalog (EDINET only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		fromStr, _ := cmd.Flags().GetString("from")
		toStr, _ := cmd.Flags().GetString("to")
		from, err := model.ParseSourceDate(model.SourceEDINET, fromStr)
		if err != nil {
			return &errs.ConfigError{Key: "from", Detail: err.Error()}
		}
		to, err := model.ParseSourceDate(model.SourceEDINET, toStr)
		if err != nil {
			return &errs.ConfigError{Key: "to", Detail: err.Error()}
		}
		result, err := env.indexer.Build(cmd.Context(), from, to)
		return reportIndexResult(cmd, result, err)
	},
}

func init() {
	indexBuildCmd.Flags().String("from", "", "inclusive start date, YYYY-MM-DD")
	indexBuildCmd.Flags().String("to", "", "inclusive end date, YYYY-MM-DD")
	indexBuildCmd.MarkFlagRequired("from")
	indexBuildCmd.MarkFlagRequired("to")
}

var indexClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "purge the documents table; the issuer directory survives",
	RunE: func(cmd *cobra.Command, args []string) error {
		return env.indexer.Clear()
	},
}

func init() {
	indexCmd.PersistentFlags().String("source", "edgar", "filing source: edgar, edinet")
	indexCmd.AddCommand(indexStatsCmd)
	indexCmd.AddCommand(indexUpdateCmd)
	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexClearCmd)
}

func reportIndexResult(cmd *cobra.Command, result indexer.Result, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d documents\n", result.DocumentsWritten)
	for _, d := range result.FailedDates {
		fmt.Fprintf(cmd.ErrOrStderr(), "failed: %s\n", d)
	}
	return nil
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "watch catalog status, repainting every few seconds until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		tui.Watch(ctx, cmd.OutOrStdout(), env.indexer.Stats)
		return nil
	},
}

// parseSource reads the --source flag common to most subcommands and
// validates it against the closed source set.
func parseSource(cmd *cobra.Command) (model.Source, error) {
	raw, _ := cmd.Flags().GetString("source")
	src := model.Source(raw)
	switch raw {
	case "edgar":
		src = model.SourceEDGAR
	case "edinet":
		src = model.SourceEDINET
	case "tdnet":
		src = model.SourceTDNet
	}
	if !src.Valid() {
		return "", &errs.ConfigError{Key: "source", Detail: "must be one of edgar, edinet, tdnet"}
	}
	return src, nil
}

// buildQuery assembles a model.Query from the flags common to the
// download and search subcommands.
func buildQuery(cmd *cobra.Command, src model.Source) (model.Query, error) {
	ticker, _ := cmd.Flags().GetString("ticker")
	filingTypeCode, _ := cmd.Flags().GetString("filing-type")
	fromStr, _ := cmd.Flags().GetString("from-date")
	toStr, _ := cmd.Flags().GetString("to-date")

	q := model.Query{Ticker: ticker, Source: src}
	if filingTypeCode != "" {
		ft := model.Other(filingTypeCode)
		q.FilingType = &ft
	}
	if cmd.Flags().Lookup("amendments") != nil {
		q.IncludeAmendments, _ = cmd.Flags().GetBool("amendments")
	}
	if fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return model.Query{}, &errs.ConfigError{Key: "from-date", Detail: err.Error()}
		}
		q.From = from
	}
	if toStr != "" {
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return model.Query{}, &errs.ConfigError{Key: "to-date", Detail: err.Error()}
		}
		q.To = to
	}
	return q, nil
}
