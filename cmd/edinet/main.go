// Command edinet is a narrower CLI focused entirely on EDINET: loading the
// static issuer directory, and the same index/search/download/read
// operations as fast10k but scoped to the EDINET source and addressed by
// Japanese securities code.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/komsit37/fast10k/internal/cliutil"
	"github.com/komsit37/fast10k/internal/config"
	"github.com/komsit37/fast10k/internal/download"
	"github.com/komsit37/fast10k/internal/edinetcsv"
	"github.com/komsit37/fast10k/internal/errs"
	"github.com/komsit37/fast10k/internal/indexer"
	"github.com/komsit37/fast10k/internal/source"
	"github.com/komsit37/fast10k/internal/source/edinet"
	"github.com/komsit37/fast10k/internal/store"
	"github.com/komsit37/fast10k/internal/transport"
	"github.com/komsit37/fast10k/internal/tui"
	"github.com/komsit37/fast10k/pkg/model"
)

var env *appEnv

type appEnv struct {
	cfg      *config.Config
	store    *store.Store
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
	Use:   "edinet",
	Short: "edinet loads, indexes, searches, and downloads EDINET filings",
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

		log := cliutil.NewLogger(cfg)

		client, err := transport.NewClient(cfg, log)
		if err != nil {
			return err
		}
		st, err := store.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}

		edinetAdapter := edinet.NewAdapter(client, st, cfg.EdinetAPIKey)
		registry := source.NewRegistry(nil, edinetAdapter)
		ix := indexer.New(st, nil, edinetAdapter, log, cfg.IndexStalenessDays)
		pipeline := download.New(registry, st, ix, client, log)

		env = &appEnv{cfg: cfg, store: st, indexer: ix, pipeline: pipeline}
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
	rootCmd.PersistentFlags().String("database", "", "sqlite database path override")

	rootCmd.AddCommand(loadStaticCmd)
	rootCmd.AddCommand(searchStaticCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(readCmd)
}

var loadStaticCmd = &cobra.Command{
	Use:   "load-static",
	Short: "replace the issuer directory from EDINET's Shift-JIS static CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		csvPath, _ := cmd.Flags().GetString("csv-path")
		issuers, err := edinetcsv.LoadFile(csvPath)
		if err != nil {
			return err
		}
		if err := env.store.LoadIssuers(issuers); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "loaded %d issuers\n", len(issuers))
		return nil
	},
}

func init() {
	loadStaticCmd.Flags().String("csv-path", "", "path to EDINET's EdinetcodeDlInfo.csv")
	loadStaticCmd.MarkFlagRequired("csv-path")
}

var searchStaticCmd = &cobra.Command{
	Use:   "search-static <query>",
	Short: "search the issuer directory by name, English name, or securities code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		issuers, err := env.store.SearchIssuers(args[0], limit)
		if err != nil {
			return err
		}
		for _, iss := range issuers {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", iss.SecuritiesCode, iss.EdinetCode, iss.Name, iss.NameEn)
		}
		return nil
	},
}

func init() {
	searchStaticCmd.Flags().Int("limit", 20, "maximum number of issuers to list")
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "inspect or refresh the EDINET catalog directly",
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "print catalog size and EDINET date coverage",
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
	Short: "catch the catalog up to the present day",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := env.indexer.Update(cmd.Context(), model.SourceEDINET)
		return reportIndexResult(cmd, result, err)
	},
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "walk an explicit inclusive date range into the catalog",
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

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "search the EDINET catalog for one issuer, refreshing it first if stale",
	RunE: func(cmd *cobra.Command, args []string) error {
		sym, _ := cmd.Flags().GetString("sym")
		limit, _ := cmd.Flags().GetInt("limit")

		if err := env.indexer.EnsureFresh(cmd.Context(), model.SourceEDINET); err != nil {
			return err
		}

		docs, err := env.store.FindDocuments(model.Query{Ticker: sym, Source: model.SourceEDINET}, limit)
		if err != nil {
			return err
		}
		tui.RenderResults(cmd.OutOrStdout(), docs)
		return nil
	},
}

func init() {
	searchCmd.Flags().String("sym", "", "securities code or 4-digit ticker")
	searchCmd.Flags().Int("limit", 20, "maximum number of results")
	searchCmd.MarkFlagRequired("sym")
}

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "resolve an issuer and materialize its filings to disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		sym, _ := cmd.Flags().GetString("sym")
		limit, _ := cmd.Flags().GetInt("limit")
		formatStr, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = env.cfg.DownloadDir
		}

		req := download.Request{
			Source:     model.SourceEDINET,
			Ticker:     sym,
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
			fmt.Fprintf(cmd.ErrOrStderr(), "failed: %s: %v\n", failure.Document.ID, failure.Err)
		}
		if len(result.Failed) > 0 && len(result.Downloaded) == 0 {
			return result.Failed[0].Err
		}
		return nil
	},
}

func init() {
	downloadCmd.Flags().String("sym", "", "securities code or 4-digit ticker")
	downloadCmd.Flags().Int("limit", 5, "maximum number of filings to download")
	downloadCmd.Flags().String("format", string(model.FormatXBRL), "payload format: xbrl, pdf, complete-package")
	downloadCmd.Flags().String("output", "", "download directory root (default: config download_dir)")
	downloadCmd.MarkFlagRequired("sym")
}

var readCmd = &cobra.Command{
	Use:   "read <docid>",
	Short: "print one catalog row's metadata by document ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := env.store.GetDocument(model.SourceEDINET, args[0])
		if err != nil {
			return err
		}
		if doc == nil {
			return &errs.UnknownIssuerError{Ticker: args[0], Source: string(model.SourceEDINET)}
		}
		tui.RenderResults(cmd.OutOrStdout(), []model.Document{*doc})
		if doc.Metadata != "" {
			fmt.Fprintln(cmd.OutOrStdout(), doc.Metadata)
		}
		return nil
	},
}
