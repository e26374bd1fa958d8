package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/garethgeorge/wordsort/internal/config"
	"github.com/garethgeorge/wordsort/internal/extsort"
	"github.com/garethgeorge/wordsort/internal/runstore"
	"github.com/garethgeorge/wordsort/internal/wordio"
)

var (
	flagConfig      string
	flagInput       string
	flagOutput      string
	flagTmpDir      string
	flagOrder       string
	flagWordWrap    int
	flagMaxTmpFiles int
	flagCompress    bool
	flagVerify      bool
)

var rootCmd = &cobra.Command{
	Use:   "wordsort",
	Short: "Externally sort a whitespace-delimited word file",
	Long: "wordsort sorts the words of a file too large to fit in memory by splitting it\n" +
		"into sorted temporary run files sized to the free-memory estimate and merging\n" +
		"them into a single sorted output file.",
	RunE:          runSort,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("wordsort v0.1.0")
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flagConfig, "config", config.DefaultPath, "configuration file")
	f.StringVar(&flagInput, "inputfile", "", "input file to sort (required)")
	f.StringVar(&flagOutput, "outputfile", "", "output file, opened in append mode (required)")
	f.StringVar(&flagTmpDir, "tmpfilesdirectory", "", "directory for temporary run files")
	f.StringVar(&flagOrder, "order", "", "sort order: asc or desc")
	f.IntVar(&flagWordWrap, "wordwrap", 0, "words per output line")
	f.IntVar(&flagMaxTmpFiles, "maxtmpfiles", 0, "maximum number of temporary run files")
	f.BoolVar(&flagCompress, "compress-runs", false, "zstd-compress temporary run files")
	f.BoolVar(&flagVerify, "verify-runs", false, "checksum temporary run files and verify them during merge")
	rootCmd.AddCommand(versionCmd, cleanCmd)
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("wordsort failed", "error", err)
		os.Exit(1)
	}
}

func runSort(cmd *cobra.Command, args []string) error {
	logger := slog.Default()

	logger.Info("loading configuration", "path", flagConfig)
	cfg, err := config.Load(flagConfig)
	if err != nil {
		logger.Warn("unable to load configuration file, using command line values or internal defaults",
			"error", err)
	}
	applyFlags(cmd, cfg, logger)

	// Required settings are checked before any I/O begins.
	if err := cfg.Validate(); err != nil {
		return err
	}

	fi, err := os.Stat(cfg.InputFile)
	if err != nil {
		return fmt.Errorf("stat input file %s: %w", cfg.InputFile, err)
	}

	store, err := buildStore(cfg)
	if err != nil {
		return err
	}

	src, err := wordio.Open(cfg.InputFile)
	if err != nil {
		return err
	}
	sink, err := wordio.OpenAppend(cfg.OutputFile)
	if err != nil {
		src.Close()
		return err
	}

	sorter := extsort.New(extsort.ForOrder(cfg.Order), store,
		extsort.WithMaxRuns(cfg.MaxTempFiles),
		extsort.WithWordWrap(cfg.WordWrap),
		extsort.WithLogger(logger))

	// On failure temp run files are intentionally left behind for inspection
	// or a later `wordsort clean`; the store is only released on success.
	if err := sorter.Sort(src, fi.Size(), sink); err != nil {
		return err
	}
	if err := store.Release(); err != nil {
		logger.Warn("failed to release run storage", "error", err)
	}

	logger.Info("sorted output file created successfully", "output", cfg.OutputFile)
	return nil
}

// applyFlags overlays explicitly set command-line flags onto cfg, completing
// the precedence chain command line > config file > built-in default.
func applyFlags(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) {
	fl := cmd.Flags()
	if fl.Changed("inputfile") {
		cfg.InputFile = flagInput
	}
	if fl.Changed("outputfile") {
		cfg.OutputFile = flagOutput
	}
	if fl.Changed("tmpfilesdirectory") {
		cfg.TmpFilesDirectory = flagTmpDir
	}
	if fl.Changed("order") {
		cfg.Order = flagOrder
	}
	if fl.Changed("wordwrap") {
		cfg.WordWrap = flagWordWrap
	}
	if fl.Changed("maxtmpfiles") {
		if flagMaxTmpFiles < 1 {
			logger.Warn("invalid max temp file value, continuing with previous value",
				"value", flagMaxTmpFiles, "using", cfg.MaxTempFiles)
		} else {
			cfg.MaxTempFiles = flagMaxTmpFiles
		}
	}
	if fl.Changed("compress-runs") {
		cfg.CompressRuns = flagCompress
	}
	if fl.Changed("verify-runs") {
		cfg.VerifyRuns = flagVerify
	}
}

func buildStore(cfg *config.Config) (runstore.Store, error) {
	store, err := runstore.NewDirStore(cfg.TmpFilesDirectory)
	if err != nil {
		return nil, fmt.Errorf("prepare temp files directory %s: %w", cfg.TmpFilesDirectory, err)
	}
	if cfg.VerifyRuns {
		store = runstore.NewChecksummedStore(store)
	}
	if cfg.CompressRuns {
		store = runstore.NewCompressedStore(store)
	}
	return store, nil
}
