package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/kyleseneker/matomo-contract/internal/config"
	"github.com/kyleseneker/matomo-contract/internal/invoke"
	"github.com/kyleseneker/matomo-contract/internal/journal"
	"github.com/kyleseneker/matomo-contract/internal/logging"
	"github.com/kyleseneker/matomo-contract/internal/recorder"
	"github.com/kyleseneker/matomo-contract/internal/tracker"
)

// trackCmd represents the track command
var trackCmd = &cobra.Command{
	Use:   "track <method> [args...]",
	Short: "Invoke one tracker operation and record it in the journal",
	Long: `Builds a recording tracker from the configuration, makes it the current
tracker and invokes the named operation with the given arguments.

Method names are matched without case, so both TrackEvent and trackEvent work.
Pass '-' to omit an optional argument that precedes one you want to set.
Categories and domain lists are comma separated; write \, for a comma
inside a name.

State from earlier runs (visitor id, consent, user id, cart) is restored from
the journal before the operation runs.`,
	Example: `  matomo-contract track trackEvent Videos Play Intro 42
  matomo-contract track addEcommerceItem SKU-1 Dune Books,Fiction 9.99
  matomo-contract track getVisitorId`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runTrack(cmd.OutOrStdout(), cfgFile, journalOverride, args[0], args[1:]); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(trackCmd)
}

func runTrack(out io.Writer, configPath, journalType, method string, args []string) error {
	cfg, err := config.LoadConfig(configPath, journalType)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	logging.InitializeLogger(cfg.LogLevel, cfg.LogFormat)
	logger := logging.Get()

	j, err := journal.Open(cfg)
	if err != nil {
		return fmt.Errorf("error opening journal: %w", err)
	}
	defer func() {
		if err := j.Close(); err != nil {
			logger.Error("Error closing journal", "error", err)
		}
	}()

	unsubscribe := tracker.Shared().Subscribe(func(t tracker.Tracker) {
		logger.Debug("Current tracker assigned", "type", fmt.Sprintf("%T", t))
	})
	defer unsubscribe()

	rec := newRecorder(cfg, j, logger)
	if err := rec.Restore(); err != nil {
		return fmt.Errorf("error restoring tracker state: %w", err)
	}
	tracker.SetCurrent(rec)

	current, err := tracker.Current()
	if err != nil {
		return err
	}

	result, err := invoke.Dispatch(current, method, args)
	if err != nil {
		return err
	}
	if err := rec.Err(); err != nil {
		return fmt.Errorf("error recording call: %w", err)
	}
	logger.Info("Tracking call recorded", "method", method, "journal", cfg.JournalType)

	if result != nil {
		return printResult(out, result)
	}
	return nil
}

func newRecorder(cfg *config.Config, j journal.Journal, logger logging.Logger) *recorder.Recorder {
	opts := []recorder.Option{
		recorder.WithLogger(logger),
		recorder.WithDefaultScope(cfg.DefaultScope),
		recorder.WithCrossDomainParameter(cfg.CrossDomainParameter),
	}
	if cfg.VisitorID != "" {
		opts = append(opts, recorder.WithVisitorID(tracker.VisitorID(cfg.VisitorID)))
	}
	return recorder.New(j, opts...)
}

func printResult(out io.Writer, result any) error {
	switch v := result.(type) {
	case string, bool, tracker.VisitorID:
		_, err := fmt.Fprintln(out, v)
		return err
	default:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}
