package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kyleseneker/matomo-contract/internal/config"
	"github.com/kyleseneker/matomo-contract/internal/invoke"
	"github.com/kyleseneker/matomo-contract/internal/journal"
	"github.com/kyleseneker/matomo-contract/internal/logging"
)

var (
	journalMethod string
	journalLast   bool
)

// journalCmd represents the journal command
var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "List the tracking calls recorded in the journal",
	Long: `Loads the configured journal (file or SQL) and prints every recorded
tracking call in the order it was made. Use --method to show one operation only,
and add --last to show only its most recent call.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := listJournal(cmd.OutOrStdout(), cfgFile, journalOverride, journalMethod, journalLast); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func init() {
	journalCmd.Flags().StringVar(&journalMethod, "method", "", "Only list calls of this operation (case-insensitive)")
	journalCmd.Flags().BoolVar(&journalLast, "last", false, "Only show the most recent call of --method")
	rootCmd.AddCommand(journalCmd)
}

func listJournal(out io.Writer, configPath, journalType, method string, last bool) error {
	if last && method == "" {
		return errors.New("--last needs --method")
	}

	cfg, err := config.LoadConfig(configPath, journalType)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	logging.InitializeLogger(cfg.LogLevel, cfg.LogFormat)

	j, err := journal.Open(cfg)
	if err != nil {
		return fmt.Errorf("error opening journal: %w", err)
	}
	defer j.Close()

	if last {
		op, ok := invoke.Lookup(method)
		if !ok {
			return fmt.Errorf("%w %q", invoke.ErrUnknownMethod, method)
		}
		call, ok := j.LastCall(op.Name)
		if !ok {
			return renderCalls(out, nil, "")
		}
		return renderCalls(out, []journal.Call{call}, "")
	}

	calls, err := j.Calls()
	if err != nil {
		return fmt.Errorf("error reading journal: %w", err)
	}

	return renderCalls(out, calls, method)
}

func renderCalls(out io.Writer, calls []journal.Call, method string) error {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Time", "Method", "Arguments", "Result", "Call ID"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)

	shown := 0
	for _, c := range calls {
		if method != "" && !strings.EqualFold(c.Method, method) {
			continue
		}
		args, err := json.Marshal(c.Args)
		if err != nil {
			return fmt.Errorf("error encoding arguments of call %s: %w", c.ID, err)
		}
		var result []byte
		if c.Result != nil {
			if result, err = json.Marshal(c.Result); err != nil {
				return fmt.Errorf("error encoding result of call %s: %w", c.ID, err)
			}
		}
		table.Append([]string{
			c.Timestamp.Format(time.RFC3339),
			c.Method,
			string(args),
			string(result),
			c.ID.String(),
		})
		shown++
	}

	if shown == 0 {
		_, err := fmt.Fprintln(out, "No calls recorded.")
		return err
	}
	table.Render()
	return nil
}
