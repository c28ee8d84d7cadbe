package cmd

import (
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kyleseneker/matomo-contract/internal/invoke"
)

var methodsGroup string

// methodsCmd represents the methods command
var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List every tracker operation with its parameters",
	Long: `Prints the tracker contract: each operation, the group it belongs to,
its parameters (a trailing '?' marks an optional one) and what it returns.`,
	Run: func(cmd *cobra.Command, args []string) {
		renderMethods(cmd.OutOrStdout(), methodsGroup)
	},
}

func init() {
	methodsCmd.Flags().StringVar(&methodsGroup, "group", "", "Only list operations of this group (e.g. consent, e-commerce)")
	rootCmd.AddCommand(methodsCmd)
}

func renderMethods(out io.Writer, group string) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Group", "Operation", "Parameters", "Returns"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)

	for _, op := range invoke.Catalogue() {
		if group != "" && !strings.EqualFold(op.Group, group) {
			continue
		}
		params := make([]string, len(op.Params))
		for i, p := range op.Params {
			name := p.Name
			if p.Optional {
				name += "?"
			}
			params[i] = name + ":" + string(p.Kind)
		}
		table.Append([]string{op.Group, op.Name, strings.Join(params, " "), op.Returns})
	}
	table.Render()
}
