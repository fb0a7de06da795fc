package main

import (
	"fmt"
	"strings"

	"github.com/naclports/naclports/internal/domain/trybots"
	"github.com/spf13/cobra"
)

var trybotsOpts = DefaultCommonOptions("text", "json", "yaml")

// trybotsCmd prints the trybots recommended for changes to the tree.
var trybotsCmd = &cobra.Command{
	Use:   "trybots",
	Short: "Print the preferred try masters and bots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runTrybotsAction(cmd, &trybotsOpts)
	},
}

func init() {
	rootCmd.AddCommand(trybotsCmd)
	trybotsOpts.RegisterFlags(trybotsCmd)
}

func runTrybotsAction(cmd *cobra.Command, opts *CommonOptions) error {
	if err := opts.ValidateFlags(); err != nil {
		return err
	}

	masters := trybots.PreferredTryMasters(nil)

	writer, closeWriter, err := opts.OpenWriter(cmd)
	if err != nil {
		return err
	}
	defer func() {
		_ = closeWriter() // Best-effort cleanup
	}()

	return writeValue(writer, opts.Format, masters, formatTryMasters(masters))
}

func formatTryMasters(masters trybots.TryMasters) string {
	var sb strings.Builder
	for i, master := range masters.Masters() {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s:\n", master)
		for _, bot := range masters.BotsFor(master) {
			fmt.Fprintf(&sb, "  %s [%s]\n", bot, strings.Join(masters[master][bot], ", "))
		}
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
