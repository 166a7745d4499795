package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/praetorian-inc/ssmhosts/internal/message"
	o "github.com/praetorian-inc/ssmhosts/internal/options"
	"github.com/praetorian-inc/ssmhosts/pkg/outputters"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List managed instances",
	Long: `List instances registered with Systems Manager.

Output formats:
  table  bordered table, cells truncated to 40 characters
  ids    one instance id per line
  plain  borderless columns without headers, for scripts
  json   full records`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	o.AddFlags(listCmd.Flags(), o.OutputFormatOpt, o.WideOpt)
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := outputters.ParseFormat(viper.GetString(o.OutputFormatOpt.Name))
	if err != nil {
		return err
	}

	_, records, err := discoverInstances(cmd)
	if err != nil {
		return err
	}

	message.Success("Found %d instances", len(records))
	return outputters.WriteInstances(cmd.OutOrStdout(), records, outputters.Options{
		Format: format,
		Wide:   viper.GetBool(o.WideOpt.Name),
		Color:  !viper.GetBool(o.NoColorOpt.Name) && isatty.IsTerminal(os.Stdout.Fd()),
	})
}
