package cmd

import (
	"github.com/praetorian-inc/ssmhosts/internal/message"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var docDir string

var docCmd = &cobra.Command{
	Use:    "gendoc",
	Short:  "Generate Markdown documentation",
	Long:   `Generate Markdown documentation for the CLI and its subcommands.`,
	Hidden: true,
	Args:   cobra.NoArgs,
	// Skip the AWS setup done for every other command.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		rootCmd.DisableAutoGenTag = true
		if err := doc.GenMarkdownTree(rootCmd, docDir); err != nil {
			return err
		}
		message.Success("Documentation generated in %s", docDir)
		return nil
	},
}

func init() {
	docCmd.Flags().StringVar(&docDir, "dir", "./docs", "output directory")
	rootCmd.AddCommand(docCmd)
}
