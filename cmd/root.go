package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/praetorian-inc/ssmhosts/internal/helpers"
	"github.com/praetorian-inc/ssmhosts/internal/logs"
	"github.com/praetorian-inc/ssmhosts/internal/message"
	o "github.com/praetorian-inc/ssmhosts/internal/options"
	"github.com/praetorian-inc/ssmhosts/internal/session"
	"github.com/praetorian-inc/ssmhosts/pkg/fleet"
	"github.com/praetorian-inc/ssmhosts/pkg/sshconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ssmhosts",
	Short: "List, reach and update EC2 and hybrid instances managed by AWS Systems Manager.",
	Long: `ssmhosts lists instances registered with AWS Systems Manager, names them from
their Name tag, and can write an ssh config fragment, start shell or RDP
sessions, or request SSM agent updates for them.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if cmd, err := rootCmd.ExecuteC(); err != nil {
		message.Critical(operationFor(cmd, err), err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ssmhosts.yaml)")
	o.AddFlags(rootCmd.PersistentFlags(),
		o.ProfileOpt,
		o.RegionOpt,
		o.PlatformOpt,
		o.SearchOpt,
		o.LogLevelOpt,
		o.NoColorOpt,
		o.QuietOpt,
	)
	rootCmd.SetContext(context.Background())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".ssmhosts" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ssmhosts")
	}

	viper.SetEnvPrefix("ssmhosts")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setup(cmd *cobra.Command, args []string) error {
	noColor := viper.GetBool(o.NoColorOpt.Name)
	message.SetNoColor(noColor)
	message.SetQuiet(viper.GetBool(o.QuietOpt.Name))

	level, err := logs.ParseLevel(viper.GetString(o.LogLevelOpt.Name))
	if err != nil {
		return err
	}
	logs.ConsoleLogger(level, noColor)

	if err := o.Validate(o.RegionOpt, viper.GetString(o.RegionOpt.Name)); err != nil {
		return err
	}
	return o.Validate(o.PlatformOpt, o.GetStringSlice(o.PlatformOpt)...)
}

// operationFor names the failing step for the one-line diagnostic.
func operationFor(cmd *cobra.Command, err error) string {
	var (
		credErr     *helpers.CredentialError
		discErr     *fleet.DiscoveryError
		metaErr     *fleet.MetadataResolutionError
		persistErr  *sshconfig.PersistenceError
		dispatchErr *fleet.CommandDispatchError
		execErr     *session.ExecError
	)

	switch {
	case errors.As(err, &credErr):
		return "credentials"
	case errors.As(err, &discErr):
		return "discover instances (" + fleet.Reason(err) + ")"
	case errors.As(err, &metaErr):
		return "resolve instance names (" + fleet.Reason(err) + ")"
	case errors.As(err, &persistErr):
		return "write ssh config"
	case errors.As(err, &dispatchErr):
		return "request agent update (" + fleet.Reason(err) + ")"
	case errors.As(err, &execErr):
		return "start session"
	case cmd != nil:
		return cmd.CommandPath()
	default:
		return "ssmhosts"
	}
}
