package cmd

import (
	"github.com/praetorian-inc/ssmhosts/internal/message"
	o "github.com/praetorian-inc/ssmhosts/internal/options"
	"github.com/praetorian-inc/ssmhosts/pkg/sshconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var sshConfigCmd = &cobra.Command{
	Use:   "ssh-config",
	Short: "Write an ssh config fragment for the managed instances",
	Long: `Write an ssh config fragment with one Host block per managed instance.
Hosts are reachable by Name tag, instance id, or short computer name, and
connect through an SSM session (AWS-StartSSHSession).

The fragment is written to ~/.ssh/ssmhosts/<profile>.conf with mode 0600.
Include it from ~/.ssh/config:

  Include ssmhosts/*.conf`,
	Args: cobra.NoArgs,
	RunE: runSSHConfig,
}

func init() {
	o.AddFlags(sshConfigCmd.Flags(), o.AliasOpt, o.ConfigPathOpt, o.StdoutOpt)
	rootCmd.AddCommand(sshConfigCmd)
}

func runSSHConfig(cmd *cobra.Command, args []string) error {
	sess, records, err := discoverInstances(cmd)
	if err != nil {
		return err
	}

	if sess.UsingEnvCredentials() {
		message.Warning("No named profile in use; the fragment will rely on ambient credentials (environment, instance or container role)")
	}

	artifact := sshconfig.Generate(records, sshconfig.Options{
		AccessAlias:         viper.GetString(o.AliasOpt.Name),
		UsingEnvCredentials: sess.UsingEnvCredentials(),
		Profile:             sess.EffectiveProfile(),
		Region:              sess.Config.Region,
	})

	if viper.GetBool(o.StdoutOpt.Name) {
		_, err := cmd.OutOrStdout().Write(artifact)
		return err
	}

	path := viper.GetString(o.ConfigPathOpt.Name)
	if path == "" {
		path, err = sshconfig.DefaultPath(sess.ProfileLabel())
		if err != nil {
			return err
		}
	}

	if err := sshconfig.Persist(artifact, path); err != nil {
		return err
	}
	message.Success("Wrote %d hosts to %s", len(records), path)
	return nil
}
