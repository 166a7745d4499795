package cmd

import (
	"os"

	"github.com/praetorian-inc/ssmhosts/internal/message"
	o "github.com/praetorian-inc/ssmhosts/internal/options"
	"github.com/praetorian-inc/ssmhosts/internal/session"
	"github.com/praetorian-inc/ssmhosts/pkg/fleet"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var shellCmd = &cobra.Command{
	Use:   "shell <instance-id|name|search>",
	Short: "Open an SSM shell session on an instance",
	Long: `Replace this process with 'aws ssm start-session' on the target. The target
is matched by instance id, then Name tag, then as a search term that must
match exactly one instance. Requires the AWS CLI and Session Manager plugin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return startSession(cmd, args[0], func(id, region string) []string {
			return session.Shell(id, region)
		})
	},
}

var rdpCmd = &cobra.Command{
	Use:   "rdp <instance-id|name|search>",
	Short: "Forward RDP from an instance to a local port",
	Long: `Replace this process with an SSM port forwarding session from the target's
port 3389 to --local-port on localhost.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		localPort := viper.GetInt(o.LocalPortOpt.Name)
		message.Info("Connect your RDP client to localhost:%d", localPort)
		return startSession(cmd, args[0], func(id, region string) []string {
			return session.PortForward(id, region, session.RDPPort, localPort)
		})
	},
}

func init() {
	o.AddFlags(rdpCmd.Flags(), o.LocalPortOpt)
	rootCmd.AddCommand(shellCmd, rdpCmd)
}

func startSession(cmd *cobra.Command, target string, argv func(id, region string) []string) error {
	sess, records, err := discoverInstances(cmd)
	if err != nil {
		return err
	}

	record, err := fleet.ResolveTarget(records, target)
	if err != nil {
		return err
	}

	creds, err := sess.Credentials(cmd.Context())
	if err != nil {
		return err
	}

	region := sess.Config.Region
	plan, err := session.NewPlan(argv(record.InstanceID, region), session.Environment(os.Environ(), creds, region))
	if err != nil {
		return err
	}

	message.Info("Starting session on %s (%s)", record.InstanceID, record.DisplayName)
	return session.Exec(plan)
}
