package cmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/praetorian-inc/ssmhosts/internal/message"
	o "github.com/praetorian-inc/ssmhosts/internal/options"
	"github.com/praetorian-inc/ssmhosts/pkg/fleet"
	"github.com/praetorian-inc/ssmhosts/pkg/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var updateCmd = &cobra.Command{
	Use:   "update-agent",
	Short: "Request an SSM agent update on managed instances",
	Long: `Send one AWS-UpdateSSMAgent command to the matched instances. By default
only instances whose agent is not the latest version are targeted.

The command returns once Systems Manager accepts the request; it does not wait
for the update to finish on each instance.`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	o.AddFlags(updateCmd.Flags(), o.AllOpt, o.YesOpt)
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	sess, records, err := discoverInstances(cmd)
	if err != nil {
		return err
	}

	ids := fleet.StaleAgents(records)
	if viper.GetBool(o.AllOpt.Name) {
		ids = types.InstanceIDs(records)
	}
	if len(ids) == 0 {
		message.Success("No instances need an agent update")
		return nil
	}

	if !viper.GetBool(o.YesOpt.Name) && !confirm(cmd, fmt.Sprintf("Update the SSM agent on %d instances?", len(ids))) {
		message.Warning("Aborted")
		return nil
	}

	updater := fleet.NewUpdater(ssm.NewFromConfig(sess.Config), slog.Default())
	outcome, err := updater.RequestUpdate(cmd.Context(), ids)
	if err != nil {
		return err
	}

	message.Success("Update requested for %d instances (command %s)", outcome.Targets, outcome.CommandID)
	return nil
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N] ", prompt)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
