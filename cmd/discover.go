package cmd

import (
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/praetorian-inc/ssmhosts/internal/helpers"
	"github.com/praetorian-inc/ssmhosts/internal/message"
	o "github.com/praetorian-inc/ssmhosts/internal/options"
	"github.com/praetorian-inc/ssmhosts/pkg/fleet"
	"github.com/praetorian-inc/ssmhosts/pkg/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// discoverInstances establishes the session, lists managed instances and
// applies --search.
func discoverInstances(cmd *cobra.Command) (*helpers.Session, []types.InstanceRecord, error) {
	ctx := cmd.Context()

	sess, err := helpers.NewSession(ctx, viper.GetString(o.ProfileOpt.Name), viper.GetString(o.RegionOpt.Name))
	if err != nil {
		return nil, nil, err
	}

	ssmClient := ssm.NewFromConfig(sess.Config)
	resolver := fleet.NewTagResolver(ec2.NewFromConfig(sess.Config), ssmClient, slog.Default())
	discoverer := fleet.NewDiscoverer(ssmClient, resolver, slog.Default())

	message.Info("Discovering managed instances in %s (%s)", sess.Config.Region, sess.ProfileLabel())
	records, err := discoverer.Discover(ctx, platforms())
	if err != nil {
		return nil, nil, err
	}

	filtered := fleet.Filter(records, viper.GetString(o.SearchOpt.Name))
	slog.Debug("filtered instances", "total", len(records), "matched", len(filtered))
	return sess, filtered, nil
}

func platforms() []string {
	var out []string
	for _, p := range o.GetStringSlice(o.PlatformOpt) {
		out = append(out, o.Canonical(o.PlatformOpt, p))
	}
	return out
}
