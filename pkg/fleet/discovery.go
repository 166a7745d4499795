package fleet

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/praetorian-inc/ssmhosts/pkg/types"
)

// PageSize is the MaxResults sent with each DescribeInstanceInformation call.
const PageSize = 50

// SupportedPlatforms is used when no platform filter is given.
var SupportedPlatforms = []string{
	string(ssmtypes.PlatformTypeLinux),
	string(ssmtypes.PlatformTypeWindows),
}

// Discoverer lists SSM managed instances and attaches their display names.
type Discoverer struct {
	client   ssm.DescribeInstanceInformationAPIClient
	resolver NameResolver
	logger   *slog.Logger
}

func NewDiscoverer(client ssm.DescribeInstanceInformationAPIClient, resolver NameResolver, logger *slog.Logger) *Discoverer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discoverer{
		client:   client,
		resolver: resolver,
		logger:   logger,
	}
}

// Discover returns every managed instance on the given platforms, in the
// order the service returned them. Names are resolved only after the
// listing completes; any failure discards the whole result.
func (d *Discoverer) Discover(ctx context.Context, platforms []string) ([]types.InstanceRecord, error) {
	if len(platforms) == 0 {
		platforms = SupportedPlatforms
	}

	infos, err := d.list(ctx, platforms)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("listed managed instances", "count", len(infos), "platforms", platforms)

	records := make([]types.InstanceRecord, 0, len(infos))
	for _, info := range infos {
		record := newRecord(info)

		name, err := d.resolver.ResolveName(ctx, record.InstanceID)
		if err != nil {
			return nil, err
		}
		record.DisplayName = name
		records = append(records, record)
	}

	return records, nil
}

func (d *Discoverer) list(ctx context.Context, platforms []string) ([]ssmtypes.InstanceInformation, error) {
	paginator := ssm.NewDescribeInstanceInformationPaginator(d.client, &ssm.DescribeInstanceInformationInput{
		Filters: []ssmtypes.InstanceInformationStringFilter{
			{
				Key:    aws.String("PlatformTypes"),
				Values: platforms,
			},
		},
		MaxResults: aws.Int32(PageSize),
	}, func(o *ssm.DescribeInstanceInformationPaginatorOptions) {
		o.StopOnDuplicateToken = true
	})

	var infos []ssmtypes.InstanceInformation
	pages := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, &DiscoveryError{Op: "DescribeInstanceInformation", Err: err}
		}
		pages++
		d.logger.Debug("received page", "page", pages, "items", len(page.InstanceInformationList))
		infos = append(infos, page.InstanceInformationList...)
	}

	return infos, nil
}

func newRecord(info ssmtypes.InstanceInformation) types.InstanceRecord {
	return types.InstanceRecord{
		InstanceID:    aws.ToString(info.InstanceId),
		IPAddress:     aws.ToString(info.IPAddress),
		ComputerName:  aws.ToString(info.ComputerName),
		PlatformName:  aws.ToString(info.PlatformName),
		AgentUpToDate: aws.ToBool(info.IsLatestVersion),
		PlatformType:  string(info.PlatformType),
		PingStatus:    string(info.PingStatus),
		AgentVersion:  aws.ToString(info.AgentVersion),
	}
}
