package fleet

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// NameTagKey is the tag whose value becomes a record's display name.
const NameTagKey = "Name"

// NameResolver looks up the display name of one instance.
type NameResolver interface {
	ResolveName(ctx context.Context, instanceID string) (string, error)
}

// SSMTagsAPI is the subset of the SSM client used for hybrid instance tags.
type SSMTagsAPI interface {
	ListTagsForResource(ctx context.Context, params *ssm.ListTagsForResourceInput, optFns ...func(*ssm.Options)) (*ssm.ListTagsForResourceOutput, error)
}

// TagResolver resolves names from EC2 tags, or SSM tags for hybrid
// (mi-) managed instances.
type TagResolver struct {
	ec2Client ec2.DescribeTagsAPIClient
	ssmClient SSMTagsAPI
	logger    *slog.Logger
}

func NewTagResolver(ec2Client ec2.DescribeTagsAPIClient, ssmClient SSMTagsAPI, logger *slog.Logger) *TagResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &TagResolver{
		ec2Client: ec2Client,
		ssmClient: ssmClient,
		logger:    logger,
	}
}

// ResolveName returns the value of the instance's Name tag, or "" when it has none.
func (r *TagResolver) ResolveName(ctx context.Context, instanceID string) (string, error) {
	if strings.HasPrefix(instanceID, "mi-") && r.ssmClient != nil {
		return r.resolveManaged(ctx, instanceID)
	}
	return r.resolveEC2(ctx, instanceID)
}

func (r *TagResolver) resolveEC2(ctx context.Context, instanceID string) (string, error) {
	paginator := ec2.NewDescribeTagsPaginator(r.ec2Client, &ec2.DescribeTagsInput{
		Filters: []ec2types.Filter{
			{
				Name:   aws.String("resource-id"),
				Values: []string{instanceID},
			},
			{
				Name:   aws.String("key"),
				Values: []string{NameTagKey},
			},
		},
	}, func(o *ec2.DescribeTagsPaginatorOptions) {
		o.StopOnDuplicateToken = true
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			r.logger.Debug("DescribeTags failed", "instance", instanceID, "error", err)
			return "", &MetadataResolutionError{InstanceID: instanceID, Err: err}
		}

		for _, tag := range page.Tags {
			if aws.ToString(tag.Key) == NameTagKey {
				return aws.ToString(tag.Value), nil
			}
		}
	}

	r.logger.Debug("no Name tag", "instance", instanceID)
	return "", nil
}

func (r *TagResolver) resolveManaged(ctx context.Context, instanceID string) (string, error) {
	out, err := r.ssmClient.ListTagsForResource(ctx, &ssm.ListTagsForResourceInput{
		ResourceId:   aws.String(instanceID),
		ResourceType: ssmtypes.ResourceTypeForTaggingManagedInstance,
	})
	if err != nil {
		r.logger.Debug("ListTagsForResource failed", "instance", instanceID, "error", err)
		return "", &MetadataResolutionError{InstanceID: instanceID, Err: err}
	}

	for _, tag := range out.TagList {
		if aws.ToString(tag.Key) == NameTagKey {
			return aws.ToString(tag.Value), nil
		}
	}
	return "", nil
}
