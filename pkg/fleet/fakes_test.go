package fleet

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// fakeInventory serves pages in order, handing out "page-N" tokens on all
// but the last page.
type fakeInventory struct {
	pages  [][]ssmtypes.InstanceInformation
	failAt int
	err    error
	inputs []ssm.DescribeInstanceInformationInput
}

func (f *fakeInventory) DescribeInstanceInformation(ctx context.Context, params *ssm.DescribeInstanceInformationInput, optFns ...func(*ssm.Options)) (*ssm.DescribeInstanceInformationOutput, error) {
	f.inputs = append(f.inputs, *params)

	index := 0
	if params.NextToken != nil {
		n, err := strconv.Atoi((*params.NextToken)[len("page-"):])
		if err != nil {
			return nil, err
		}
		index = n
	}

	if f.err != nil && index == f.failAt {
		return nil, f.err
	}
	if index >= len(f.pages) {
		return &ssm.DescribeInstanceInformationOutput{}, nil
	}

	out := &ssm.DescribeInstanceInformationOutput{InstanceInformationList: f.pages[index]}
	if index < len(f.pages)-1 {
		out.NextToken = aws.String(fmt.Sprintf("page-%d", index+1))
	}
	return out, nil
}

// fakeTags answers DescribeTags from a map of instance id to Name value.
type fakeTags struct {
	names map[string]string
	fail  map[string]error
	calls []string
}

func (f *fakeTags) DescribeTags(ctx context.Context, params *ec2.DescribeTagsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeTagsOutput, error) {
	var id string
	for _, filter := range params.Filters {
		if aws.ToString(filter.Name) == "resource-id" && len(filter.Values) > 0 {
			id = filter.Values[0]
		}
	}
	f.calls = append(f.calls, id)

	if err, ok := f.fail[id]; ok {
		return nil, err
	}

	out := &ec2.DescribeTagsOutput{}
	if name, ok := f.names[id]; ok {
		out.Tags = []ec2types.TagDescription{
			{
				Key:          aws.String(NameTagKey),
				Value:        aws.String(name),
				ResourceId:   aws.String(id),
				ResourceType: ec2types.ResourceTypeInstance,
			},
		}
	}
	return out, nil
}

type fakeSSMTags struct {
	tags  map[string][]ssmtypes.Tag
	err   error
	calls []string
}

func (f *fakeSSMTags) ListTagsForResource(ctx context.Context, params *ssm.ListTagsForResourceInput, optFns ...func(*ssm.Options)) (*ssm.ListTagsForResourceOutput, error) {
	f.calls = append(f.calls, aws.ToString(params.ResourceId))
	if f.err != nil {
		return nil, f.err
	}
	return &ssm.ListTagsForResourceOutput{TagList: f.tags[aws.ToString(params.ResourceId)]}, nil
}

type fakeSendCommand struct {
	input *ssm.SendCommandInput
	err   error
	calls int
}

func (f *fakeSendCommand) SendCommand(ctx context.Context, params *ssm.SendCommandInput, optFns ...func(*ssm.Options)) (*ssm.SendCommandOutput, error) {
	f.calls++
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ssm.SendCommandOutput{
		Command: &ssmtypes.Command{CommandId: aws.String("cmd-0123456789")},
	}, nil
}

func info(id, ip, computer, platform string, latest bool) ssmtypes.InstanceInformation {
	return ssmtypes.InstanceInformation{
		InstanceId:      aws.String(id),
		IPAddress:       aws.String(ip),
		ComputerName:    aws.String(computer),
		PlatformName:    aws.String(platform),
		PlatformType:    ssmtypes.PlatformTypeLinux,
		IsLatestVersion: aws.Bool(latest),
		PingStatus:      ssmtypes.PingStatusOnline,
		AgentVersion:    aws.String("3.3.40.0"),
	}
}

// repeatingInventory hands back the same continuation token forever. It
// errors after limit calls so a missing duplicate check fails instead of
// hanging.
type repeatingInventory struct {
	limit int
	calls int
}

func (f *repeatingInventory) DescribeInstanceInformation(ctx context.Context, params *ssm.DescribeInstanceInformationInput, optFns ...func(*ssm.Options)) (*ssm.DescribeInstanceInformationOutput, error) {
	f.calls++
	if f.calls > f.limit {
		return nil, fmt.Errorf("still paginating after %d calls", f.limit)
	}
	return &ssm.DescribeInstanceInformationOutput{
		InstanceInformationList: []ssmtypes.InstanceInformation{
			info(fmt.Sprintf("i-%03d", f.calls), "", "", "", true),
		},
		NextToken: aws.String("same"),
	}, nil
}

// repeatingTags returns no Name tag and the same continuation token forever.
type repeatingTags struct {
	limit int
	calls int
}

func (f *repeatingTags) DescribeTags(ctx context.Context, params *ec2.DescribeTagsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeTagsOutput, error) {
	f.calls++
	if f.calls > f.limit {
		return nil, fmt.Errorf("still paginating after %d calls", f.limit)
	}
	return &ec2.DescribeTagsOutput{NextToken: aws.String("same")}, nil
}
