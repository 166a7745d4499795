package fleet

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/praetorian-inc/ssmhosts/pkg/types"
)

const (
	// UpdateDocument is the AWS-owned document that upgrades the SSM agent.
	UpdateDocument        = "AWS-UpdateSSMAgent"
	UpdateDocumentVersion = "$LATEST"
)

// SendCommandAPI is the subset of the SSM client used to dispatch commands.
type SendCommandAPI interface {
	SendCommand(ctx context.Context, params *ssm.SendCommandInput, optFns ...func(*ssm.Options)) (*ssm.SendCommandOutput, error)
}

// UpdateOutcome describes an accepted update request. Completion on the
// instances themselves is not tracked.
type UpdateOutcome struct {
	CommandID string
	Targets   int
}

type Updater struct {
	client SendCommandAPI
	logger *slog.Logger
}

func NewUpdater(client SendCommandAPI, logger *slog.Logger) *Updater {
	if logger == nil {
		logger = slog.Default()
	}
	return &Updater{client: client, logger: logger}
}

// RequestUpdate sends one AWS-UpdateSSMAgent command covering every id.
func (u *Updater) RequestUpdate(ctx context.Context, instanceIDs []string) (UpdateOutcome, error) {
	if len(instanceIDs) == 0 {
		u.logger.Debug("no instances to update")
		return UpdateOutcome{}, nil
	}

	out, err := u.client.SendCommand(ctx, &ssm.SendCommandInput{
		DocumentName:    aws.String(UpdateDocument),
		DocumentVersion: aws.String(UpdateDocumentVersion),
		InstanceIds:     instanceIDs,
		Comment:         aws.String("ssmhosts agent update"),
	})
	if err != nil {
		return UpdateOutcome{}, &CommandDispatchError{Document: UpdateDocument, Err: err}
	}

	outcome := UpdateOutcome{Targets: len(instanceIDs)}
	if out.Command != nil {
		outcome.CommandID = aws.ToString(out.Command.CommandId)
	}
	u.logger.Debug("update command accepted", "command", outcome.CommandID, "targets", outcome.Targets)
	return outcome, nil
}

// StaleAgents returns the ids of records whose agent is not current.
func StaleAgents(records []types.InstanceRecord) []string {
	var ids []string
	for _, r := range records {
		if !r.AgentUpToDate {
			ids = append(ids, r.InstanceID)
		}
	}
	return ids
}
