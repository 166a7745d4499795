// Package session hands the terminal over to an `aws ssm start-session`
// child, passing credentials through an explicit environment.
package session

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
)

const (
	// PortForwardDocument forwards a remote port to localhost.
	PortForwardDocument = "AWS-StartPortForwardingSession"
	// RDPPort is the remote port forwarded by the rdp command.
	RDPPort = 3389
	// DefaultLocalRDPPort avoids clashing with a local RDP listener.
	DefaultLocalRDPPort = 33389
)

// ExecError is returned when the session process cannot be started.
type ExecError struct {
	Binary string
	Err    error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("could not start %s: %v", e.Binary, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// Plan is a fully resolved child process.
type Plan struct {
	Binary string
	Args   []string
	Env    []string
}

// Shell plans an interactive shell session on instanceID.
func Shell(instanceID, region string) []string {
	return []string{"aws", "ssm", "start-session", "--target", instanceID, "--region", region}
}

// PortForward plans forwarding remotePort on instanceID to localPort.
func PortForward(instanceID, region string, remotePort, localPort int) []string {
	params := fmt.Sprintf(`{"portNumber":["%d"],"localPortNumber":["%d"]}`, remotePort, localPort)
	return []string{
		"aws", "ssm", "start-session",
		"--target", instanceID,
		"--region", region,
		"--document-name", PortForwardDocument,
		"--parameters", params,
	}
}

// credentialVars are stripped from the inherited environment so the child
// sees only the session's own credentials.
var credentialVars = []string{
	"AWS_PROFILE",
	"AWS_DEFAULT_PROFILE",
	"AWS_ACCESS_KEY_ID",
	"AWS_SECRET_ACCESS_KEY",
	"AWS_SESSION_TOKEN",
	"AWS_SECURITY_TOKEN",
	"AWS_REGION",
	"AWS_DEFAULT_REGION",
}

// Environment builds the child environment from base (usually os.Environ())
// and the resolved credentials.
func Environment(base []string, creds aws.Credentials, region string) []string {
	env := make([]string, 0, len(base)+5)
	for _, kv := range base {
		if isCredentialVar(kv) {
			continue
		}
		env = append(env, kv)
	}

	env = append(env,
		"AWS_ACCESS_KEY_ID="+creds.AccessKeyID,
		"AWS_SECRET_ACCESS_KEY="+creds.SecretAccessKey,
	)
	if creds.SessionToken != "" {
		env = append(env, "AWS_SESSION_TOKEN="+creds.SessionToken)
	}
	if region != "" {
		env = append(env, "AWS_REGION="+region, "AWS_DEFAULT_REGION="+region)
	}
	return env
}

func isCredentialVar(kv string) bool {
	name, _, _ := strings.Cut(kv, "=")
	for _, v := range credentialVars {
		if name == v {
			return true
		}
	}
	return false
}

// NewPlan resolves argv[0] on PATH and attaches the child environment.
func NewPlan(argv []string, env []string) (Plan, error) {
	if len(argv) == 0 {
		return Plan{}, &ExecError{Binary: "", Err: fmt.Errorf("empty command")}
	}
	binary, err := exec.LookPath(argv[0])
	if err != nil {
		return Plan{}, &ExecError{Binary: argv[0], Err: err}
	}
	return Plan{Binary: binary, Args: argv, Env: env}, nil
}

// String renders the plan for logging, without the environment.
func (p Plan) String() string {
	quoted := make([]string, len(p.Args))
	for i, a := range p.Args {
		if strings.ContainsAny(a, " \"{}") {
			a = strconv.Quote(a)
		}
		quoted[i] = a
	}
	return strings.Join(quoted, " ")
}
