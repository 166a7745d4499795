package helpers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/processcreds"
	"github.com/aws/aws-sdk-go-v2/credentials/ssocreds"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go/middleware"
	"github.com/praetorian-inc/ssmhosts/internal/logs"
)

// envCredentialsSource is the Source reported by the SDK's environment
// credential provider.
const envCredentialsSource = config.CredentialsSourceName

// profileSources are credential Source prefixes that only a shared config
// profile can produce. The static shared-config source carries the file
// name after the prefix.
var profileSources = []string{
	"SharedConfigCredentials",
	ssocreds.ProviderName,
	processcreds.ProviderName,
	stscreds.ProviderName,
}

// CredentialError is returned when no usable AWS session can be established.
type CredentialError struct {
	Profile string
	Err     error
}

func (e *CredentialError) Error() string {
	if e.Profile == "" {
		return fmt.Sprintf("could not establish AWS session from the environment: %v", e.Err)
	}
	return fmt.Sprintf("could not establish AWS session for profile %s: %v", e.Profile, e.Err)
}

func (e *CredentialError) Unwrap() error { return e.Err }

// Session is a verified AWS configuration plus how it was obtained.
type Session struct {
	Config    aws.Config
	Profile   string
	AccountID string
	Arn       string

	credentialSource string
}

// CallerIdentityAPI is the subset of the STS client used to verify credentials.
type CallerIdentityAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// GetAWSCfg loads the shared AWS config for profile and region. SDK retries
// are disabled; every API error is surfaced to the caller as-is.
func GetAWSCfg(ctx context.Context, region string, profile string) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithLogger(logs.AwsLogger()),
		config.WithRetryer(func() aws.Retryer {
			return aws.NopRetryer{}
		}),
	}
	if slog.Default().Enabled(ctx, slog.LevelDebug) {
		opts = append(opts, config.WithClientLogMode(aws.LogRequest|aws.LogResponse))
	}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, err
	}

	cfg.APIOptions = append(cfg.APIOptions, func(stack *middleware.Stack) error {
		return stack.Initialize.Add(LogOperation, middleware.After)
	})

	return cfg, nil
}

// NewSession loads config for profile/region and verifies it with
// sts:GetCallerIdentity.
func NewSession(ctx context.Context, profile string, region string) (*Session, error) {
	cfg, err := GetAWSCfg(ctx, region, profile)
	if err != nil {
		return nil, &CredentialError{Profile: profile, Err: err}
	}
	if cfg.Region == "" {
		return nil, &CredentialError{Profile: profile, Err: fmt.Errorf("no region configured; pass --region or set one in the profile")}
	}

	return verifySession(ctx, cfg, profile, sts.NewFromConfig(cfg))
}

func verifySession(ctx context.Context, cfg aws.Config, profile string, client CallerIdentityAPI) (*Session, error) {
	s := &Session{Config: cfg, Profile: profile}

	if cfg.Credentials == nil {
		return nil, &CredentialError{Profile: profile, Err: fmt.Errorf("no credentials found")}
	}
	creds, err := cfg.Credentials.Retrieve(ctx)
	if err != nil {
		return nil, &CredentialError{Profile: profile, Err: err}
	}
	s.credentialSource = creds.Source

	identity, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, &CredentialError{Profile: profile, Err: err}
	}
	s.AccountID = aws.ToString(identity.Account)
	s.Arn = aws.ToString(identity.Arn)

	slog.Debug("AWS session established", "account", s.AccountID, "arn", s.Arn, "region", cfg.Region, "source", creds.Source)
	return s, nil
}

// UsingEnvCredentials reports whether the session runs on ambient
// credentials: AWS_* variables, an instance or container role, or web
// identity. Those cannot be named in a ProxyCommand with --profile.
func (s *Session) UsingEnvCredentials() bool {
	if s.Profile != "" || os.Getenv("AWS_PROFILE") != "" {
		return false
	}
	if s.credentialSource == envCredentialsSource {
		return true
	}
	for _, prefix := range profileSources {
		if strings.HasPrefix(s.credentialSource, prefix) {
			return false
		}
	}
	return true
}

// ProfileLabel names the session for file names: the profile, or "env".
func (s *Session) ProfileLabel() string {
	if s.UsingEnvCredentials() {
		return "env"
	}
	if s.Profile != "" {
		return s.Profile
	}
	if p := os.Getenv("AWS_PROFILE"); p != "" {
		return p
	}
	return "default"
}

// EffectiveProfile is the named profile in use, or "" for ambient credentials.
func (s *Session) EffectiveProfile() string {
	if s.UsingEnvCredentials() {
		return ""
	}
	return s.ProfileLabel()
}

// Credentials returns the resolved credentials for handing to a child process.
func (s *Session) Credentials(ctx context.Context) (aws.Credentials, error) {
	creds, err := s.Config.Credentials.Retrieve(ctx)
	if err != nil {
		return aws.Credentials{}, &CredentialError{Profile: s.Profile, Err: err}
	}
	return creds, nil
}
