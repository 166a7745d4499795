package sshconfig

import (
	"strings"
	"testing"

	"github.com/praetorian-inc/ssmhosts/pkg/types"
	"github.com/stretchr/testify/assert"
)

func sampleRecords() []types.InstanceRecord {
	return []types.InstanceRecord{
		{
			InstanceID:   "i-0123456789abcdef0",
			DisplayName:  "web server 1",
			ComputerName: "ip-10-0-0-1.ec2.internal",
			PlatformName: "Amazon Linux 2",
		},
		{
			InstanceID:   "i-0fedcba9876543210",
			DisplayName:  "",
			ComputerName: "WIN-AB12CD",
			PlatformName: "Microsoft Windows Server 2019 Datacenter",
		},
	}
}

func TestHostLabel(t *testing.T) {
	assert.Equal(t, "web_server_1", HostLabel("web server 1"))
	assert.Equal(t, "", HostLabel(""))
	assert.Equal(t, "db", HostLabel("db"))
}

func TestShortHostName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "fqdn", input: "ip-10-0-0-1.ec2.internal", expected: "ip-10-0-0-1.ec2"},
		{name: "two labels", input: "host.local", expected: "host.local"},
		{name: "single label", input: "WIN-AB12CD", expected: "WIN-AB12CD"},
		{name: "absent", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShortHostName(tt.input))
		})
	}
}

func TestLoginUser(t *testing.T) {
	tests := []struct {
		platform string
		expected string
	}{
		{platform: "Amazon Linux 2", expected: "ec2-user"},
		{platform: "Ubuntu", expected: "ubuntu"},
		{platform: "CentOS Linux", expected: "centos"},
		{platform: "Windows Server 2019", expected: ""},
		{platform: "", expected: ""},
		// both keywords present; centos is listed first
		{platform: "CentOS on Amazon", expected: "centos"},
		{platform: "Red Hat Enterprise Linux", expected: "ec2-user"},
	}

	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			assert.Equal(t, tt.expected, LoginUser(tt.platform))
		})
	}
}

func TestGenerate(t *testing.T) {
	out := string(Generate(sampleRecords(), Options{Profile: "prod", Region: "us-east-1"}))

	expected := `# Generated by ssmhosts. Changes will be overwritten.

Host web_server_1 i-0123456789abcdef0 ip-10-0-0-1.ec2
    HostName i-0123456789abcdef0
    User ec2-user

Host i-0fedcba9876543210 WIN-AB12CD
    HostName i-0fedcba9876543210

Match host i-*,mi-*
    ProxyCommand sh -c "aws ssm start-session --target %h --document-name AWS-StartSSHSession --parameters portNumber=%p --profile prod --region us-east-1"
`
	assert.Equal(t, expected, out)
}

func TestGenerate_AccessAlias(t *testing.T) {
	out := string(Generate(sampleRecords()[:1], Options{AccessAlias: "prod-"}))
	assert.Contains(t, out, "Host prod-web_server_1 i-0123456789abcdef0 prod-ip-10-0-0-1.ec2\n")
}

func TestGenerate_EnvCredentialsHeader(t *testing.T) {
	out := string(Generate(sampleRecords(), Options{UsingEnvCredentials: true, Profile: "ignored"}))
	assert.True(t, strings.HasPrefix(out, "# Generated by ssmhosts"))
	assert.Contains(t, out, "# WARNING: generated without a named AWS profile")
	assert.NotContains(t, out, "--profile")

	withProfile := string(Generate(sampleRecords(), Options{Profile: "prod"}))
	assert.NotContains(t, withProfile, "WARNING")
}

func TestGenerate_Idempotent(t *testing.T) {
	opts := Options{Profile: "prod", Region: "eu-west-1"}
	assert.Equal(t, Generate(sampleRecords(), opts), Generate(sampleRecords(), opts))
}

func TestGenerate_NoRecords(t *testing.T) {
	out := string(Generate(nil, Options{}))
	assert.NotContains(t, out, "HostName")
	assert.Contains(t, out, "Match host i-*,mi-*")
}

func TestGenerate_QuotesProxyArguments(t *testing.T) {
	tests := []struct {
		name     string
		profile  string
		expected string
	}{
		{name: "plain", profile: "prod-admin@corp", expected: "--profile prod-admin@corp --region"},
		{name: "space", profile: "ops team", expected: "--profile 'ops team' --region"},
		{name: "shell metacharacters", profile: `a'b$c%d`, expected: `--profile 'a'\\''b\$c%%d' --region`},
		{name: "double quote", profile: `x"y;z`, expected: `--profile 'x\"y;z' --region`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := string(Generate(nil, Options{Profile: tt.profile, Region: "us-east-1"}))
			assert.Contains(t, out, tt.expected)
		})
	}
}
