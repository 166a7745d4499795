// Package sshconfig renders managed instances as an OpenSSH config fragment
// that reaches each host through an SSM session.
package sshconfig

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/praetorian-inc/ssmhosts/pkg/types"
)

// loginUsers maps platform keywords to default login users. Order matters:
// the first keyword contained in the platform name wins.
var loginUsers = []struct {
	keyword string
	user    string
}{
	{"centos", "centos"},
	{"amazon", "ec2-user"},
	{"ubuntu", "ubuntu"},
	{"debian", "admin"},
	{"red hat", "ec2-user"},
	{"rhel", "ec2-user"},
	{"suse", "ec2-user"},
}

// plainArg matches values that need no quoting inside the ProxyCommand.
var plainArg = regexp.MustCompile(`^[A-Za-z0-9_.,:/@+=-]+$`)

// outerEscaper escapes characters still special inside the double quotes
// around the sh -c argument.
var outerEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`")

// Options controls fragment generation.
type Options struct {
	// AccessAlias prefixes the name-derived aliases so fragments from
	// several accounts can be included side by side.
	AccessAlias string
	// UsingEnvCredentials adds a warning header; the fragment then relies on
	// whatever credentials are in the environment when ssh runs.
	UsingEnvCredentials bool
	Profile             string
	Region              string
}

// Entry is the derived form of one record.
type Entry struct {
	HostLabel  string
	InstanceID string
	HostName   string
	User       string
}

// NewEntry derives the aliases and login user for a record.
func NewEntry(record types.InstanceRecord) Entry {
	return Entry{
		HostLabel:  HostLabel(record.DisplayName),
		InstanceID: record.InstanceID,
		HostName:   ShortHostName(record.ComputerName),
		User:       LoginUser(record.PlatformName),
	}
}

// HostLabel turns a display name into a single ssh alias token.
func HostLabel(displayName string) string {
	return strings.ReplaceAll(displayName, " ", "_")
}

// ShortHostName keeps the first two labels of a dotted computer name.
func ShortHostName(computerName string) string {
	if computerName == "" {
		return ""
	}
	labels := strings.Split(computerName, ".")
	if len(labels) > 2 {
		labels = labels[:2]
	}
	return strings.Join(labels, ".")
}

// LoginUser guesses the default login user from a platform name. It returns
// "" when nothing matches.
func LoginUser(platformName string) string {
	platform := strings.ToLower(platformName)
	if platform == "" {
		return ""
	}
	for _, lu := range loginUsers {
		if strings.Contains(platform, lu.keyword) {
			return lu.user
		}
	}
	return ""
}

// Generate renders records as an ssh config fragment. Output depends only on
// its inputs.
func Generate(records []types.InstanceRecord, opts Options) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Generated by ssmhosts. Changes will be overwritten.\n")
	if opts.UsingEnvCredentials {
		buf.WriteString("# WARNING: generated without a named AWS profile; ssh will use\n")
		buf.WriteString("# whatever AWS credentials are in its environment.\n")
	}
	buf.WriteString("\n")

	for _, record := range records {
		writeEntry(&buf, NewEntry(record), opts.AccessAlias)
	}

	writeProxyBlock(&buf, opts)
	return buf.Bytes()
}

func writeEntry(buf *bytes.Buffer, e Entry, alias string) {
	var aliases []string
	if e.HostLabel != "" {
		aliases = append(aliases, alias+e.HostLabel)
	}
	aliases = append(aliases, e.InstanceID)
	if e.HostName != "" {
		aliases = append(aliases, alias+e.HostName)
	}

	fmt.Fprintf(buf, "Host %s\n", strings.Join(aliases, " "))
	fmt.Fprintf(buf, "    HostName %s\n", e.InstanceID)
	if e.User != "" {
		fmt.Fprintf(buf, "    User %s\n", e.User)
	}
	buf.WriteString("\n")
}

func writeProxyBlock(buf *bytes.Buffer, opts Options) {
	args := []string{"aws", "ssm", "start-session", "--target", "%h",
		"--document-name", "AWS-StartSSHSession", "--parameters", "portNumber=%p"}
	if opts.Profile != "" && !opts.UsingEnvCredentials {
		args = append(args, "--profile", proxyArg(opts.Profile))
	}
	if opts.Region != "" {
		args = append(args, "--region", proxyArg(opts.Region))
	}

	// Match host sees the HostName, so every alias above lands here.
	buf.WriteString("Match host i-*,mi-*\n")
	fmt.Fprintf(buf, "    ProxyCommand sh -c \"%s\"\n", strings.Join(args, " "))
}

// proxyArg quotes value for the inner shell, escapes it for the outer
// double quotes, and doubles % so ssh does not expand it as a token.
func proxyArg(value string) string {
	if plainArg.MatchString(value) {
		return value
	}
	quoted := "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
	return strings.ReplaceAll(outerEscaper.Replace(quoted), "%", "%%")
}
