package options

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type OptionType string

const (
	String      OptionType = "string"
	StringSlice OptionType = "stringSlice"
	Bool        OptionType = "bool"
	Int         OptionType = "int"
)

// Option describes one command-line flag. Value is the default; ValueList,
// when set, restricts accepted values (case-insensitive).
type Option struct {
	Name        string
	Short       string
	Description string
	Type        OptionType
	Value       string
	ValueList   []string
	ValueFormat *regexp.Regexp
}

var ProfileOpt = Option{
	Name:        "profile",
	Short:       "p",
	Description: "AWS shared config profile (default: environment credentials or AWS_PROFILE)",
	Type:        String,
}

var RegionOpt = Option{
	Name:        "region",
	Short:       "r",
	Description: "AWS region (default: from profile or AWS_REGION)",
	Type:        String,
	ValueFormat: regexp.MustCompile(`^[a-z]{2}(-gov|-iso[a-z]*)?-[a-z]+-\d$`),
}

var PlatformOpt = Option{
	Name:        "platform",
	Description: "SSM platform types to include",
	Type:        StringSlice,
	Value:       "Linux,Windows",
	ValueList:   []string{"Linux", "Windows", "MacOS"},
}

var SearchOpt = Option{
	Name:        "search",
	Short:       "s",
	Description: "only include instances with a field containing this text (case-insensitive)",
	Type:        String,
}

var LogLevelOpt = Option{
	Name:        "log-level",
	Description: "log level: debug, info, warn, error",
	Type:        String,
	Value:       "warn",
	ValueList:   []string{"debug", "info", "warn", "warning", "error"},
}

var NoColorOpt = Option{
	Name:        "no-color",
	Description: "disable colored output",
	Type:        Bool,
	Value:       "false",
}

var QuietOpt = Option{
	Name:        "quiet",
	Short:       "q",
	Description: "suppress status messages",
	Type:        Bool,
	Value:       "false",
}

var OutputFormatOpt = Option{
	Name:        "output",
	Short:       "o",
	Description: "output format: table, ids, plain, json",
	Type:        String,
	Value:       "table",
	ValueList:   []string{"table", "ids", "plain", "json"},
}

var WideOpt = Option{
	Name:        "wide",
	Short:       "w",
	Description: "show platform type, ping status and agent version",
	Type:        Bool,
	Value:       "false",
}

var AliasOpt = Option{
	Name:        "alias-prefix",
	Description: "prefix added to name-derived host aliases",
	Type:        String,
}

var ConfigPathOpt = Option{
	Name:        "file",
	Short:       "f",
	Description: "write the fragment here instead of ~/.ssh/ssmhosts/<profile>.conf",
	Type:        String,
}

var StdoutOpt = Option{
	Name:        "stdout",
	Description: "print the fragment instead of writing it",
	Type:        Bool,
	Value:       "false",
}

var AllOpt = Option{
	Name:        "all",
	Description: "update every matched instance, not only those with an outdated agent",
	Type:        Bool,
	Value:       "false",
}

var YesOpt = Option{
	Name:        "yes",
	Short:       "y",
	Description: "do not ask for confirmation",
	Type:        Bool,
	Value:       "false",
}

var LocalPortOpt = Option{
	Name:        "local-port",
	Description: "local port for the forwarded RDP connection",
	Type:        Int,
	Value:       "33389",
}

// AddFlag registers option on flags and binds it to viper under its name.
func AddFlag(flags *pflag.FlagSet, option Option) {
	switch option.Type {
	case String:
		flags.StringP(option.Name, option.Short, option.Value, option.Description)
	case StringSlice:
		var value []string
		if option.Value != "" {
			value = strings.Split(option.Value, ",")
		}
		flags.StringSliceP(option.Name, option.Short, value, option.Description)
	case Bool:
		value, _ := strconv.ParseBool(option.Value)
		flags.BoolP(option.Name, option.Short, value, option.Description)
	case Int:
		value, _ := strconv.Atoi(option.Value)
		flags.IntP(option.Name, option.Short, value, option.Description)
	}
	cobra.CheckErr(viper.BindPFlag(option.Name, flags.Lookup(option.Name)))
}

func AddFlags(flags *pflag.FlagSet, options ...Option) {
	for _, option := range options {
		AddFlag(flags, option)
	}
}

// GetStringSlice reads a slice option from viper. Environment variables and
// config strings arrive split on whitespace only, so each element is split on
// commas as well and empty parts are dropped.
func GetStringSlice(option Option) []string {
	var out []string
	for _, value := range viper.GetStringSlice(option.Name) {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks each value against the option's format and value list.
func Validate(option Option, values ...string) error {
	for _, value := range values {
		if value == "" {
			continue
		}
		if option.ValueFormat != nil && !option.ValueFormat.MatchString(value) {
			return errors.New(option.Name + " is an invalid format: " + value)
		}
		if option.ValueList != nil && !inList(value, option.ValueList) {
			return errors.New(option.Name + " is not a valid option. Valid options are: " + strings.Join(option.ValueList, ", "))
		}
	}
	return nil
}

// Canonical returns value spelled as in the option's ValueList.
func Canonical(option Option, value string) string {
	for _, v := range option.ValueList {
		if strings.EqualFold(v, value) {
			return v
		}
	}
	return value
}

func inList(value string, list []string) bool {
	for _, v := range list {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}
