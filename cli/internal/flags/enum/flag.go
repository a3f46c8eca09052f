// Package enum provides a pflag value restricted to a fixed set of options.
package enum

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const Type = "enum"

// Flag is a flag.Value implementation for parsing flags with a one-of-a-set value
// from the provided options. The first option is used as the default value.
type Flag struct {
	target  *string
	options []string
}

func (f *Flag) Type() string {
	return Type
}

// New returns a flag.Value implementation for parsing flags with a one-of-a-set value
// from the provided options. The first option is used as the default value.
func New(options ...string) *Flag {
	if len(options) == 0 {
		panic("options must not be empty")
	}
	options = slices.Clone(options)
	return &Flag{target: &options[0], options: options}
}

func (f *Flag) String() string {
	return *f.target
}

// Options returns the accepted values, the default first.
func (f *Flag) Options() []string {
	return slices.Clone(f.options)
}

func (f *Flag) Set(value string) error {
	if !slices.Contains(f.options, value) {
		return fmt.Errorf("expected one of %q", f.options)
	}
	f.target = &value
	return nil
}

// Get returns the value of the enum flag with the given name.
func Get(f *pflag.FlagSet, name string) (string, error) {
	flag := f.Lookup(name)
	if flag == nil {
		return "", fmt.Errorf("flag accessed but not defined: %s", name)
	}
	if flag.Value.Type() != Type {
		return "", fmt.Errorf("trying to get %s value of flag of type %s", Type, flag.Value.Type())
	}
	return flag.Value.String(), nil
}

func Var(f *pflag.FlagSet, name string, options []string, usage string) {
	VarP(f, name, "", options, usage)
}

func VarP(f *pflag.FlagSet, name, shorthand string, options []string, usage string) {
	f.VarP(New(options...), name, shorthand, describe(usage, options))
}

// RegisterCompletion offers the options of the named enum flag of cmd for
// shell completion.
func RegisterCompletion(cmd *cobra.Command, name string) error {
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		flag = cmd.PersistentFlags().Lookup(name)
	}
	if flag == nil {
		return fmt.Errorf("flag accessed but not defined: %s", name)
	}
	enum, ok := flag.Value.(*Flag)
	if !ok {
		return fmt.Errorf("flag %s is not an enum flag", name)
	}
	return cmd.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(enum.Options(), cobra.ShellCompDirectiveNoFileComp))
}

func describe(usage string, options []string) string {
	sorted := slices.Clone(options)
	slices.Sort(sorted)
	return fmt.Sprintf("%s\n(must be one of %v)", usage, sorted)
}
