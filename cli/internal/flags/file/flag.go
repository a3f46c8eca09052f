// Package file provides a pflag value for filesystem paths that remembers
// what the path pointed to when the flag was set.
package file

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
)

// Type is the type name for the path flag.
const Type = "path"

// Flag holds a path and the result of stating it. The path does not need to exist.
type Flag struct {
	path string
	fs.FileInfo
}

func (f *Flag) String() string {
	return f.path
}

// Exists reports whether the path existed when the flag was set.
func (f *Flag) Exists() bool {
	return f.FileInfo != nil
}

// Directory returns the path if it is an existing directory or does not exist
// yet. Any other existing file is rejected.
func (f *Flag) Directory() (string, error) {
	if f.Exists() && !f.IsDir() {
		return "", fmt.Errorf("%q is not a directory", f.path)
	}
	return f.path, nil
}

// ExistingDirectory returns the path if it is an existing directory.
func (f *Flag) ExistingDirectory() (string, error) {
	if !f.Exists() {
		return "", fmt.Errorf("directory %q does not exist", f.path)
	}
	return f.Directory()
}

// Join joins the path with elem.
func (f *Flag) Join(elem ...string) string {
	return filepath.Join(append([]string{f.path}, elem...)...)
}

func (f *Flag) Set(s string) error {
	f.path = s
	f.FileInfo = nil
	info, err := os.Stat(s)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return fmt.Errorf("unable to stat path %q: %w", s, err)
	default:
		f.FileInfo = info
	}
	return nil
}

func (f *Flag) Type() string {
	return Type
}

func Var(f *pflag.FlagSet, name string, value string, usage string) {
	VarP(f, name, "", value, usage)
}

func VarP(f *pflag.FlagSet, name, shorthand string, value string, usage string) {
	flag := &Flag{}
	_ = flag.Set(value) // Set with the default value
	f.VarP(flag, name, shorthand, usage)
}

func Get(f *pflag.FlagSet, name string) (*Flag, error) {
	flag := f.Lookup(name)
	if flag == nil {
		return nil, fmt.Errorf("flag accessed but not defined: %s", name)
	}

	if flag.Value.Type() != Type {
		return nil, fmt.Errorf("trying to get %s value of flag of type %s", Type, flag.Value.Type())
	}

	val, ok := flag.Value.(*Flag)
	if !ok {
		return nil, fmt.Errorf("flag %s is not of type %s", name, Type)
	}
	return val, nil
}
