// Package config holds the file and command-line configuration
// surface: the .facet.yaml schema, dimension declarations, and the
// decision syntax.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// DefaultFileName is where a project declares its configuration.
const DefaultFileName = ".facet.yaml"

// Options are the tool-wide switches a file can preset. Command-line
// flags override them.
type Options struct {
	// ReportLevel caps diagnostic output, 0 through 5.
	ReportLevel *int `yaml:"report-level"`
	// WarnAsError counts warnings as errors.
	WarnAsError bool `yaml:"warn-as-error"`
	// IgnoreUnset lets unbound variable references pass the check and
	// vanish from the output.
	IgnoreUnset bool `yaml:"ignore-unset"`
	// NoExtra drops supplementary note lines from diagnostics.
	NoExtra bool `yaml:"no-extra"`
	// In is a prefix prepended to every source path.
	In string `yaml:"in"`
	// Out is a prefix prepended to every destination path.
	Out string `yaml:"out"`
}

// File is the parsed .facet.yaml.
type File struct {
	Options Options `yaml:"options"`
	// Variables binds variable names to replacement text.
	Variables map[string]string `yaml:"variables"`
	// Dimensions declares each dimension's branch space.
	Dimensions map[string]Choices `yaml:"dimensions"`
	// Paths maps each source file to its destination.
	Paths map[string]string `yaml:"paths"`
}

// Load reads and validates a configuration file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errorf(InvalidFile, "cannot read %s: %v", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, errorf(InvalidFile, "%s: %v", path, err)
	}
	return f, nil
}

// Parse decodes configuration bytes.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) validate() error {
	if f.Options.ReportLevel != nil {
		if lvl := *f.Options.ReportLevel; lvl < 0 || lvl > 5 {
			return fmt.Errorf("report-level %d out of range [0, 5]", lvl)
		}
	}
	// Variable names carry a wider charset than identifiers and are
	// matched verbatim against the source, so they pass through as-is.
	for name := range f.Dimensions {
		if !ValidIdentifier(name) {
			return errorf(InvalidIdentifier, "dimension name %q is not a valid identifier", name)
		}
	}
	return nil
}
