package prompt

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	promptFile = "skprompt.txt"
	configFile = "config.yaml"
)

// functionConfig is the on-disk shape of config.yaml.
type functionConfig struct {
	Description    string            `yaml:"description"`
	InputVariables []InputVariable   `yaml:"input_variables"`
	Execution      ExecutionSettings `yaml:"execution_settings"`
}

// Plugin is a named set of prompt templates loaded from disk.
type Plugin struct {
	Name      string
	Functions map[string]*Template
}

// Function returns the template called name.
func (p *Plugin) Function(name string) (*Template, error) {
	t, ok := p.Functions[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrFunctionNotFound, p.Name, name)
	}
	return t, nil
}

// Names lists the plugin's functions alphabetically.
func (p *Plugin) Names() []string {
	names := make([]string, 0, len(p.Functions))
	for n := range p.Functions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LoadPlugin reads <dir>/<name>/<Function>/skprompt.txt for every function
// directory, together with an optional config.yaml beside it.
func LoadPlugin(dir, name string) (*Plugin, error) {
	root := filepath.Join(dir, name)
	children, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPlugin, name, err)
	}

	plugin := &Plugin{Name: name, Functions: map[string]*Template{}}
	for _, child := range children {
		if !child.IsDir() {
			continue
		}
		t, err := loadFunction(filepath.Join(root, child.Name()), child.Name())
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %v", ErrInvalidPlugin, name, child.Name(), err)
		}
		plugin.Functions[child.Name()] = t
	}

	if len(plugin.Functions) == 0 {
		return nil, fmt.Errorf("%w: %s has no prompt functions", ErrInvalidPlugin, name)
	}
	return plugin, nil
}

func loadFunction(dir, name string) (*Template, error) {
	text, err := os.ReadFile(filepath.Join(dir, promptFile))
	if err != nil {
		return nil, err
	}

	t := &Template{Name: name, Text: strings.TrimRight(string(text), "\n")}

	raw, err := os.ReadFile(filepath.Join(dir, configFile))
	if errors.Is(err, fs.ErrNotExist) {
		return t, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg functionConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", configFile, err)
	}
	t.Description = cfg.Description
	t.InputVariables = cfg.InputVariables
	t.Execution = cfg.Execution
	return t, nil
}
