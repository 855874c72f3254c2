// Package manifest handles quill.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/quillvm/quill/vm"
)

// Manifest represents a quill.toml project configuration.
type Manifest struct {
	Stack StackConfig `toml:"stack"`
	Trace TraceConfig `toml:"trace"`

	// Dir is the directory containing the quill.toml file (set at load time).
	Dir string `toml:"-"`
}

// StackConfig tunes the value stack and call chain. Zero values mean "use the
// built-in default".
type StackConfig struct {
	InitialSize  int `toml:"initial-size"`
	MaxSize      int `toml:"max-size"`
	MaxCallDepth int `toml:"max-call-depth"`
}

// TraceConfig controls the per-opcode dispatch counters.
type TraceConfig struct {
	Enabled bool `toml:"enabled"`
}

// VMConfig converts the manifest's tuning sections into an interpreter
// configuration. Unset fields stay zero and pick up defaults at interpreter
// construction.
func (m *Manifest) VMConfig() vm.Config {
	return vm.Config{
		InitialStackSize: m.Stack.InitialSize,
		MaxStackSize:     m.Stack.MaxSize,
		MaxCallDepth:     m.Stack.MaxCallDepth,
		Trace:            m.Trace.Enabled,
	}
}

// Load parses a quill.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "quill.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find a quill.toml file, then loads
// and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "quill.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}
