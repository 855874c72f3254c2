package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "quill.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[stack]
initial-size = 4096
max-size = 65536
max-call-depth = 512

[trace]
enabled = true
`)

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Stack.InitialSize != 4096 || m.Stack.MaxSize != 65536 || m.Stack.MaxCallDepth != 512 {
		t.Errorf("stack = %+v", m.Stack)
	}
	if !m.Trace.Enabled {
		t.Error("trace not enabled")
	}
	if m.Dir == "" || !filepath.IsAbs(m.Dir) {
		t.Errorf("Dir = %q, want absolute", m.Dir)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("expected an error for a missing quill.toml")
	}
}

func TestLoadParseError(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[stack\ninitial-size = nope")
	if _, err := Load(dir); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestVMConfig(t *testing.T) {
	m := &Manifest{
		Stack: StackConfig{InitialSize: 128, MaxSize: 1024, MaxCallDepth: 16},
		Trace: TraceConfig{Enabled: true},
	}
	cfg := m.VMConfig()
	if cfg.InitialStackSize != 128 || cfg.MaxStackSize != 1024 || cfg.MaxCallDepth != 16 || !cfg.Trace {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestVMConfigZeroDefersToDefaults(t *testing.T) {
	cfg := (&Manifest{}).VMConfig()
	if cfg.InitialStackSize != 0 || cfg.MaxStackSize != 0 || cfg.MaxCallDepth != 0 || cfg.Trace {
		t.Errorf("cfg = %+v, want all zero", cfg)
	}
}

func TestFindAndLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[trace]\nenabled = true\n")
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, err := FindAndLoad(nested)
	if err != nil {
		t.Fatalf("FindAndLoad: %v", err)
	}
	if m == nil {
		t.Fatal("manifest not found from nested directory")
	}
	if !m.Trace.Enabled {
		t.Error("wrong manifest loaded")
	}
	if m.Dir != root {
		t.Errorf("Dir = %q, want %q", m.Dir, root)
	}
}
