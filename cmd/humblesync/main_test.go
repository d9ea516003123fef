package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
output_dir = %q
database_path = %q
log_dir = %q
`,
		filepath.Join(base, "downloads"),
		filepath.Join(base, "downloads.db"),
		filepath.Join(base, "logs"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("command %v failed: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestRunExitCodes(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if code := run([]string{"config", "init", "--path", target}); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if code := run([]string{"config", "init", "--path", target}); code != 1 {
		t.Fatalf("expected exit code 1 on overwrite refusal, got %d", code)
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out := runCommand(t, "config", "init", "--path", target)
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("unexpected output: %q", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample config not written: %v", err)
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	runCommand(t, "config", "init", "--path", target)

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected overwrite refusal")
	}
}

func TestMarkThenStatus(t *testing.T) {
	configPath := writeTestConfig(t)

	out := runCommand(t, "--config", configPath, "mark", "abc123", "2", "EPUB")
	if !strings.Contains(out, "Marked abc123_2_epub as downloaded") {
		t.Fatalf("unexpected mark output: %q", out)
	}

	out = runCommand(t, "--config", configPath, "status")
	if !strings.Contains(out, "abc123") {
		t.Fatalf("status missing bundle: %q", out)
	}
	if !strings.Contains(out, "1 file(s) downloaded across 1 bundle(s)") {
		t.Fatalf("status missing totals: %q", out)
	}
}

func TestStatusForSingleBundle(t *testing.T) {
	configPath := writeTestConfig(t)
	runCommand(t, "--config", configPath, "mark", "abc123", "1", "PDF")

	out := runCommand(t, "--config", configPath, "status", "abc123")
	if !strings.Contains(out, "== abc123 ==") {
		t.Fatalf("missing bundle header: %q", out)
	}
	if !strings.Contains(out, "item_1.pdf") {
		t.Fatalf("missing marked file: %q", out)
	}
}

func TestMarkRejectsBadItemNumber(t *testing.T) {
	configPath := writeTestConfig(t)

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", configPath, "mark", "abc123", "zero", "EPUB"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for non-numeric item number")
	}
}
