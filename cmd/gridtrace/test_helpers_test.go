package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gridtrace/internal/config"
	"gridtrace/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	configPath := filepath.Join(t.TempDir(), "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	var sb strings.Builder
	fmt.Fprintf(&sb, "[paths]\ninput_dir = %q\noutput_dir = %q\nstate_dir = %q\nlog_dir = %q\n\n",
		cfg.Paths.InputDir, cfg.Paths.OutputDir, cfg.Paths.StateDir, cfg.Paths.LogDir)
	sb.WriteString("[thresholds]\nvalues = [")
	for i, v := range cfg.Thresholds.Values {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%g", v)
	}
	sb.WriteString("]\n\n")
	fmt.Fprintf(&sb, "[ledger]\nenabled = %t\n\n", cfg.Ledger.Enabled)
	fmt.Fprintf(&sb, "[logging]\nformat = %q\nlevel = %q\n", "json", "warn")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
