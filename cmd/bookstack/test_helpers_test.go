package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	homeDir    string
	dataDir    string
	configPath string
}

// setupCLITestEnv builds a throwaway home directory with a config file and a
// populated data directory, so commands run end to end against real files.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	dataDir := filepath.Join(base, "data")
	for _, dir := range []string{homeDir, dataDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	t.Setenv("HOME", homeDir)

	configPath := filepath.Join(homeDir, ".config", "bookstack", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	configBody := strings.Join([]string{
		"[paths]",
		`data_dir = "` + dataDir + `"`,
		`log_dir = "` + filepath.Join(base, "logs") + `"`,
		`cache_dir = "` + filepath.Join(base, "cache") + `"`,
		"",
		"[[scheduled]]",
		`author = "Iris Murdoch"`,
		"per_year = 1",
	}, "\n")
	if err := os.WriteFile(configPath, []byte(configBody), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	env := &cliTestEnv{homeDir: homeDir, dataDir: dataDir, configPath: configPath}
	env.writeData(t, "goodreads.csv",
		"BookId,Author,AuthorId,Title,Shelf,Pages,Added,Read,Language\n"+
			"1,Iris Murdoch,a1,Under the Net,read,253,2019-01-01,2019-02-01,en\n"+
			"2,Iris Murdoch,a1,The Bell,to-read,300,2020-06-01,,en\n"+
			"3,Iris Murdoch,a1,The Sea the Sea,to-read,502,2021-03-01,,en\n")
	return env
}

func (e *cliTestEnv) writeData(t *testing.T, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(e.dataDir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("output missing %q:\n%s", needle, haystack)
	}
}
