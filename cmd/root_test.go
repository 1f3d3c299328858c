package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/clientbook/internal/client"
	"github.com/zjrosen/clientbook/internal/infrastructure/sqlite"
	"github.com/zjrosen/clientbook/internal/store"
)

// resetFlags restores every flag to its default so runs do not leak into
// each other through the package-level command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

type env struct {
	dataDir    string
	configPath string
}

func newEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	return env{
		dataDir:    filepath.Join(dir, "data"),
		configPath: filepath.Join(dir, "config", "config.yaml"),
	}
}

// run executes the root command with the env's config and data dir.
func (e env) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", e.configPath, "--data", e.dataDir}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

// seed writes clients straight to the file backend.
func (e env) seed(t *testing.T, fields ...client.Fields) []client.Client {
	t.Helper()
	s := store.New(store.NewFileSlot(filepath.Join(e.dataDir, store.DefaultFileName)))
	out := make([]client.Client, 0, len(fields))
	for _, f := range fields {
		c, err := s.Create(context.Background(), f)
		require.NoError(t, err)
		out = append(out, c)
	}
	return out
}

func acme() client.Fields {
	return client.Fields{
		TaxID:     "11.222.333/0001-81",
		LegalName: "Acme Ltda",
		TradeName: "Acme Corp",
		Email:     "a@acme.com",
		City:      "Campinas",
	}
}

func globex() client.Fields {
	return client.Fields{
		TaxID:     "22.333.444/0001-55",
		LegalName: "Globex SA",
		TradeName: "Globex",
		Email:     "g@globex.com",
	}
}

func TestRun_WritesDefaultConfigOnFirstRun(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "", "list")
	require.NoError(t, err)
	require.Contains(t, out, "No clients found.")

	data, err := os.ReadFile(e.configPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "backend: file")
	require.Equal(t, e.configPath, configFilePath)
}

func TestList_PrintsTable(t *testing.T) {
	e := newEnv(t)
	seeded := e.seed(t, acme(), globex())

	out, err := e.run(t, "", "list")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "TAX ID")
	require.Contains(t, lines[1], seeded[0].ID)
	require.Contains(t, lines[1], "11.222.333/0001-81")
	require.Contains(t, lines[2], "Globex SA")
}

func TestList_SearchUsesInteractiveMatching(t *testing.T) {
	e := newEnv(t)
	e.seed(t, acme(), globex())

	out, err := e.run(t, "", "list", "--search", "ACME")
	require.NoError(t, err)
	require.Contains(t, out, "Acme Corp")
	require.NotContains(t, out, "Globex")

	out, err = e.run(t, "", "list", "-s", "22333444")
	require.NoError(t, err)
	require.Contains(t, out, "Globex")
	require.NotContains(t, out, "Acme")

	out, err = e.run(t, "", "list", "-s", "initech")
	require.NoError(t, err)
	require.Contains(t, out, "No clients found.")
}

func TestList_JSON(t *testing.T) {
	e := newEnv(t)
	seeded := e.seed(t, acme(), globex())

	out, err := e.run(t, "", "list", "--json")
	require.NoError(t, err)

	var got []client.Client
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, seeded, got)
}

func TestList_JSONEmptyIsArray(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "", "list", "--json")
	require.NoError(t, err)
	require.Equal(t, "[]", strings.TrimSpace(out))
}

func TestShow_RendersDetails(t *testing.T) {
	e := newEnv(t)
	seeded := e.seed(t, acme())

	out, err := e.run(t, "", "show", seeded[0].ID)
	require.NoError(t, err)
	require.Contains(t, out, "Acme Corp")
	require.Contains(t, out, "Acme Ltda")
	require.Contains(t, out, "11.222.333/0001-81")
	require.Contains(t, out, "Campinas")
}

func TestShow_Raw(t *testing.T) {
	e := newEnv(t)
	seeded := e.seed(t, acme())

	out, err := e.run(t, "", "show", "--raw", seeded[0].ID)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "# Acme Corp"), "got %q", out)
}

func TestShow_UnknownID(t *testing.T) {
	e := newEnv(t)
	e.seed(t, acme())

	_, err := e.run(t, "", "show", "missing")
	require.ErrorContains(t, err, `client "missing" not found`)
}

func TestClear_AbortsWithoutConfirmation(t *testing.T) {
	e := newEnv(t)
	e.seed(t, acme(), globex())

	out, err := e.run(t, "n\n", "clear")
	require.NoError(t, err)
	require.Contains(t, out, "Delete all 2 clients? [y/N]")
	require.Contains(t, out, "Aborted.")

	out, err = e.run(t, "", "list", "--json")
	require.NoError(t, err)
	var got []client.Client
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
}

func TestClear_Confirmed(t *testing.T) {
	e := newEnv(t)
	e.seed(t, acme(), globex())

	out, err := e.run(t, "y\n", "clear")
	require.NoError(t, err)
	require.Contains(t, out, "Deleted 2 clients.")

	_, err = os.Stat(filepath.Join(e.dataDir, store.DefaultFileName))
	require.True(t, os.IsNotExist(err))
}

func TestClear_YesSkipsPrompt(t *testing.T) {
	e := newEnv(t)
	e.seed(t, acme())

	out, err := e.run(t, "", "clear", "--yes")
	require.NoError(t, err)
	require.NotContains(t, out, "[y/N]")
	require.Contains(t, out, "Deleted 1 clients.")
}

func TestConfigSet_SwitchesBackend(t *testing.T) {
	e := newEnv(t)
	e.seed(t, acme())

	out, err := e.run(t, "", "config", "set", "storage.backend", "sqlite")
	require.NoError(t, err)
	require.Contains(t, out, "Set storage.backend = sqlite")

	// The sqlite database starts empty even though the json file has data.
	out, err = e.run(t, "", "list")
	require.NoError(t, err)
	require.Contains(t, out, "No clients found.")

	_, err = os.Stat(filepath.Join(e.dataDir, sqlite.DefaultFileName))
	require.NoError(t, err)
}

func TestConfigPath(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "", "config", "path")
	require.NoError(t, err)
	require.Equal(t, e.configPath, strings.TrimSpace(out))
}

func TestInvalidConfigIsRejectedButFixable(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(e.configPath), 0o750))
	require.NoError(t, os.WriteFile(e.configPath, []byte("storage:\n  backend: ftp\n"), 0o600))

	_, err := e.run(t, "", "list")
	require.ErrorContains(t, err, "invalid configuration")

	_, err = e.run(t, "", "config", "set", "storage.backend", "memory")
	require.NoError(t, err)

	out, err := e.run(t, "", "list")
	require.NoError(t, err)
	require.Contains(t, out, "No clients found.")
}

func TestBackendFlagOverridesConfig(t *testing.T) {
	e := newEnv(t)
	e.seed(t, acme())

	out, err := e.run(t, "", "--backend", "memory", "list")
	require.NoError(t, err)
	require.Contains(t, out, "No clients found.")

	out, err = e.run(t, "", "list")
	require.NoError(t, err)
	require.Contains(t, out, "Acme Corp")
}

func TestEnvOverridesConfig(t *testing.T) {
	e := newEnv(t)
	e.seed(t, acme())
	t.Setenv("CLIENTBOOK_STORAGE_BACKEND", "memory")

	out, err := e.run(t, "", "list")
	require.NoError(t, err)
	require.Contains(t, out, "No clients found.")
}
