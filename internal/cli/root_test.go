package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	names := map[string]bool{}
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.NotNil(t, serve.Flags().Lookup("migrate"))
	assert.NotNil(t, root.PersistentFlags().Lookup("env-file"))
}

func TestMigrateCmd_RejectsUnknownAction(t *testing.T) {
	_, err := executeRoot(t, "migrate", "sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid argument "sideways"`)

	_, err = executeRoot(t, "migrate", "up", "down")
	assert.Error(t, err)
}

func TestServeCmd_RejectsArgs(t *testing.T) {
	_, err := executeRoot(t, "serve", "now")
	assert.Error(t, err)
}

func TestMigrateAction(t *testing.T) {
	assert.Equal(t, "up", migrateAction(nil))
	assert.Equal(t, "down", migrateAction([]string{"down"}))
}

func TestLoadEnvFiles(t *testing.T) {
	const key = "DASHBOARD_CLI_TEST_VAR"
	const kept = "DASHBOARD_CLI_TEST_KEPT"
	t.Setenv(kept, "from-env")
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-file\n"+kept+"=from-file\n"), 0o600))

	require.NoError(t, loadEnvFiles([]string{path}))
	assert.Equal(t, "from-file", os.Getenv(key))
	assert.Equal(t, "from-env", os.Getenv(kept))

	assert.NoError(t, loadEnvFiles(nil))
	assert.Error(t, loadEnvFiles([]string{filepath.Join(t.TempDir(), "missing.env")}))
}
