package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/testutil"
)

func execute(t *testing.T, args ...string) (stdout, stderr *bytes.Buffer, err error) {
	t.Helper()
	stdout = &bytes.Buffer{}
	stderr = &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	return stdout, stderr, cmd.Execute()
}

func TestValidate_ValidConfigs(t *testing.T) {
	dir := testutil.WriteWorldConfig(t)

	stdout, _, err := execute(t, "validate", dir)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "validate_summary", stdout.Bytes())
}

func TestValidate_ValidConfigsJSON(t *testing.T) {
	dir := testutil.WriteWorldConfig(t)

	stdout, _, err := execute(t, "--format", "json", "validate", dir)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestValidate_MissingDirectory(t *testing.T) {
	_, _, err := execute(t, "validate", "/nonexistent/configs")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestValidate_SchemaViolation(t *testing.T) {
	dir := t.TempDir()
	bad := `name: Badland
gdp: 1000
loci:
  - name: Alpha
    area: 10
    susceptible: 100
    infection_rate: 1.5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "badland.yaml"), []byte(bad), 0o644))

	stdout, _, err := execute(t, "validate", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout.String(), "validation failed")
	assert.Contains(t, stdout.String(), "badland.yaml")
}

func TestValidate_InvalidFormatFlag(t *testing.T) {
	dir := testutil.WriteWorldConfig(t)
	_, _, err := execute(t, "--format", "xml", "validate", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
