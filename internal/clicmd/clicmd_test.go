package clicmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/require"

	"github.com/duals-lang/dualc/internal/clicmd"
)

func writeSource(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "p.dl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func run(t *testing.T, args ...string) (mainer.ExitCode, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	c := clicmd.Cmd{}
	code := c.Main(append([]string{"dualc"}, args...), mainer.Stdio{Stdout: &out, Stderr: &errOut})
	return code, out.String(), errOut.String()
}

func TestMainFullPipelineSuccess(t *testing.T) {
	path := writeSource(t, `int g = 1;`)
	code, out, errOut := run(t, path)
	require.Equal(t, mainer.Success, code)
	require.Empty(t, errOut)
	require.Contains(t, out, "ast:")
	require.Contains(t, out, "semantic-check:")
	require.Contains(t, out, "msil:")
	require.Contains(t, out, "jbc:")
}

func TestMainMSILOnlySuppressesOtherBlocks(t *testing.T) {
	path := writeSource(t, `int g = 1;`)
	code, out, _ := run(t, "--msil-only", path)
	require.Equal(t, mainer.Success, code)
	require.NotContains(t, out, "ast:")
	require.NotContains(t, out, "jbc:")
}

func TestMainParseErrorExitsOne(t *testing.T) {
	path := writeSource(t, `int x = ;`)
	code, _, errOut := run(t, path)
	require.EqualValues(t, 1, code)
	require.NotEmpty(t, errOut)
}

func TestMainCheckErrorExitsTwo(t *testing.T) {
	path := writeSource(t, `x = 1;`)
	code, _, errOut := run(t, path)
	require.EqualValues(t, 2, code)
	require.NotEmpty(t, errOut)
}

func TestMainNoArgsIsInvalidArgs(t *testing.T) {
	code, _, errOut := run(t)
	require.Equal(t, mainer.InvalidArgs, code)
	require.NotEmpty(t, errOut)
}

func TestMainMutuallyExclusiveFlags(t *testing.T) {
	path := writeSource(t, `int g = 1;`)
	code, _, errOut := run(t, "--msil-only", "--jbc-only", path)
	require.Equal(t, mainer.InvalidArgs, code)
	require.NotEmpty(t, errOut)
}
