package driver_test

import (
	"context"
	"errors"
	"testing"

	"github.com/duals-lang/dualc/internal/driver"
	"github.com/stretchr/testify/require"
)

func TestCompileFullPipeline(t *testing.T) {
	res, err := driver.Compile(context.Background(), "p.dl", []byte(`
		int square(int x) {
			return x * x;
		}
		int g = square(3);
	`), driver.Options{})
	require.NoError(t, err)
	require.NotNil(t, res.Program)
	require.NotNil(t, res.Global)
	require.Contains(t, res.SIL, "class Program::square")
	require.Contains(t, res.JBC, "invokestatic p#int square")
}

func TestCompileMSILOnlySuppressesJBCAndAST(t *testing.T) {
	res, err := driver.Compile(context.Background(), "p.dl", []byte(`int g = 1;`), driver.Options{MSILOnly: true})
	require.NoError(t, err)
	require.NotEmpty(t, res.SIL)
	require.Empty(t, res.JBC)
	require.False(t, driver.Options{MSILOnly: true}.DumpsAST())
}

func TestCompileJBCOnlySuppressesSILAndAST(t *testing.T) {
	res, err := driver.Compile(context.Background(), "p.dl", []byte(`int g = 1;`), driver.Options{JBCOnly: true})
	require.NoError(t, err)
	require.Empty(t, res.SIL)
	require.NotEmpty(t, res.JBC)
	require.False(t, driver.Options{JBCOnly: true}.DumpsAST())
}

func TestCompileNoFlagsDumpsAST(t *testing.T) {
	require.True(t, driver.Options{}.DumpsAST())
}

func TestCompileParseErrorStage(t *testing.T) {
	_, err := driver.Compile(context.Background(), "p.dl", []byte(`int x = ;`), driver.Options{})
	require.Error(t, err)
	var derr *driver.Error
	require.True(t, errors.As(err, &derr))
	require.Equal(t, driver.StageParse, derr.Stage)
}

func TestCompileCheckErrorStage(t *testing.T) {
	_, err := driver.Compile(context.Background(), "p.dl", []byte(`x = 1;`), driver.Options{})
	require.Error(t, err)
	var derr *driver.Error
	require.True(t, errors.As(err, &derr))
	require.Equal(t, driver.StageCheck, derr.Stage)
	require.Contains(t, err.Error(), "semantic check")
}
