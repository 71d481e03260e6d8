package process

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
}

func sh(script string) Invocation {
	return Invocation{Name: "sh", Args: []string{"-c", script}}
}

func TestRun_Success(t *testing.T) {
	skipOnWindows(t)

	out, err := (&ExecExecutor{}).Run(context.Background(), sh("echo out; echo err >&2"))

	require.NoError(t, err)
	assert.Equal(t, "out\n", string(out.Stdout))
	assert.Equal(t, "err\n", string(out.Stderr))
	assert.Zero(t, out.ExitCode)
}

func TestRun_NeedsFixingIsNotAnError(t *testing.T) {
	skipOnWindows(t)

	out, err := (&ExecExecutor{}).Run(context.Background(), sh("echo diff; exit 8"))

	require.NoError(t, err)
	assert.Equal(t, ExitNeedsFixing, out.ExitCode)
	assert.Equal(t, "diff\n", string(out.Stdout))
}

func TestRun_FailureStatus(t *testing.T) {
	skipOnWindows(t)

	out, err := (&ExecExecutor{}).Run(context.Background(), sh("echo broken config >&2; exit 16"))

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 16, exitErr.ExitCode)
	assert.Equal(t, "broken config", exitErr.Stderr)
	assert.Equal(t, "sh exited with status 16: broken config", exitErr.Error())
	require.NotNil(t, out)
	assert.Equal(t, 16, out.ExitCode)
}

func TestRun_CustomOKCodes(t *testing.T) {
	skipOnWindows(t)

	e := &ExecExecutor{OKCodes: []int{4}}

	_, err := e.Run(context.Background(), sh("exit 4"))
	require.NoError(t, err)

	_, err = e.Run(context.Background(), sh("exit 8"))
	require.Error(t, err)
}

func TestRun_ExecutableNotFound(t *testing.T) {
	_, err := (&ExecExecutor{}).Run(context.Background(), Invocation{Name: "phpcsfixlint-no-such-binary"})
	assert.True(t, errors.Is(err, ErrExecutableNotFound), "got %v", err)

	missing := filepath.Join(t.TempDir(), "php-cs-fixer")
	_, err = (&ExecExecutor{}).Run(context.Background(), Invocation{Name: missing})
	assert.True(t, errors.Is(err, ErrExecutableNotFound), "got %v", err)
}

func TestRun_WorkingDirectory(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()

	out, err := (&ExecExecutor{}).Run(context.Background(), Invocation{Name: "sh", Args: []string{"-c", "pwd -P"}, Dir: dir})

	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, want+"\n", string(out.Stdout))
}

func TestRun_MissingWorkingDirectoryIsNotMissingExecutable(t *testing.T) {
	skipOnWindows(t)
	dir := filepath.Join(t.TempDir(), "gone")

	_, err := (&ExecExecutor{}).Run(context.Background(), Invocation{Name: "sh", Args: []string{"-c", "true"}, Dir: dir})

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrExecutableNotFound), "got %v", err)
	assert.Contains(t, err.Error(), "gone")
}

func TestRun_CanceledContext(t *testing.T) {
	skipOnWindows(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&ExecExecutor{}).Run(ctx, sh("sleep 5"))
	require.Error(t, err)
}

func TestInvocationString(t *testing.T) {
	inv := Invocation{Name: "php-cs-fixer", Args: []string{"fix", "a.php"}}
	assert.Equal(t, "php-cs-fixer fix a.php", inv.String())
}
