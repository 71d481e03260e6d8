package toolversion

import (
	"context"
	"errors"
	"testing"

	"github.com/jhoff/phpcsfixlint/internal/process"
	"github.com/jhoff/phpcsfixlint/internal/process/processtest"
	"github.com/jhoff/phpcsfixlint/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"PHP CS Fixer 3.64.0 Persian Successor by Fabien Potencier", "v3.64.0"},
		{"PHP CS Fixer 2.19.3 Testament Edition", "v2.19.3"},
		{"php-cs-fixer 3.0", "v3.0.0"},
		{"PHP CS Fixer 3.0.0-rc.1", "v3.0.0-rc.1"},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := Parse("command not found")
	assert.ErrorIs(t, err, ErrNoVersion)
}

func TestDetect(t *testing.T) {
	fake := &processtest.Fake{Respond: processtest.Stdout("PHP CS Fixer 3.64.0 Persian Successor\nPHP runtime: 8.3.1\n", 0)}

	v, err := Detect(context.Background(), fake, "vendor/bin/php-cs-fixer")
	require.NoError(t, err)
	assert.Equal(t, "v3.64.0", v)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "vendor/bin/php-cs-fixer", calls[0].Name)
	assert.Equal(t, []string{"--version"}, calls[0].Args)
}

func TestDetect_Stderr(t *testing.T) {
	fake := &processtest.Fake{Respond: func(process.Invocation) (*process.Output, error) {
		return &process.Output{Stderr: []byte("PHP CS Fixer 2.19.3\n")}, nil
	}}
	v, err := Detect(context.Background(), fake, "php-cs-fixer")
	require.NoError(t, err)
	assert.Equal(t, "v2.19.3", v)
}

func TestDetect_Errors(t *testing.T) {
	fake := &processtest.Fake{Respond: func(process.Invocation) (*process.Output, error) {
		return nil, process.ErrExecutableNotFound
	}}
	_, err := Detect(context.Background(), fake, "missing")
	assert.True(t, errors.Is(err, process.ErrExecutableNotFound))

	fake = &processtest.Fake{Respond: processtest.Stdout("hello", 0)}
	_, err = Detect(context.Background(), fake, "php-cs-fixer")
	assert.ErrorIs(t, err, ErrNoVersion)
}

func TestNotes(t *testing.T) {
	current := profile.ByName("php-cs-fixer")
	legacy := profile.ByName("php-cs-fixer-v2")
	require.NotNil(t, current)
	require.NotNil(t, legacy)

	assert.Empty(t, Notes("v3.64.0", current))
	assert.Empty(t, Notes("v2.19.3", legacy))

	notes := Notes("v2.19.3", current)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0], "needs php-cs-fixer 3.0.0 or newer, found 2.19.3")

	notes = Notes("v3.1.0", legacy)
	require.Len(t, notes, 2)
	assert.Contains(t, notes[0], "supports php-cs-fixer before 3.0.0")
	assert.Equal(t, "try --profile php-cs-fixer", notes[1])

	notes = Notes("v2.7.0", legacy)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0], "needs php-cs-fixer 2.8.0 or newer")

	assert.Equal(t, []string{`"garbage" is not a valid version`}, Notes("garbage", current))
}
