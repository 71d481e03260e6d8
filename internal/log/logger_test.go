package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintf_Enabled(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{Enabled: true, W: &buf}

	l.Printf("config: %s", ".phpcsfixlint.yml")

	assert.Equal(t, "phpcsfixlint: config: .phpcsfixlint.yml\n", buf.String())
}

func TestPrintf_Disabled(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{Enabled: false, W: &buf}

	l.Printf("config: %s", ".phpcsfixlint.yml")

	assert.Empty(t, buf.String())
}

func TestPrintf_MultipleMessages(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{Enabled: true, W: &buf}

	l.Printf("file: %s", "src/Foo.php")
	l.Printf("exec: %s %s", "php-cs-fixer", "fix")

	assert.Equal(t, "phpcsfixlint: file: src/Foo.php\nphpcsfixlint: exec: php-cs-fixer fix\n", buf.String())
}

func TestWarnf_IgnoresEnabled(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{Enabled: false, W: &buf}

	l.Warnf("setting %q is deprecated", "cmd")

	assert.Equal(t, "phpcsfixlint: warning: setting \"cmd\" is deprecated\n", buf.String())
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Printf("x")
		l.Warnf("y")
	})
}
