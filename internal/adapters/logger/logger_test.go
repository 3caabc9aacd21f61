package logger_test

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/quasi/internal/adapters/logger"
	"go.trai.ch/quasi/internal/core/domain"
	"go.trai.ch/quasi/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Logger = (*logger.Logger)(nil)

// captureStderr captures output written to os.Stderr during the execution of fn.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()

	originalStderr := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w
	defer func() { os.Stderr = originalStderr }()

	done := make(chan string, 1)
	go func() {
		buf, _ := io.ReadAll(r)
		done <- string(buf)
	}()

	fn()

	require.NoError(t, w.Close())
	output := <-done
	require.NoError(t, r.Close())
	return output
}

func TestLogger_Info(t *testing.T) {
	output := captureStderr(t, func() {
		// Created inside the capture so it binds to the redirected stderr.
		logger.New().Info("some message")
	})

	assert.Contains(t, output, "some message")
	assert.Contains(t, output, "INFO")
}

func TestLogger_Warn(t *testing.T) {
	output := captureStderr(t, func() {
		logger.New().Warn("some warning")
	})

	assert.Contains(t, output, "some warning")
	assert.Contains(t, output, "WARN")
}

func TestLogger_Error(t *testing.T) {
	output := captureStderr(t, func() {
		logger.New().Error(zerr.Wrap(os.ErrPermission, "open left document"))
	})

	assert.Contains(t, output, "permission denied")
	assert.Contains(t, output, "ERROR")
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&buf)

	lg.Debug("hidden")
	assert.Empty(t, buf.String())

	lg.SetLevel(domain.LogLevelDebug)
	lg.Debug("visible")
	assert.Contains(t, buf.String(), "visible")

	buf.Reset()
	lg.SetLevel(domain.LogLevelError)
	lg.Warn("dropped")
	lg.Info("dropped")
	assert.Empty(t, buf.String())
	assert.False(t, strings.Contains(buf.String(), "dropped"))
}
