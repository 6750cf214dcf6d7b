package log

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "debug", "json")
	require.NoError(t, err)
	require.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("asset", "Foo").Debug("hello")
	require.Contains(t, buf.String(), `"asset":"Foo"`)
	require.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	logger, err = New(&buf, "warn", "text")
	require.NoError(t, err)
	logger.Info("dropped")
	logger.Warn("kept")
	require.NotContains(t, buf.String(), "dropped")
	require.Contains(t, buf.String(), "kept")
}

func TestNewInvalid(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud", "text")
	require.Error(t, err)
	_, err = New(&bytes.Buffer{}, "info", "xml")
	require.Error(t, err)
}

func TestBufferErrorPrinter(t *testing.T) {
	var p ErrorPrinter = &BufferErrorPrinter{}
	p.Ln("Error:", "bad")
	p.F("%d problems\n", 2)
	require.Equal(t, "Error: bad\n2 problems\n", p.(*BufferErrorPrinter).String())
}
