package logging

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogstashWriterShipsEvents(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	lines := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		line, _ := bufio.NewReader(conn).ReadString('\n')
		lines <- line
	}()

	w, err := NewLogstashWriter(ln.Addr().String())
	require.NoError(t, err)
	defer w.Close()

	n, err := w.Write([]byte(`{"message":"hello"}`))
	require.NoError(t, err)
	assert.Equal(t, len(`{"message":"hello"}`), n)

	select {
	case line := <-lines:
		assert.Equal(t, "{\"message\":\"hello\"}\n", line)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for logstash line")
	}
}

func TestLogstashWriterDropsWhileUnreachable(t *testing.T) {
	dials := 0
	w, err := NewLogstashWriter("logstash:5000", WithRetryInterval(time.Hour))
	require.NoError(t, err)
	w.dial = func(network, address string, timeout time.Duration) (net.Conn, error) {
		dials++
		return nil, errors.New("connection refused")
	}

	for i := 0; i < 3; i++ {
		n, err := w.Write([]byte("event"))
		require.NoError(t, err)
		assert.Equal(t, 5, n)
	}
	assert.Equal(t, 1, dials, "expected a single dial inside the retry window")
	assert.Equal(t, uint64(3), w.Dropped())

	require.NoError(t, w.Close())
	_, err = w.Write([]byte("late"))
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestLogstashWriterSkipsLevelsBelowMinimum(t *testing.T) {
	w, err := NewLogstashWriter("logstash:5000", WithMinLevel(zerolog.WarnLevel))
	require.NoError(t, err)
	w.dial = func(network, address string, timeout time.Duration) (net.Conn, error) {
		t.Fatal("dial should not happen for filtered levels")
		return nil, nil
	}
	n, err := w.WriteLevel(zerolog.InfoLevel, []byte("info event"))
	require.NoError(t, err)
	assert.Equal(t, len("info event"), n)
}

func TestNewLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "debug", Output: &buf})
	require.NoError(t, err)
	defer closeFn()

	logger.Debug().Str("user_id", "u-1").Msg("reset mail queued")
	out := buf.String()
	assert.True(t, strings.Contains(out, `"level":"debug"`), out)
	assert.True(t, strings.Contains(out, `"user_id":"u-1"`), out)
	assert.True(t, strings.Contains(out, `"service":"blog-api"`), out)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("nonsense"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
}

func TestNewLoggerShipsOnlyConfiguredLevelsToLogstash(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	lines := make(chan string, 4)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			lines <- line
		}
	}()

	var buf bytes.Buffer
	logger, closeFn, err := New(Options{
		Level:        "debug",
		LogstashAddr: ln.Addr().String(),
		LogstashMin:  "warn",
		Output:       &buf,
	})
	require.NoError(t, err)
	defer closeFn()

	logger.Info().Msg("local only")
	logger.Warn().Msg("shipped")

	select {
	case line := <-lines:
		assert.Contains(t, line, `"message":"shipped"`)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for logstash line")
	}
	assert.Contains(t, buf.String(), "local only")
	assert.Contains(t, buf.String(), "shipped")
}

func TestNewLoggerReportsDroppedEventsOnClose(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	var buf bytes.Buffer
	logger, closeFn, err := New(Options{Level: "info", LogstashAddr: addr, Output: &buf})
	require.NoError(t, err)

	logger.Error().Msg("nobody listening")
	require.NoError(t, closeFn())
	assert.Contains(t, buf.String(), `"dropped":`)
}

func TestNewLoggerRejectsBlankLogstashAddress(t *testing.T) {
	_, err := NewLogstashWriter("  ")
	assert.Error(t, err)
}
