package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fadedpez/tucotable/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, WARN)

	logger.Debug("dealt %s", "AS")
	logger.Info("round %d started", 1)
	assert.Empty(t, buf.String())

	logger.Warn("shoe at cut card")
	assert.Contains(t, buf.String(), "WARN")
	assert.Contains(t, buf.String(), "shoe at cut card")
	assert.Contains(t, buf.String(), "logger_test.go")
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, DEBUG)

	logger.LogError(types.WrapError(types.ErrDatabaseError, "saving rows", errors.New("locked")))
	assert.Contains(t, buf.String(), "Code: DATABASE_ERROR")
	assert.Contains(t, buf.String(), "Cause: locked")

	buf.Reset()
	logger.LogError(errors.New("boom"))
	assert.Contains(t, buf.String(), "Unexpected error: boom")
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		in    string
		want  Level
		valid bool
	}{
		{"debug", DEBUG, true},
		{" WARN ", WARN, true},
		{"Error", ERROR, true},
		{"verbose", INFO, false},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseLevel(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.valid, ok)
		})
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	assert.NotPanics(t, func() { logger.Error("nothing to see") })
	assert.Equal(t, "ERROR", ERROR.String())
}
