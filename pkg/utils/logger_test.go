package utils

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger_Levels(t *testing.T) {
	log := NewLogger(Config{LogLevel: "debug"})
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log = NewLogger(Config{LogLevel: "not-a-level"})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel(), "bad level falls back to info")
}

func TestWithFunc_AddsCallerField(t *testing.T) {
	log := NewLogger(Config{LogLevel: "debug", LogFormat: "json"})
	entry := log.WithFunc()

	name, ok := entry.Data["func"].(string)
	assert.True(t, ok)
	assert.Contains(t, name, "TestWithFunc_AddsCallerField")
}
