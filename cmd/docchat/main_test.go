package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docchat/internal/config"
)

func TestChatOptions(t *testing.T) {
	cfg := &config.AppConfig{UI: config.UIConfig{MarkdownStyle: "light"}}

	opts, err := chatOptions(cfg, "sk-test", []string{"a.txt"}, func() (string, error) { return "/work", nil })
	require.NoError(t, err)
	assert.Equal(t, "/work", opts.StartDir)
	assert.Equal(t, "sk-test", opts.APIKey)
	assert.Equal(t, "light", opts.MarkdownStyle)
	assert.Equal(t, []string{"a.txt"}, opts.Pending)
}

func TestChatOptionsWithoutWorkingDirectory(t *testing.T) {
	cfg := &config.AppConfig{}
	boom := errors.New("getwd: no such file or directory")

	opts, err := chatOptions(cfg, "", nil, func() (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, opts.StartDir)
}
