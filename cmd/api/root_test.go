package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommandReadsDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("APP_NAME=Docs API\nAPP_VERSION=1.2.3\n"), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version", "--env-file", path})
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, "Docs API 1.2.3\n", out.String())
}

func TestRootCommandFailsFastOnInvalidConfig(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "*")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")

	rootCmd.SetArgs([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}
