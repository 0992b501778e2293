package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommandStructure(t *testing.T) {
	assert.Equal(t, "validate", validateCmd.Use)
	assert.NotEmpty(t, validateCmd.Short)
	assert.NotNil(t, validateCmd.RunE)
	assert.NotNil(t, validateCmd.Flags().Lookup("skip-connect"))
}

func TestRunValidate_SkipConnect(t *testing.T) {
	originalCfg, originalSkip := cfgFile, validateSkipConnect
	defer func() {
		cfgFile, validateSkipConnect = originalCfg, originalSkip
	}()

	tmpDir := t.TempDir()

	exclusionsPath := filepath.Join(tmpDir, "exclusions.txt")
	require.NoError(t, os.WriteFile(exclusionsPath, []byte("sessions\ncache\n"), 0644))

	configPath := filepath.Join(tmpDir, "goslim.yaml")
	configContent := `
connection:
  host: 127.0.0.1
  port: 3306
  user: root
  password: test

output:
  dir: ` + tmpDir + `

exclusions:
  file: ` + exclusionsPath + `
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfgFile = configPath
	validateSkipConnect = true

	err := runValidate(validateCmd, nil)
	assert.NoError(t, err)
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	originalCfg, originalSkip := cfgFile, validateSkipConnect
	defer func() {
		cfgFile, validateSkipConnect = originalCfg, originalSkip
	}()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "goslim.yaml")

	// Missing user fails validation
	configContent := `
connection:
  host: 127.0.0.1
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))

	cfgFile = configPath
	validateSkipConnect = true

	err := runValidate(validateCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection.user")
}

func TestRunValidate_MissingConfigFile(t *testing.T) {
	originalCfg := cfgFile
	defer func() { cfgFile = originalCfg }()

	cfgFile = filepath.Join(t.TempDir(), "nope.yaml")

	err := runValidate(validateCmd, nil)
	assert.Error(t, err)
}
