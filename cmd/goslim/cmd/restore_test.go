package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRestoreCommandStructure(t *testing.T) {
	assert.Contains(t, restoreCmd.Use, "restore")
	assert.NotEmpty(t, restoreCmd.Short)
	assert.NotNil(t, restoreCmd.RunE)

	flag := restoreCmd.Flags().Lookup("target")
	assert.NotNil(t, flag)
	assert.Equal(t, "t", flag.Shorthand)
}

func TestRestoreCommandRequiresExactArgs(t *testing.T) {
	assert.Error(t, restoreCmd.Args(restoreCmd, nil))
	assert.Error(t, restoreCmd.Args(restoreCmd, []string{"a.sql", "b.sql"}))
	assert.NoError(t, restoreCmd.Args(restoreCmd, []string{"a.sql"}))
}

func TestRestoreCommandRegistered(t *testing.T) {
	found := false
	for _, c := range rootCmd.Commands() {
		if c == restoreCmd {
			found = true
		}
	}
	assert.True(t, found)
}
