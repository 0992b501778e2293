package dump

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadExclusions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclusions.txt")
	content := `# large volatile tables
sessions

cache
  audit_log

# trailing comment
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	set, err := LoadExclusions(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"sessions", "cache", "audit_log"}, set.Tables())
	assert.Equal(t, 3, set.Len())
	assert.True(t, set.Contains("sessions"))
	assert.True(t, set.Contains("audit_log"))
	assert.False(t, set.Contains("orders"))
	assert.False(t, set.Contains("# large volatile tables"))
}

func TestLoadExclusions_MissingFileYieldsEmptySet(t *testing.T) {
	set, err := LoadExclusions(filepath.Join(t.TempDir(), "nope.txt"))
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestLoadExclusions_EmptyPathYieldsEmptySet(t *testing.T) {
	set, err := LoadExclusions("")
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestLoadExclusions_ReadFailure(t *testing.T) {
	// A directory opens fine but fails on read; only not-found is tolerated.
	_, err := LoadExclusions(t.TempDir())
	require.Error(t, err)
}

func TestNewExclusionSet(t *testing.T) {
	set := NewExclusionSet("sessions", "cache")

	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains("cache"))
	assert.False(t, set.Contains("users"))
}
