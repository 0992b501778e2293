package dump

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/goslim/internal/mysqlexec"
)

// fakeClient simulates the external client and dump tool with canned output.
type fakeClient struct {
	schema    string
	data      string
	schemaErr error
	dataErr   error

	exportedDB  string
	gotExcluded []string
}

func (f *fakeClient) Import(ctx context.Context, database string, input io.Reader, onBytes mysqlexec.ByteCallback) error {
	_, err := io.Copy(io.Discard, input)
	return err
}

func (f *fakeClient) ExportSchema(ctx context.Context, database string, out io.Writer, onBytes mysqlexec.ByteCallback) error {
	if f.schemaErr != nil {
		return f.schemaErr
	}
	f.exportedDB = database
	return writeChunked(out, f.schema, onBytes)
}

func (f *fakeClient) ExportData(ctx context.Context, database string, excluded []string, out io.Writer, onBytes mysqlexec.ByteCallback) error {
	if f.dataErr != nil {
		return f.dataErr
	}
	f.gotExcluded = excluded
	return writeChunked(out, f.data, onBytes)
}

// writeChunked writes s in small pieces, reporting cumulative bytes like the
// real counting writer does.
func writeChunked(out io.Writer, s string, onBytes mysqlexec.ByteCallback) error {
	var total int64
	for len(s) > 0 {
		n := 4
		if n > len(s) {
			n = len(s)
		}
		if _, err := io.WriteString(out, s[:n]); err != nil {
			return err
		}
		total += int64(n)
		if onBytes != nil {
			onBytes(total)
		}
		s = s[n:]
	}
	return nil
}

func newTestComposer(t *testing.T, client mysqlexec.Client) *Composer {
	t.Helper()
	c, err := NewComposer(client, nil)
	require.NoError(t, err)
	return c
}

func TestCompose_ConcatenationOrder(t *testing.T) {
	schema := "-- schema\nCREATE TABLE sessions (id INT);\nCREATE TABLE orders (id INT);\n"
	data := "-- data\nINSERT INTO orders VALUES (1);\n"
	client := &fakeClient{schema: schema, data: data}

	dir := t.TempDir()
	out := filepath.Join(dir, "shop_slim.sql")

	c := newTestComposer(t, client)
	require.NoError(t, c.Compose(context.Background(), "shop_temp", NewExclusionSet("sessions"), out, nil))

	content, err := os.ReadFile(out)
	require.NoError(t, err)

	// Byte-for-byte: the schema artifact first, immediately followed by the
	// data artifact, no interleaving.
	assert.Equal(t, schema+data, string(content))
	assert.Equal(t, "shop_temp", client.exportedDB)
	assert.Equal(t, []string{"sessions"}, client.gotExcluded)
}

func TestCompose_RemovesTemporaryArtifacts(t *testing.T) {
	client := &fakeClient{schema: "s", data: "d"}
	dir := t.TempDir()
	out := filepath.Join(dir, "shop_slim.sql")

	c := newTestComposer(t, client)
	require.NoError(t, c.Compose(context.Background(), "shop_temp", nil, out, nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "shop_slim.sql", entries[0].Name())
}

func TestCompose_OverwritesExistingOutput(t *testing.T) {
	client := &fakeClient{schema: "new schema\n", data: "new data\n"}
	dir := t.TempDir()
	out := filepath.Join(dir, "shop_slim.sql")
	require.NoError(t, os.WriteFile(out, []byte("stale content"), 0644))

	c := newTestComposer(t, client)
	require.NoError(t, c.Compose(context.Background(), "shop_temp", nil, out, nil))

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "new schema\nnew data\n", string(content))
}

func TestCompose_SchemaFailureLeavesNoOutput(t *testing.T) {
	client := &fakeClient{schemaErr: errors.New("dump tool exploded")}
	dir := t.TempDir()
	out := filepath.Join(dir, "shop_slim.sql")

	c := newTestComposer(t, client)
	err := c.Compose(context.Background(), "shop_temp", nil, out, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema export failed")

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries, "no output and no leftover artifacts")
}

func TestCompose_DataFailureLeavesNoOutput(t *testing.T) {
	client := &fakeClient{schema: "schema\n", dataErr: errors.New("connection lost")}
	dir := t.TempDir()
	out := filepath.Join(dir, "shop_slim.sql")

	c := newTestComposer(t, client)
	err := c.Compose(context.Background(), "shop_temp", nil, out, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "data export failed")

	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestCompose_ProgressHalfWeighting(t *testing.T) {
	schema := strings.Repeat("s", 100)
	data := strings.Repeat("d", 60)
	client := &fakeClient{schema: schema, data: data}

	var counts []int64
	onBytes := func(n int64) { counts = append(counts, n) }

	dir := t.TempDir()
	c := newTestComposer(t, client)
	require.NoError(t, c.Compose(context.Background(), "shop_temp", nil, filepath.Join(dir, "out.sql"), onBytes))

	require.NotEmpty(t, counts)

	// Single increasing counter across both phases
	for i := 1; i < len(counts); i++ {
		assert.GreaterOrEqual(t, counts[i], counts[i-1])
	}

	// Schema pass tops out at half its byte count, data pass continues from
	// the schema midpoint.
	assert.Contains(t, counts, int64(50))
	assert.Equal(t, int64(50+30), counts[len(counts)-1])
}
