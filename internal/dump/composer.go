package dump

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dbsmedya/goslim/internal/logger"
	"github.com/dbsmedya/goslim/internal/mysqlexec"
)

// Composer produces one slim output file from one workspace database plus an
// exclusion set, by running a schema-only export pass followed by a data-only
// pass and concatenating the two artifacts in order.
type Composer struct {
	client mysqlexec.Client
	logger *logger.Logger
}

// NewComposer creates a Composer driving exports through the given client.
func NewComposer(client mysqlexec.Client, log *logger.Logger) (*Composer, error) {
	if client == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Composer{client: client, logger: log}, nil
}

// Compose exports the workspace database into outputPath.
//
// The schema pass covers every table, excluded ones included, so the result
// is schema-complete; the data pass skips excluded tables. Both passes write
// to private temporary artifacts next to the output; the externally visible
// output file is created only after both passes succeeded, guaranteeing no
// half-written slim dump is ever left behind. Temporary artifacts are removed
// on every path.
//
// Progress: onBytes receives a single increasing counter across both passes,
// schema bytes half-weighted first, then the schema midpoint plus half the
// data bytes. The true output size is unknown until export completes, so
// callers pair this counter with an estimated denominator.
func (c *Composer) Compose(ctx context.Context, database string, exclusions *ExclusionSet, outputPath string, onBytes mysqlexec.ByteCallback) error {
	if exclusions == nil {
		exclusions = NewExclusionSet()
	}

	dir := filepath.Dir(outputPath)

	schemaFile, err := os.CreateTemp(dir, ".goslim-schema-*.sql")
	if err != nil {
		return fmt.Errorf("failed to create schema artifact: %w", err)
	}
	defer os.Remove(schemaFile.Name())

	dataFile, err := os.CreateTemp(dir, ".goslim-data-*.sql")
	if err != nil {
		schemaFile.Close()
		return fmt.Errorf("failed to create data artifact: %w", err)
	}
	defer os.Remove(dataFile.Name())

	schemaBytes, err := c.exportSchema(ctx, database, schemaFile, onBytes)
	if err != nil {
		dataFile.Close()
		return err
	}

	if err := c.exportData(ctx, database, exclusions, dataFile, schemaBytes, onBytes); err != nil {
		return err
	}

	if err := c.concatenate(schemaFile.Name(), dataFile.Name(), outputPath); err != nil {
		return err
	}

	c.logger.Debugw("Composed slim dump",
		"database", database,
		"output", outputPath,
		"excluded_tables", exclusions.Len(),
	)
	return nil
}

// exportSchema runs the schema-only pass and returns the artifact size.
func (c *Composer) exportSchema(ctx context.Context, database string, f *os.File, onBytes mysqlexec.ByteCallback) (int64, error) {
	var total int64
	counter := func(n int64) {
		total = n
		if onBytes != nil {
			onBytes(n / 2)
		}
	}

	if err := c.client.ExportSchema(ctx, database, f, counter); err != nil {
		f.Close()
		return 0, fmt.Errorf("schema export failed: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to finalize schema artifact: %w", err)
	}
	return total, nil
}

// exportData runs the data-only pass, offsetting the progress counter past
// the schema midpoint.
func (c *Composer) exportData(ctx context.Context, database string, exclusions *ExclusionSet, f *os.File, schemaBytes int64, onBytes mysqlexec.ByteCallback) error {
	counter := func(n int64) {
		if onBytes != nil {
			onBytes(schemaBytes/2 + n/2)
		}
	}

	if err := c.client.ExportData(ctx, database, exclusions.Tables(), f, counter); err != nil {
		f.Close()
		return fmt.Errorf("data export failed: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to finalize data artifact: %w", err)
	}
	return nil
}

// concatenate writes the schema artifact followed by the data artifact into
// outputPath, byte order preserved, overwriting any pre-existing file. The
// output writer is not closed until both sources have been fully drained.
func (c *Composer) concatenate(schemaPath, dataPath, outputPath string) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := appendFile(out, schemaPath); err != nil {
		out.Close()
		os.Remove(outputPath)
		return err
	}
	if err := appendFile(out, dataPath); err != nil {
		out.Close()
		os.Remove(outputPath)
		return err
	}

	if err := out.Close(); err != nil {
		os.Remove(outputPath)
		return fmt.Errorf("failed to finalize output file: %w", err)
	}
	return nil
}

// appendFile copies the entire contents of path to w.
func appendFile(w io.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open artifact: %w", err)
	}
	defer src.Close()

	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("failed to concatenate artifact: %w", err)
	}
	return nil
}
