// Package mysqlexec wraps invocations of the external MySQL client and dump
// utility as child processes. It exposes byte-streamed input/output with
// byte-counter callbacks, which are the sole progress source for long-running
// import and export operations.
package mysqlexec

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"

	"github.com/dbsmedya/goslim/internal/config"
	"github.com/dbsmedya/goslim/internal/logger"
)

// ByteCallback receives the cumulative number of bytes that have crossed the
// pipe boundary so far. May be nil when no progress reporting is needed.
type ByteCallback func(total int64)

// Client is the external command surface the pipeline depends on. The
// concrete implementation spawns child processes; tests substitute fakes.
type Client interface {
	// Import streams a dump into the named database via the client's stdin.
	Import(ctx context.Context, database string, input io.Reader, onBytes ByteCallback) error

	// ExportSchema writes table definitions (no row data) for every table of
	// the named database to out.
	ExportSchema(ctx context.Context, database string, out io.Writer, onBytes ByteCallback) error

	// ExportData writes row data (no table definitions) for every table of
	// the named database except those listed in excluded.
	ExportData(ctx context.Context, database string, excluded []string, out io.Writer, onBytes ByteCallback) error
}

// Session holds the resolved connection parameters for one logical pipeline
// run and renders them into arguments for every invocation. It implements
// Client by spawning exactly one OS process per call.
type Session struct {
	conn   *config.ConnectionConfig
	logger *logger.Logger
}

// NewSession creates a Session from the resolved connection configuration.
func NewSession(conn *config.ConnectionConfig, log *logger.Logger) *Session {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Session{conn: conn, logger: log}
}

// Import feeds the input stream to `mysql <database>` and reports bytes as
// they are consumed from the stream.
func (s *Session) Import(ctx context.Context, database string, input io.Reader, onBytes ByteCallback) error {
	args := append(connectionArgs(s.conn), database)
	stdin := io.Reader(input)
	if onBytes != nil {
		stdin = &countingReader{r: input, onBytes: onBytes}
	}
	return s.run(ctx, s.conn.ClientPath, args, stdin, nil)
}

// ExportSchema runs the dump tool with row data suppressed. Routines and
// triggers ride along with the schema pass so the slim output keeps them.
func (s *Session) ExportSchema(ctx context.Context, database string, out io.Writer, onBytes ByteCallback) error {
	args := append(connectionArgs(s.conn),
		"--no-data",
		"--routines",
		"--triggers",
		database,
	)
	return s.run(ctx, s.conn.DumpPath, args, nil, countWrites(out, onBytes))
}

// ExportData runs the dump tool with table definitions suppressed, skipping
// row data for every excluded table. Triggers are skipped here because the
// schema pass already emitted them.
func (s *Session) ExportData(ctx context.Context, database string, excluded []string, out io.Writer, onBytes ByteCallback) error {
	args := append(connectionArgs(s.conn),
		"--no-create-info",
		"--skip-triggers",
	)
	for _, table := range excluded {
		args = append(args, "--ignore-table="+database+"."+table)
	}
	args = append(args, database)
	return s.run(ctx, s.conn.DumpPath, args, nil, countWrites(out, onBytes))
}

// run spawns one child process, wiring the given stdin and stdout streams,
// and converts a non-zero exit into an ExternalProcessError carrying the
// captured stderr text.
func (s *Session) run(ctx context.Context, path string, args []string, stdin io.Reader, stdout io.Writer) error {
	cmd := exec.CommandContext(ctx, path, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if stdin != nil {
		cmd.Stdin = stdin
	}
	if stdout != nil {
		cmd.Stdout = stdout
	} else {
		// Buffered internally for diagnostics only.
		cmd.Stdout = &bytes.Buffer{}
	}

	s.logger.Debugw("Spawning external process", "command", path, "args", redactArgs(args))

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExternalProcessError{
			Command:  path,
			ExitCode: exitErr.ExitCode(),
			Stderr:   stderr.String(),
		}
	}
	return err
}

// redactArgs masks the password argument for logging.
func redactArgs(args []string) []string {
	redacted := make([]string, len(args))
	for i, a := range args {
		if len(a) > 11 && a[:11] == "--password=" {
			redacted[i] = "--password=***"
		} else {
			redacted[i] = a
		}
	}
	return redacted
}

// countWrites wraps out with a byte-counting writer when a callback is set.
func countWrites(out io.Writer, onBytes ByteCallback) io.Writer {
	if onBytes == nil {
		return out
	}
	return &countingWriter{w: out, onBytes: onBytes}
}

// countingReader reports the cumulative bytes read from the wrapped reader.
type countingReader struct {
	r       io.Reader
	total   int64
	onBytes ByteCallback
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.total += int64(n)
		c.onBytes(c.total)
	}
	return n, err
}

// countingWriter reports the cumulative bytes written to the wrapped writer.
type countingWriter struct {
	w       io.Writer
	total   int64
	onBytes ByteCallback
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	if n > 0 {
		c.total += int64(n)
		c.onBytes(c.total)
	}
	return n, err
}
