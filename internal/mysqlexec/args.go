package mysqlexec

import (
	"fmt"

	"github.com/dbsmedya/goslim/internal/config"
)

// connectionArgs renders the resolved connection parameters into command-line
// arguments shared by every client and dump-tool invocation of a session.
// Socket and host/port addressing are mutually exclusive: when a socket path
// is configured, host and port are omitted entirely.
func connectionArgs(cfg *config.ConnectionConfig) []string {
	var args []string

	if cfg.UsesSocket() {
		args = append(args, "--socket="+cfg.Socket)
	} else {
		args = append(args, "--host="+cfg.Host)
		args = append(args, fmt.Sprintf("--port=%d", cfg.Port))
	}

	if cfg.User != "" {
		args = append(args, "--user="+cfg.User)
	}
	if cfg.Password != "" {
		args = append(args, "--password="+cfg.Password)
	}

	return args
}
