package mysqlexec

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dbsmedya/goslim/internal/config"
)

func TestConnectionArgs_HostPort(t *testing.T) {
	cfg := &config.ConnectionConfig{
		Host:     "db.internal",
		Port:     3307,
		User:     "slim",
		Password: "hunter2",
	}

	args := connectionArgs(cfg)

	assert.Equal(t, []string{
		"--host=db.internal",
		"--port=3307",
		"--user=slim",
		"--password=hunter2",
	}, args)
}

func TestConnectionArgs_SocketExcludesHostPort(t *testing.T) {
	cfg := &config.ConnectionConfig{
		Host:   "ignored.example",
		Port:   3306,
		Socket: "/var/run/mysqld/mysqld.sock",
		User:   "slim",
	}

	args := connectionArgs(cfg)

	assert.Contains(t, args, "--socket=/var/run/mysqld/mysqld.sock")
	for _, a := range args {
		assert.NotContains(t, a, "--host")
		assert.NotContains(t, a, "--port")
	}
}

func TestConnectionArgs_OmitsEmptyCredentials(t *testing.T) {
	cfg := &config.ConnectionConfig{Host: "localhost", Port: 3306}

	args := connectionArgs(cfg)

	assert.Equal(t, []string{"--host=localhost", "--port=3306"}, args)
}

func TestRedactArgs(t *testing.T) {
	args := []string{"--host=localhost", "--password=topsecret", "shop_temp"}

	redacted := redactArgs(args)

	assert.Equal(t, []string{"--host=localhost", "--password=***", "shop_temp"}, redacted)
	// Original slice untouched
	assert.Equal(t, "--password=topsecret", args[1])
}
