package main

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"users-api/internal/config"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "cluster"}, names)
}

func TestSetupReadsFlags(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"PORT", "RESERVE_PORT", "USERS_SERVER_PORT", "USERS_STORE_DRIVER", "USERS_LOG_LEVEL", "USERS_CLUSTER_WORKERS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	root := newRootCommand()
	cmd, _, err := root.Find([]string{"cluster"})
	require.NoError(t, err)
	require.NoError(t, cmd.ParseFlags([]string{"--port", "4100", "--store", "sqlite", "--workers", "2", "--log-level", "debug"}))

	cfg, logger, err := setup(cmd)
	require.NoError(t, err)
	assert.Equal(t, 4100, cfg.Server.Port)
	assert.Equal(t, config.StoreSQLite, cfg.Store.Driver)
	assert.Equal(t, 2, cfg.Cluster.Workers)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestSetupRejectsBadLogLevel(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("USERS_LOG_LEVEL", "loud")

	root := newRootCommand()
	cmd, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	require.NoError(t, cmd.ParseFlags(nil))

	_, _, err = setup(cmd)
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
