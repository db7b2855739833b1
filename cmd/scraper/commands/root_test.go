package commands

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func newTestCommand(t *testing.T) *cobra.Command {
	t.Helper()
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "vlr.db"))
	t.Setenv("LOG_LEVEL", "disabled")

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

func TestRunCrawlClosesDatabaseWhenStartFails(t *testing.T) {
	cmd := newTestCommand(t)

	var sqlDB *sql.DB
	failStart := fx.Options(
		fx.Populate(&sqlDB),
		fx.Invoke(func(lc fx.Lifecycle) {
			lc.Append(fx.Hook{OnStart: func(context.Context) error { return errors.New("start failed") }})
		}),
	)

	called := false
	err := runCrawlWith(cmd, failStart, func(context.Context, deps) error {
		called = true
		return nil
	})
	require.ErrorContains(t, err, "start failed")
	assert.False(t, called)

	require.NotNil(t, sqlDB)
	assert.ErrorContains(t, sqlDB.Ping(), "database is closed")
}

func TestRunCrawlClosesDatabaseAfterRun(t *testing.T) {
	cmd := newTestCommand(t)

	var sqlDB *sql.DB
	err := runCrawlWith(cmd, fx.Populate(&sqlDB), func(ctx context.Context, d deps) error {
		require.NotNil(t, d.crawler)
		require.NoError(t, sqlDB.PingContext(ctx))
		return nil
	})
	require.NoError(t, err)
	assert.ErrorContains(t, sqlDB.Ping(), "database is closed")
}
