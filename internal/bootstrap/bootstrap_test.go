package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/orgchart-service/internal/config"
	"github.com/spec-kit/orgchart-service/internal/domain"
	"github.com/spec-kit/orgchart-service/internal/lock"
	"github.com/spec-kit/orgchart-service/internal/repository"
)

func testConfig() *config.Config {
	return &config.Config{
		Hierarchy: config.HierarchyConfig{MaxDepth: 8},
		Reconcile: config.ReconcileConfig{LockTTL: time.Second, LockWait: time.Second},
	}
}

func TestNew_InMemoryFallback(t *testing.T) {
	c, err := New(context.Background(), testConfig(), zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	require.False(t, c.Postgres.Enabled())
	require.IsType(t, &repository.MemoryDesignationRepository{}, c.Repos.Designations)
	require.IsType(t, &lock.LocalLocker{}, c.Locker)

	ctx := context.Background()
	dept, err := c.Org.CreateDepartment(ctx, "org", domain.DepartmentInput{Name: "Eng", Whitelist: []string{"Manager"}})
	require.NoError(t, err)
	result, err := c.Reconciler.Reconcile(ctx, "org", dept.ID)
	require.NoError(t, err)
	require.Len(t, result.Created, 1)
}

func TestNew_RedisLockWhenReachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig()
	cfg.Redis = config.RedisConfig{Enabled: true, Addr: mr.Addr()}

	c, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	require.True(t, c.Redis.Reachable())
	require.IsType(t, &lock.RedisLocker{}, c.Locker)
}
