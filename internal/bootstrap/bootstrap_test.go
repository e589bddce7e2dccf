package bootstrap

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-editor/internal/dto"
	"github.com/noah-isme/timetable-editor/internal/models"
	"github.com/noah-isme/timetable-editor/pkg/config"
)

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Env: config.EnvDevelopment,
		Storage: config.StorageConfig{
			Driver:    driver,
			Key:       "timetable-state",
			LegacyKey: "timetable-templates",
			FileDir:   filepath.Join(dir, "data"),
		},
		SQLite:  config.SQLiteConfig{Path: filepath.Join(dir, "timetable.db")},
		Grid:    config.GridConfig{Days: []string{"Mon", "Tue", "Wed"}, TimeSlots: []string{"08:00-09:00", "09:15-10:15"}},
		Notices: config.NoticeConfig{SaveTTL: time.Second},
		Export:  config.ExportConfig{Dir: filepath.Join(dir, "exports")},
	}
}

func roundTrip(t *testing.T, cfg *config.Config) {
	t.Helper()
	ctx := context.Background()

	backend, err := OpenBackend(ctx, cfg)
	require.NoError(t, err)
	defer backend.Close() //nolint:errcheck

	svc, err := NewServices(ctx, cfg, backend.Repo, zap.NewNop(), nil)
	require.NoError(t, err)
	defer svc.Notices.Close()
	require.Len(t, svc.Layout.Days, 3)

	_, err = svc.Store.AddCourse(ctx, dto.CourseInput{
		Title: "Math", Type: models.CourseTypeLecture, StartTime: "08:00", EndTime: "09:00", Location: "A", DayOfWeek: 2,
	})
	require.NoError(t, err)

	reloaded, err := NewServices(ctx, cfg, backend.Repo, zap.NewNop(), nil)
	require.NoError(t, err)
	defer reloaded.Notices.Close()
	cell, err := reloaded.Presenter.SlotCourses("1", 2)
	require.NoError(t, err)
	require.Len(t, cell, 1)
	assert.Equal(t, "Math", cell[0].Title)

	for name, check := range backend.Checks {
		assert.NoError(t, check(ctx), name)
	}
}

func TestOpenBackendFile(t *testing.T) {
	roundTrip(t, testConfig(t, config.StorageFile))
}

func TestOpenBackendSQLite(t *testing.T) {
	cfg := testConfig(t, config.StorageSQLite)
	roundTrip(t, cfg)
}

func TestOpenBackendRedis(t *testing.T) {
	srv := miniredis.RunT(t)
	host, port, ok := strings.Cut(srv.Addr(), ":")
	require.True(t, ok)
	portNum, err := strconv.Atoi(port)
	require.NoError(t, err)

	cfg := testConfig(t, config.StorageRedis)
	cfg.Redis = config.RedisConfig{Host: host, Port: portNum, KeyPrefix: "tt:"}
	roundTrip(t, cfg)

	assert.True(t, srv.Exists("tt:timetable-state"))
}

func TestOpenBackendUnknownDriver(t *testing.T) {
	_, err := OpenBackend(context.Background(), testConfig(t, "etcd"))
	assert.Error(t, err)
}

func TestNewServicesRejectsBadSlots(t *testing.T) {
	cfg := testConfig(t, config.StorageFile)
	cfg.Grid.TimeSlots = []string{"10:00-09:00"}
	backend, err := OpenBackend(context.Background(), cfg)
	require.NoError(t, err)

	_, err = NewServices(context.Background(), cfg, backend.Repo, zap.NewNop(), nil)
	assert.Error(t, err)
}
