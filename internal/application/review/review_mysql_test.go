package review

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/mysql"
)

const mysqlTestPassword = "secret"

// newMySQLDB 启动MySQL容器并返回迁移好的连接
// 没有Docker或使用-short时跳过
func newMySQLDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("MySQL容器测试在-short模式下跳过")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mysql:8.0",
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": mysqlTestPassword,
				"MYSQL_DATABASE":      "bookreview",
			},
			// 初始化阶段的临时实例监听port: 0，这一行只在正式实例就绪后出现
			WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").
				WithStartupTimeout(3 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "3306/tcp")
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:          "mysql",
			Host:            host,
			Port:            port.Int(),
			User:            "root",
			Password:        mysqlTestPassword,
			DBName:          "bookreview",
			Charset:         "utf8mb4",
			ParseTime:       true,
			Loc:             "Local",
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Minute,
			AutoMigrate:     true,
		},
	}

	var db *gorm.DB
	require.Eventually(t, func() bool {
		db, err = mysql.NewDB(cfg, zap.NewNop())
		return err == nil
	}, time.Minute, time.Second, "连接MySQL失败")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// TestReviewMutation_ConcurrentMySQL 多连接并发变更同一本书
// 图书行锁缺失时，重算会读到旧快照并写回过期的评分统计
func TestReviewMutation_ConcurrentMySQL(t *testing.T) {
	f := newFixtureWithDB(newMySQLDB(t), nil)
	f.concurrentMutations(t)
}
