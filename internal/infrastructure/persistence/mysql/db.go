package mysql

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookreview/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 生产使用MySQL；本地开发和测试可切换为SQLite（纯Go驱动，无需CGO）
// 2. 配置连接池参数（SQLite只允许一个连接，写操作天然串行）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 不创建外键约束：删除用户不会影响其图书和评论
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	// 1. 选择驱动
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Database.DSN())
	default:
		dialector = mysql.Open(cfg.Database.DSN())
	}

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	// 3. 连接数据库
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().Truncate(time.Microsecond)
		},
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	if cfg.Database.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info("数据库连接成功", zap.String("driver", cfg.Database.Driver))

	// 6. 自动迁移表结构
	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, nil
}

// AutoMigrate 自动迁移表结构
// 注意：生产环境应使用版本化的迁移脚本
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&BookModel{},
		&ReviewModel{},
	)
}

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type UserModel struct {
	ID          uint       `gorm:"primaryKey"`
	Name        string     `gorm:"size:100;not null;comment:姓名"`
	Email       string     `gorm:"uniqueIndex;size:100;not null;comment:邮箱（小写）"`
	Password    string     `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	PhoneNumber string     `gorm:"size:30;not null;comment:手机号"`
	Avatar      string     `gorm:"size:500;comment:头像相对路径"`
	Role        string     `gorm:"size:20;not null;comment:角色"`
	AccessToken string     `gorm:"type:text;comment:最近一次签发的Token"`
	LastLogin   *time.Time `gorm:"comment:最近登录时间"`
	CreatedAt   time.Time  `gorm:"index;comment:创建时间"`
	UpdatedAt   time.Time  `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// BookModel GORM图书模型
// 设计说明:
// 1. average_rating可为NULL（没有评论）
// 2. average_rating和reviews_count只由评分聚合器写入
// 3. Creator为belongs-to关联，列表查询时预加载
type BookModel struct {
	ID            uint       `gorm:"primaryKey"`
	Title         string     `gorm:"size:200;not null;comment:书名"`
	Author        string     `gorm:"index;size:100;not null;comment:作者"`
	Genre         string     `gorm:"index;size:50;comment:类型"`
	CoverImage    string     `gorm:"size:500;comment:封面相对路径"`
	AverageRating *float64   `gorm:"comment:平均评分（两位小数）"`
	ReviewsCount  int64      `gorm:"not null;default:0;comment:评论数"`
	CreatedBy     uint       `gorm:"index;not null;comment:创建者用户ID"`
	Creator       *UserModel `gorm:"foreignKey:CreatedBy"`
	CreatedAt     time.Time  `gorm:"index;comment:创建时间"`
	UpdatedAt     time.Time  `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// ReviewModel GORM评论模型
// 设计说明:
// 1. (book_id, user_id)唯一索引：每个用户对每本书只能评论一次
// 2. 物理删除（软删除会让唯一索引阻止重新评论）
type ReviewModel struct {
	ID        uint       `gorm:"primaryKey"`
	BookID    uint       `gorm:"uniqueIndex:idx_reviews_book_user,priority:1;not null;comment:图书ID"`
	UserID    uint       `gorm:"uniqueIndex:idx_reviews_book_user,priority:2;index;not null;comment:评论者用户ID"`
	Rating    int        `gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5;comment:评分1-5"`
	Comment   string     `gorm:"type:text;comment:评论内容"`
	Reviewer  *UserModel `gorm:"foreignKey:UserID"`
	CreatedAt time.Time  `gorm:"index;comment:创建时间"`
	UpdatedAt time.Time  `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (ReviewModel) TableName() string {
	return "reviews"
}
