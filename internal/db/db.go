package db

import (
	"fmt"
	"penhub/internal/config"
	"penhub/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open 按配置选择驱动并建立连接，完成迁移与初始分组数据
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DatabaseURL)
	default:
		dialector = postgres.Open(cfg.DatabaseURL)
	}

	level := gormlogger.Info
	if cfg.IsProduction() {
		level = gormlogger.Warn
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	log.Info("Database connection established", zap.String("driver", cfg.DatabaseDriver))

	if err := Migrate(conn); err != nil {
		return nil, err
	}
	log.Info("Database migration completed")

	if cfg.SeedGroups {
		if err := SeedGroups(conn, log); err != nil {
			return nil, err
		}
	}
	return conn, nil
}

// Migrate 创建或更新所有表结构
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
	); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return backfillSearchText(conn)
}

// backfillSearchText 为新增 search_text 列之前写入的帖子补齐搜索文本
func backfillSearchText(conn *gorm.DB) error {
	var posts []models.Post
	err := conn.Select("id", "text").
		Where("search_text = ? AND text <> ?", "", "").
		FindInBatches(&posts, 200, func(_ *gorm.DB, _ int) error {
			for _, p := range posts {
				if err := conn.Model(&models.Post{}).Where("id = ?", p.ID).
					UpdateColumn("search_text", models.SearchKey(p.Text)).Error; err != nil {
					return err
				}
			}
			return nil
		}).Error
	if err != nil {
		return fmt.Errorf("backfill search text: %w", err)
	}
	return nil
}

// DefaultGroups 初始分组
var DefaultGroups = []models.Group{
	{Title: "Tech", Slug: "tech", Description: "Programming, tools and everything technical"},
	{Title: "Life", Slug: "life", Description: "Everyday stories and experience"},
	{Title: "Showcase", Slug: "showcase", Description: "Projects and work to show off"},
	{Title: "Off-topic", Slug: "off-topic", Description: "Anything else"},
}

// SeedGroups 仅在分组表为空时写入 DefaultGroups
func SeedGroups(conn *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := conn.Model(&models.Group{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count groups: %w", err)
	}
	if count > 0 {
		log.Debug("Groups already seeded, skipping")
		return nil
	}

	created := 0
	for _, g := range DefaultGroups {
		group := g
		if err := conn.Create(&group).Error; err != nil {
			log.Warn("Failed to create group", zap.String("slug", group.Slug), zap.Error(err))
			continue
		}
		created++
	}
	log.Info("Initial groups created", zap.Int("count", created), zap.Int("total", len(DefaultGroups)))
	return nil
}
