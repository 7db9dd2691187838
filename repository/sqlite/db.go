// Package sqlite implements the record gateway over an embedded SQLite file
// opened through gorm.
package sqlite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultPath = "taskflow.db"

type categoryRow struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name       string    `gorm:"column:name;not null;default:'';uniqueIndex"`
	Tags       string    `gorm:"column:tags;not null;default:''"`
	Owner      string    `gorm:"column:owner;not null;default:''"`
	CreatedOn  time.Time `gorm:"column:created_on;autoCreateTime:false"`
	ModifiedOn time.Time `gorm:"column:modified_on;autoUpdateTime:false"`
	Color      string    `gorm:"column:color;not null;default:''"`
	TaskCount  int64     `gorm:"column:task_count;not null;default:0"`
}

func (categoryRow) TableName() string { return "categories" }

type taskRow struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string     `gorm:"column:name;not null;default:''"`
	Tags        string     `gorm:"column:tags;not null;default:''"`
	Owner       string     `gorm:"column:owner;not null;default:''"`
	CreatedOn   time.Time  `gorm:"column:created_on;autoCreateTime:false"`
	ModifiedOn  time.Time  `gorm:"column:modified_on;autoUpdateTime:false"`
	Title       string     `gorm:"column:title;not null;default:''"`
	Description *string    `gorm:"column:description"`
	Category    string     `gorm:"column:category;not null;default:'';index"`
	Priority    string     `gorm:"column:priority;not null;default:'Medium'"`
	DueDate     string     `gorm:"column:due_date;size:10;not null;default:''"`
	Completed   bool       `gorm:"column:completed;not null;default:false"`
	Archived    bool       `gorm:"column:archived;not null;default:false;index:idx_tasks_archived_created,priority:1"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime:false;index:idx_tasks_archived_created,priority:2"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
}

func (taskRow) TableName() string { return "tasks" }

// NewDB opens the SQLite file at path and migrates the schema
func NewDB(path string, log *zap.Logger) (*gorm.DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if path == "" {
		path = defaultPath
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		zap.NewStdLog(log.Named("gorm")),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: dbLogger})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	if err := db.AutoMigrate(&categoryRow{}, &taskRow{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	log.Info("SQLite database ready", zap.String("path", path))
	return db, nil
}

// ensureDir creates the parent directory of a file DSN
func ensureDir(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
