package taskflow

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"taskflow/configs"
	"taskflow/domain/gateway"
	"taskflow/repository/mysql"
)

// Option is a function that configures a Taskflow instance
type Option func(*Config) error

// Config holds all configuration for a Taskflow instance
type Config struct {
	// Record store; nil means an in-memory gateway
	Gateway  gateway.Gateway
	SeedFile string

	// HTTP
	RoutePrefix string
	ProjectID   string
	PublicKey   string

	// Scheduler; empty specs disable the jobs
	Scheduler configs.SchedulerConfig

	// Logging
	Logger *zap.Logger
}

// WithGateway uses an existing record gateway
func WithGateway(gw gateway.Gateway) Option {
	return func(c *Config) error {
		if gw == nil {
			return fmt.Errorf("gateway cannot be nil")
		}
		c.Gateway = gw
		return nil
	}
}

// WithSharedMySQL stores records in the host application's MySQL database.
// The connection is not closed by Shutdown; the tables must already exist.
func WithSharedMySQL(db *sqlx.DB) Option {
	return func(c *Config) error {
		if db == nil {
			return fmt.Errorf("database connection cannot be nil")
		}
		c.Gateway = mysql.NewGateway(db, c.Logger.Named("mysql"))
		return nil
	}
}

// WithSeedFile loads fixtures into empty collections on Start
func WithSeedFile(path string) Option {
	return func(c *Config) error {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("seed file path cannot be empty")
		}
		c.SeedFile = path
		return nil
	}
}

// WithRoutePrefix sets the group the routes are mounted under
func WithRoutePrefix(prefix string) Option {
	return func(c *Config) error {
		if prefix == "" || !strings.HasPrefix(prefix, "/") {
			return fmt.Errorf("route prefix must start with /")
		}
		c.RoutePrefix = strings.TrimRight(prefix, "/")
		return nil
	}
}

// WithCredentials protects the record routes
func WithCredentials(projectID, publicKey string) Option {
	return func(c *Config) error {
		if publicKey == "" {
			return fmt.Errorf("public key cannot be empty")
		}
		c.ProjectID = projectID
		c.PublicKey = publicKey
		return nil
	}
}

// WithSchedule sets the cron specs of the refresh and count sync jobs
func WithSchedule(refreshSpec, countSyncSpec string) Option {
	return func(c *Config) error {
		c.Scheduler = configs.SchedulerConfig{
			Enabled:       refreshSpec != "" || countSyncSpec != "",
			RefreshSpec:   refreshSpec,
			CountSyncSpec: countSyncSpec,
		}
		return nil
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.Logger = logger
		return nil
	}
}
