//go:build !alternative_driver

package hashcache

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openDriver requires CGO for this implementation.
func openDriver(dsn string, gormConfig *gorm.Config) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(dsn), gormConfig)
}
