//go:build alternative_driver

package hashcache

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// openDriver is the CGO-free build of the same store, for platforms
// where a C toolchain is not available.
func openDriver(dsn string, gormConfig *gorm.Config) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(dsn), gormConfig)
}
