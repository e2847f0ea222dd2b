package storage

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenAndMigrate opens the sqlite database at dataSourceName and keeps the
// schema current via AutoMigrate. Match state itself is an opaque JSON blob,
// so migrations only ever touch the metadata columns.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&MatchRecord{}, &PlayerProfile{}); err != nil {
		return nil, err
	}
	return db, nil
}
