package playlog

import (
	"context"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DBProvider keeps the log in a SQLite table. The whole sequence is at most
// MaxEntries rows, so Store replaces it wholesale inside one transaction,
// mirroring the blob providers' single-round-trip semantics.
type DBProvider struct {
	db *gorm.DB
}

func NewDBProvider(path string) (*DBProvider, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, err
	}
	return &DBProvider{db: db}, nil
}

func (p *DBProvider) Load(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	err := p.db.WithContext(ctx).Order("scheduled_time ASC, id ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (p *DBProvider) Store(ctx context.Context, entries []Entry) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&Entry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		// Reset IDs so gorm assigns fresh ones in insertion order.
		for i := range entries {
			entries[i].ID = 0
		}
		return tx.Create(&entries).Error
	})
}
