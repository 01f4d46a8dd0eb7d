package database

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetSetting returns the stored value for key.
// A missing key yields ok=false and no error.
func GetSetting(db *gorm.DB, key string) (value string, ok bool, err error) {
	var s Setting
	err = db.Where("key = ?", key).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return s.Value, true, nil
}

// SaveSetting inserts or replaces the value for key
func SaveSetting(db *gorm.DB, key, value string) error {
	s := Setting{Key: key, Value: value, UpdatedAt: time.Now()}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&s).Error
}

// DeleteSetting removes key; deleting a missing key is not an error
func DeleteSetting(db *gorm.DB, key string) error {
	return db.Where("key = ?", key).Delete(&Setting{}).Error
}
