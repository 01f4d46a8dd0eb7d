package database

import (
	"time"

	"gorm.io/gorm"
)

// Setting represents a key-value store for application settings
type Setting struct {
	Key       string    `gorm:"primaryKey"`
	Value     string    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName overrides the table name
func (Setting) TableName() string {
	return "settings"
}

// ViewedMovie records a movie the user opened the details of
type ViewedMovie struct {
	ID          uint      `gorm:"primaryKey"`
	MovieID     int       `gorm:"not null;index"`
	Title       string    `gorm:"not null"`
	VoteAverage float64   `gorm:"not null;default:0"`
	ReleaseDate string    `gorm:"not null;default:''"`
	PosterPath  string    `gorm:"not null;default:''"`
	ViewedAt    time.Time `gorm:"not null;index"`
}

// TableName overrides the table name
func (ViewedMovie) TableName() string {
	return "viewed_movies"
}

// Migrate creates or updates the tables backing the models
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Setting{},
		&ViewedMovie{},
	)
}
