package history

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"gorm.io/gorm"

	"github.com/justchokingaround/reel/internal/catalog"
	"github.com/justchokingaround/reel/internal/database"
	"github.com/justchokingaround/reel/internal/genre"
)

// LastGenresKey is the settings key holding the last applied genre selection
const LastGenresKey = "browse.last_genres"

// scanLimit bounds how many raw views Recent reads before collapsing duplicates
const scanLimit = 1000

// Service records viewed movies and remembers the genre selection
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

// Entry is one movie in the recently viewed list
type Entry struct {
	MovieID     int
	Title       string
	VoteAverage float64
	ReleaseDate string
	PosterPath  string
	ViewedAt    time.Time // most recent view
	Views       int
}

// ViewedAgo formats ViewedAt relative to now, e.g. "3 minutes ago"
func (e Entry) ViewedAgo(now time.Time) string {
	return humanize.RelTime(e.ViewedAt, now, "ago", "from now")
}

// NewService creates a new history service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// Record stores a view of m
func (s *Service) Record(m catalog.Movie) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}

	view := database.ViewedMovie{
		MovieID:     m.ID,
		Title:       m.Title,
		VoteAverage: m.VoteAverage,
		ReleaseDate: m.ReleaseDate,
		PosterPath:  m.PosterPath,
		ViewedAt:    s.now().UTC(),
	}
	if err := s.db.Create(&view).Error; err != nil {
		return fmt.Errorf("failed to record view of %d: %w", m.ID, err)
	}
	return nil
}

// Recent returns up to limit distinct movies, most recently viewed first.
// A limit of 0 or less returns every movie.
func (s *Service) Recent(limit int) ([]Entry, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	var views []database.ViewedMovie
	if err := s.db.Order("viewed_at DESC, id DESC").Limit(scanLimit).Find(&views).Error; err != nil {
		return nil, fmt.Errorf("failed to list viewed movies: %w", err)
	}

	entries := []Entry{}
	index := make(map[int]int)
	for _, v := range views {
		if i, seen := index[v.MovieID]; seen {
			entries[i].Views++
			continue
		}
		if limit > 0 && len(entries) == limit {
			continue
		}
		index[v.MovieID] = len(entries)
		entries = append(entries, Entry{
			MovieID:     v.MovieID,
			Title:       v.Title,
			VoteAverage: v.VoteAverage,
			ReleaseDate: v.ReleaseDate,
			PosterPath:  v.PosterPath,
			ViewedAt:    v.ViewedAt,
			Views:       1,
		})
	}
	return entries, nil
}

// Clear deletes every recorded view
func (s *Service) Clear() error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}
	return s.db.Where("1 = 1").Delete(&database.ViewedMovie{}).Error
}

// LastSelection returns the remembered genre selection, empty when none is stored
func (s *Service) LastSelection() (genre.Selection, error) {
	if s.db == nil {
		return genre.Selection{}, fmt.Errorf("database connection is nil")
	}

	value, ok, err := database.GetSetting(s.db, LastGenresKey)
	if err != nil {
		return genre.Selection{}, fmt.Errorf("failed to load last genres: %w", err)
	}
	if !ok {
		return genre.Selection{}, nil
	}
	return genre.ParseSelection(value)
}

// SaveSelection remembers sel; an empty selection forgets the stored one
func (s *Service) SaveSelection(sel genre.Selection) error {
	if s.db == nil {
		return fmt.Errorf("database connection is nil")
	}

	if sel.Empty() {
		return database.DeleteSetting(s.db, LastGenresKey)
	}
	return database.SaveSetting(s.db, LastGenresKey, sel.String())
}
