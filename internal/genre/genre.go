package genre

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Genre is a single entry of the TMDB movie genre taxonomy
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Directory is a fixed, read-only list of genres in canonical order
type Directory struct {
	genres []Genre
	index  map[int]int
}

// tmdbGenres mirrors the TMDB /genre/movie/list response
var tmdbGenres = []Genre{
	{ID: 28, Name: "Action"},
	{ID: 12, Name: "Adventure"},
	{ID: 16, Name: "Animation"},
	{ID: 35, Name: "Comedy"},
	{ID: 80, Name: "Crime"},
	{ID: 99, Name: "Documentary"},
	{ID: 18, Name: "Drama"},
	{ID: 10751, Name: "Family"},
	{ID: 14, Name: "Fantasy"},
	{ID: 36, Name: "History"},
	{ID: 27, Name: "Horror"},
	{ID: 10402, Name: "Music"},
	{ID: 9648, Name: "Mystery"},
	{ID: 10749, Name: "Romance"},
	{ID: 878, Name: "Science Fiction"},
	{ID: 10770, Name: "TV Movie"},
	{ID: 53, Name: "Thriller"},
	{ID: 10752, Name: "War"},
	{ID: 37, Name: "Western"},
}

// NewDirectory creates the directory of TMDB movie genres
func NewDirectory() *Directory {
	index := make(map[int]int, len(tmdbGenres))
	for i, g := range tmdbGenres {
		index[g.ID] = i
	}
	return &Directory{
		genres: tmdbGenres,
		index:  index,
	}
}

// All returns every genre in canonical order
func (d *Directory) All() []Genre {
	return slices.Clone(d.genres)
}

// ByID returns the genre with the given id
func (d *Directory) ByID(id int) (Genre, bool) {
	i, ok := d.index[id]
	if !ok {
		return Genre{}, false
	}
	return d.genres[i], true
}

// ByIDs returns the genres whose id is in sel, in directory order (not selection order)
func (d *Directory) ByIDs(sel Selection) []Genre {
	result := []Genre{}
	if sel.Empty() {
		return result
	}
	for _, g := range d.genres {
		if sel.Has(g.ID) {
			result = append(result, g)
		}
	}
	return result
}

// Names returns the display names for a selection, in directory order
func (d *Directory) Names(sel Selection) []string {
	genres := d.ByIDs(sel)
	names := make([]string, len(genres))
	for i, g := range genres {
		names[i] = g.Name
	}
	return names
}

// Selection is an immutable set of genre ids. The zero value is the empty
// selection, which means "no filter".
type Selection struct {
	ids []int // sorted, unique
}

// NewSelection builds a selection from ids, dropping duplicates
func NewSelection(ids ...int) Selection {
	if len(ids) == 0 {
		return Selection{}
	}
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	return Selection{ids: slices.Compact(sorted)}
}

// ParseSelection parses a comma separated list of genre ids ("28,35")
func ParseSelection(s string) (Selection, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Selection{}, nil
	}
	var ids []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return Selection{}, fmt.Errorf("invalid genre id %q: %w", part, err)
		}
		if id <= 0 {
			return Selection{}, fmt.Errorf("invalid genre id %d: must be positive", id)
		}
		ids = append(ids, id)
	}
	return NewSelection(ids...), nil
}

// Empty reports whether the selection has no genres
func (s Selection) Empty() bool {
	return len(s.ids) == 0
}

// Len returns the number of selected genres
func (s Selection) Len() int {
	return len(s.ids)
}

// Has reports whether id is selected
func (s Selection) Has(id int) bool {
	_, found := slices.BinarySearch(s.ids, id)
	return found
}

// Toggle returns a copy of the selection with id added or removed
func (s Selection) Toggle(id int) Selection {
	if s.Has(id) {
		ids := slices.DeleteFunc(slices.Clone(s.ids), func(v int) bool { return v == id })
		return Selection{ids: ids}
	}
	return NewSelection(append(slices.Clone(s.ids), id)...)
}

// Equal reports whether both selections contain the same ids
func (s Selection) Equal(other Selection) bool {
	return slices.Equal(s.ids, other.ids)
}

// IDs returns the selected ids in ascending order
func (s Selection) IDs() []int {
	return slices.Clone(s.ids)
}

// String returns the ids joined by commas, the format TMDB expects for with_genres
func (s Selection) String() string {
	parts := make([]string, len(s.ids))
	for i, id := range s.ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
