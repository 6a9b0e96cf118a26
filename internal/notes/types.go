package notes

import "strings"

// Category is one of the fixed note categories.
type Category string

const (
	CategoryProject  Category = "project"
	CategoryBusiness Category = "business"
	CategoryPersonal Category = "personal"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryProject, CategoryBusiness, CategoryPersonal}

// DefaultCategory is used when a persisted record carries no usable category.
const DefaultCategory = CategoryProject

// ParseCategory normalizes s and reports whether it names a known category.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// Note is a user-authored record. ID is assigned by the store and never changes.
type Note struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Category Category `json:"category"`
	Archived bool     `json:"archived"`
}

// CategoryCount is a category with the number of notes filed under it.
type CategoryCount struct {
	Name     Category `json:"name"`
	Count    int      `json:"count"`
	Archived int      `json:"archived"`
}

// NoteInput carries the user-editable fields of a note.
type NoteInput struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	Category string `json:"category"`
}
