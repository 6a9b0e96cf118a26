package models

// NoteView represents a note for template rendering
type NoteView struct {
	ID       string
	Title    string
	Category string
	Archived bool
	BodyHTML string // rendered markdown
}

// FilterView is one entry of the filter bar
type FilterView struct {
	Name   string
	Active bool
}

// CategoryView represents a category for template rendering
type CategoryView struct {
	Name  string
	Count int
}
