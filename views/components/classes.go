package components

import "notebox/views/models"

func noteClass(n models.NoteView) string {
	if n.Archived {
		return "note-item archived"
	}
	return "note-item"
}

func filterClass(f models.FilterView) string {
	if f.Active {
		return "filter-btn active"
	}
	return "filter-btn"
}
