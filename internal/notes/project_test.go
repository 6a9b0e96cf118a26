package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleNotes() []Note {
	return []Note{
		{ID: "1", Title: "a", Body: "a", Category: CategoryProject},
		{ID: "2", Title: "b", Body: "b", Category: CategoryBusiness, Archived: true},
		{ID: "3", Title: "c", Body: "c", Category: CategoryPersonal},
		{ID: "4", Title: "d", Body: "d", Category: CategoryProject, Archived: true},
	}
}

func ids(notes []Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.ID
	}
	return out
}

func TestProject(t *testing.T) {
	tests := []struct {
		filter Filter
		want   []string
	}{
		{filter: FilterAll, want: []string{"1", "2", "3", "4"}},
		{filter: FilterArchived, want: []string{"2", "4"}},
		{filter: "project", want: []string{"1", "4"}},
		{filter: "business", want: []string{"2"}},
		{filter: "personal", want: []string{"3"}},
		{filter: " Personal ", want: []string{"3"}},
		{filter: "unknown", want: []string{"1", "2", "3", "4"}},
		{filter: "", want: []string{"1", "2", "3", "4"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Project(sampleNotes(), tt.filter)))
		})
	}
}

func TestProject_DoesNotAlias(t *testing.T) {
	in := sampleNotes()
	out := Project(in, FilterAll)
	out[0].Title = "changed"
	assert.Equal(t, "a", in[0].Title)
}

func TestParseFilter(t *testing.T) {
	assert.Equal(t, FilterArchived, ParseFilter("ARCHIVED"))
	assert.Equal(t, Filter("business"), ParseFilter("business"))
	assert.Equal(t, FilterAll, ParseFilter("trash"))
}

func TestFilters(t *testing.T) {
	assert.Equal(t, []Filter{"all", "project", "business", "personal", "archived"}, Filters())
}

func TestCountByCategory(t *testing.T) {
	assert.Equal(t, []CategoryCount{
		{Name: CategoryProject, Count: 2, Archived: 1},
		{Name: CategoryBusiness, Count: 1, Archived: 1},
		{Name: CategoryPersonal, Count: 1},
	}, CountByCategory(sampleNotes()))
}
