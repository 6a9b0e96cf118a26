package notes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeNotes(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    []Note
		wantErr bool
	}{
		{
			name:    "widget payload",
			payload: `[{"id":"1718000000000","title":"Buy milk","body":"2%","category":"personal","archived":false}]`,
			want:    []Note{{ID: "1718000000000", Title: "Buy milk", Body: "2%", Category: CategoryPersonal}},
		},
		{
			name:    "numeric id",
			payload: `[{"id":1718000000000,"title":"t","body":"b","category":"project","archived":true}]`,
			want:    []Note{{ID: "1718000000000", Title: "t", Body: "b", Category: CategoryProject, Archived: true}},
		},
		{
			name:    "missing category and archived",
			payload: `[{"id":"a","title":"t","body":"b"}]`,
			want:    []Note{{ID: "a", Title: "t", Body: "b", Category: CategoryProject}},
		},
		{
			name:    "unknown category falls back",
			payload: `[{"id":"a","title":"t","body":"b","category":"shopping"}]`,
			want:    []Note{{ID: "a", Title: "t", Body: "b", Category: CategoryProject}},
		},
		{
			name: "bad records dropped",
			payload: `[
				{"id":"ok","title":"t","body":"b","category":"business"},
				{"title":"no id","body":"b"},
				{"id":"e","title":"  ","body":"b"},
				{"id":"x","title":5,"body":"b"},
				{"id":"ok","title":"dup","body":"b"},
				null,
				"text"
			]`,
			want: []Note{{ID: "ok", Title: "t", Body: "b", Category: CategoryBusiness}},
		},
		{name: "empty array", payload: `[]`, want: []Note{}},
		{name: "object", payload: `{"notes":[]}`, wantErr: true},
		{name: "null", payload: `null`, wantErr: true},
		{name: "truncated", payload: `[{"id":"1"`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeNotes([]byte(tt.payload))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeNotes_RecordShape(t *testing.T) {
	data, err := EncodeNotes([]Note{{ID: "1", Title: "t", Body: "b", Category: CategoryBusiness, Archived: true}})
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, []map[string]any{{
		"id":       "1",
		"title":    "t",
		"body":     "b",
		"category": "business",
		"archived": true,
	}}, raw)
}

func TestEncodeNotes_Empty(t *testing.T) {
	data, err := EncodeNotes(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}
