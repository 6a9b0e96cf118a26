package notes

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notebox/internal/kv"
)

type apiFixture struct {
	srv   *httptest.Server
	store *Store
	kv    *flakyKV
}

func newAPI(t *testing.T, fetcher Fetcher) *apiFixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	durable := &flakyKV{Memory: kv.NewMemory()}
	store := NewStore(durable, NewIDGenerator(fixedClock(1000)))
	svc := NewService(store, fetcher, log)
	h := NewHandler(svc, NewController(svc, log), log)

	mux := http.NewServeMux()
	h.Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &apiFixture{srv: srv, store: store, kv: durable}
}

func (f *apiFixture) do(t *testing.T, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, f.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHandler_CRUD(t *testing.T) {
	api := newAPI(t, nil)

	resp := api.do(t, http.MethodPost, "/api/notes", `{"title":"Buy milk","body":"2%","category":"personal"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[Note](t, resp)
	assert.Equal(t, "1000", created.ID)

	resp = api.do(t, http.MethodGet, "/api/notes/"+created.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created, decode[Note](t, resp))

	resp = api.do(t, http.MethodPost, "/api/notes/"+created.ID+"/archive", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = api.do(t, http.MethodGet, "/api/notes?filter=archived", "")
	assert.Len(t, decode[[]Note](t, resp), 1)

	resp = api.do(t, http.MethodPut, "/api/notes/"+created.ID, `{"title":"Buy oat milk","body":"1L","category":"personal"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[Note](t, resp).Archived)

	resp = api.do(t, http.MethodDelete, "/api/notes/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = api.do(t, http.MethodGet, "/api/notes", "")
	assert.Empty(t, decode[[]Note](t, resp))
}

func TestHandler_ValidationError(t *testing.T) {
	api := newAPI(t, nil)

	resp := api.do(t, http.MethodPost, "/api/notes", `{"title":"","body":"","category":"project"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}](t, resp)
	assert.Equal(t, "Title cannot be empty", body.Fields["title"])
	assert.Equal(t, "Content cannot be empty", body.Fields["body"])
	assert.Empty(t, api.store.Notes())
}

func TestHandler_NotFound(t *testing.T) {
	api := newAPI(t, nil)

	resp := api.do(t, http.MethodGet, "/api/notes/ghost", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = api.do(t, http.MethodPut, "/api/notes/ghost", `{"title":"t","body":"b","category":"project"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = api.do(t, http.MethodDelete, "/api/notes/ghost", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestHandler_InvalidJSON(t *testing.T) {
	api := newAPI(t, nil)

	resp := api.do(t, http.MethodPost, "/api/notes", `{`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_PersistenceFailure(t *testing.T) {
	api := newAPI(t, nil)
	api.kv.failSet = true

	resp := api.do(t, http.MethodPost, "/api/notes", `{"title":"t","body":"b","category":"project"}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Len(t, api.store.Notes(), 1, "note kept in memory")
}

func TestHandler_Events(t *testing.T) {
	api := newAPI(t, nil)

	resp := api.do(t, http.MethodPost, "/api/events", `{"type":"add-note","title":"Buy milk","body":"2%","category":"personal"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	st := decode[State](t, resp)
	require.Len(t, st.Notes, 1)

	resp = api.do(t, http.MethodPost, "/api/events", `{"type":"filter-select","filter":"business"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[State](t, resp).Notes)

	resp = api.do(t, http.MethodGet, "/api/state", "")
	assert.Equal(t, Filter("business"), decode[State](t, resp).Filter)

	resp = api.do(t, http.MethodPost, "/api/events", `{"type":"explode"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_EventErrorCarriesState(t *testing.T) {
	api := newAPI(t, nil)

	resp := api.do(t, http.MethodPost, "/api/events", `{"type":"add-note","title":"Buy milk","body":"2%","category":"personal"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	id := decode[State](t, resp).Notes[0].ID

	resp = api.do(t, http.MethodPost, "/api/events", `{"type":"edit","id":"`+id+`"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	type errorBody struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
		State  State             `json:"state"`
	}

	resp = api.do(t, http.MethodPost, "/api/events", `{"type":"add-note","title":"","body":"x","category":"personal"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[errorBody](t, resp)
	assert.Equal(t, "Title cannot be empty", body.Fields["title"])
	assert.Equal(t, id, body.State.EditingID, "edit mode kept")
	require.Len(t, body.State.Notes, 1)
	assert.Equal(t, "Buy milk", body.State.Notes[0].Title)

	resp = api.do(t, http.MethodPost, "/api/events", `{"type":"explode"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body = decode[errorBody](t, resp)
	assert.NotEmpty(t, body.Error)
	assert.Equal(t, FilterAll, body.State.Filter)
	assert.Len(t, body.State.Notes, 1)
}

func TestHandler_Sync(t *testing.T) {
	api := newAPI(t, &stubFetcher{err: &FetchError{Status: http.StatusInternalServerError}})

	resp := api.do(t, http.MethodPost, "/api/sync", "")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	ok := newAPI(t, &stubFetcher{notes: []Note{{ID: "r", Title: "t", Body: "b", Category: CategoryProject}}})
	resp = ok.do(t, http.MethodPost, "/api/sync", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]int{"count": 1}, decode[map[string]int](t, resp))
}

func TestHandler_Categories(t *testing.T) {
	api := newAPI(t, nil)
	_, err := api.store.Add(context.Background(), "t", "b", "personal")
	require.NoError(t, err)

	resp := api.do(t, http.MethodGet, "/api/categories", "")
	counts := decode[[]CategoryCount](t, resp)
	require.Len(t, counts, 3)
	assert.Equal(t, 1, counts[2].Count)
}

func TestHandler_HTMLViews(t *testing.T) {
	api := newAPI(t, nil)
	ctx := context.Background()
	_, err := api.store.Add(ctx, "<b>Buy</b> milk", "**2%**", "personal")
	require.NoError(t, err)
	_, err = api.store.Add(ctx, "Pitch", "deck", "business")
	require.NoError(t, err)

	resp := api.do(t, http.MethodGet, "/fragments/notes?filter=personal", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	html, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(html), "&lt;b&gt;Buy&lt;/b&gt; milk")
	assert.Contains(t, string(html), "<strong>2%</strong>")
	assert.NotContains(t, string(html), "Pitch")

	resp = api.do(t, http.MethodGet, "/?filter=business", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(page), `class="filter-btn active" data-filter="business"`)
	assert.Contains(t, string(page), "Pitch")

	resp = api.do(t, http.MethodGet, "/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
