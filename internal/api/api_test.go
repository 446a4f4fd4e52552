package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"paper_catalog_go_backend/internal/database"
	"paper_catalog_go_backend/internal/models"
	"paper_catalog_go_backend/internal/openalex"
	"paper_catalog_go_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrigin = "http://localhost:5173"

type testEnv struct {
	router   *gin.Engine
	papers   services.PaperServiceDB
	upstream *atomic.Int32
}

// newTestEnv wires the real store (in-memory SQLite) and the real OpenAlex
// client pointed at handler.
func newTestEnv(t *testing.T, handler http.HandlerFunc) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(database.Config{
		Driver: database.DriverSQLite,
		Path:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	calls := new(atomic.Int32)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if handler == nil {
			t.Errorf("unexpected OpenAlex call: %s", r.URL)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	sessions := database.NewSessionProvider(db)
	papers := services.NewPaperServiceDB(sessions)
	client := openalex.NewClient(openalex.WithBaseURL(server.URL), openalex.WithRateLimit(0))

	router := NewRouter(Dependencies{
		Papers:   papers,
		Searcher: client,
		Importer: services.NewImportService(client, papers),
		Sessions: sessions,
	}, []string{testOrigin})

	return &testEnv{router: router, papers: papers, upstream: calls}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) count(t *testing.T) int64 {
	t.Helper()
	n, err := e.papers.CountPapers(context.Background())
	require.NoError(t, err)
	return n
}

func decodePaper(t *testing.T, w *httptest.ResponseRecorder) models.Paper {
	t.Helper()
	var paper models.Paper
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &paper))
	return paper
}

type errorBody struct {
	Error struct {
		Type    string                 `json:"type"`
		Message string                 `json:"message"`
		Details interface{} `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRootAndHealth(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message": "Research Paper Manager API"}`, w.Body.String())

	w = env.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}

func TestCreateAndGetPaper(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(http.MethodPost, "/papers", `{"title": "Attention Is All You Need", "authors": "Vaswani et al.", "year": 2017}`)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodePaper(t, w)
	assert.NotZero(t, created.ID)
	assert.Nil(t, created.Abstract)
	assert.Nil(t, created.Notes)

	w = env.do(http.MethodGet, fmt.Sprintf("/papers/%d", created.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, decodePaper(t, w))
	assert.Contains(t, w.Body.String(), `"abstract":null`)
}

func TestCreatePaper_ValidationWritesNothing(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing title", `{"authors": "Someone"}`, "title"},
		{"blank title", `{"title": "   "}`, "title"},
		{"year too large", `{"title": "Future", "year": 10000}`, "year"},
		{"negative year", `{"title": "Past", "year": -1}`, "year"},
		{"malformed json", `{"title": `, ""},
		{"wrong type", `{"title": 42}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			w := env.do(http.MethodPost, "/papers", tt.body)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, "VALIDATION_ERROR", body.Error.Type)
			if tt.field != "" {
				assert.Contains(t, body.Error.Details, tt.field)
			}
			assert.Zero(t, env.count(t))
		})
	}
}

func TestGetPaper_NotFoundAndBadID(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(http.MethodGet, "/papers/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Paper not found", decodeError(t, w).Error.Message)

	w = env.do(http.MethodGet, "/papers/0", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Paper not found", decodeError(t, w).Error.Message)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, "/papers/0", "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPut, "/papers/0", `{"title": "Zero"}`).Code)

	for _, id := range []string{"abc", "-1", "1.5"} {
		w = env.do(http.MethodGet, "/papers/"+id, "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, id)
		assert.Contains(t, decodeError(t, w).Error.Details, "id")
	}
}

func TestUpdatePaper(t *testing.T) {
	env := newTestEnv(t, nil)
	created := decodePaper(t, env.do(http.MethodPost, "/papers",
		`{"title": "Draft", "authors": "A. Author", "notes": "todo"}`))
	path := fmt.Sprintf("/papers/%d", created.ID)

	w := env.do(http.MethodPut, path, `{"year": 2021}`)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodePaper(t, w)
	assert.Equal(t, "Draft", updated.Title)
	assert.Equal(t, "A. Author", *updated.Authors)
	assert.Equal(t, 2021, *updated.Year)

	w = env.do(http.MethodPut, path, `{"notes": null}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decodePaper(t, w).Notes)

	w = env.do(http.MethodPut, path, `{}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Draft", decodePaper(t, w).Title)
}

func TestUpdatePaper_Rejections(t *testing.T) {
	env := newTestEnv(t, nil)
	created := decodePaper(t, env.do(http.MethodPost, "/papers", `{"title": "Keep me"}`))
	path := fmt.Sprintf("/papers/%d", created.ID)

	w := env.do(http.MethodPut, path, `{"title": null}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = env.do(http.MethodPut, path, `{"title": ""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = env.do(http.MethodPut, "/papers/999", `{"title": "Ghost"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.EqualValues(t, 1, env.count(t))

	paper, err := env.papers.GetPaper(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keep me", paper.Title)
}

func TestDeletePaper(t *testing.T) {
	env := newTestEnv(t, nil)
	created := decodePaper(t, env.do(http.MethodPost, "/papers", `{"title": "Ephemeral", "year": 1999}`))
	path := fmt.Sprintf("/papers/%d", created.ID)

	w := env.do(http.MethodDelete, path, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, decodePaper(t, w))

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, path, "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, path, "").Code)
}

func TestListPapers(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.do(http.MethodGet, "/papers", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	for i := 1; i <= 3; i++ {
		env.do(http.MethodPost, "/papers", fmt.Sprintf(`{"title": "Paper %d"}`, i))
	}

	w = env.do(http.MethodGet, "/papers?skip=1&limit=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page []models.Paper
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page, 1)
	assert.Equal(t, "Paper 2", page[0].Title)

	for _, query := range []string{"limit=0", "limit=1001", "skip=-1", "limit=ten"} {
		w = env.do(http.MethodGet, "/papers?"+query, "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, query)
	}
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/works", r.URL.Path)
		assert.Equal(t, "crispr", r.URL.Query().Get("search"))
		assert.Equal(t, "10", r.URL.Query().Get("per_page"))
		fmt.Fprint(w, `{"results": [{
			"id": "https://openalex.org/W9",
			"title": "Genome editing",
			"publication_year": 2014,
			"authorships": [
				{"author": {"display_name": "A"}}, {"author": {"display_name": "B"}},
				{"author": {"display_name": "C"}}, {"author": {"display_name": "D"}},
				{"author": {"display_name": "E"}}, {"author": {"display_name": "F"}}
			]
		}]}`)
	})

	w := env.do(http.MethodPost, "/search", `{"query": "crispr"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body models.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "A, B, C, D, E", body.Results[0].Authors)
	assert.Equal(t, "https://openalex.org/W9", *body.Results[0].URL)
	assert.Zero(t, body.Results[0].CitedByCount)
	assert.Nil(t, body.Results[0].Abstract)
	assert.Zero(t, env.count(t))
}

func TestSearch_Validation(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, body := range []string{`{}`, `{"query": ""}`, `{"query": "x", "limit": 0}`, `{"query": "x", "limit": 201}`} {
		w := env.do(http.MethodPost, "/search", body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, body)
	}
	assert.Zero(t, env.upstream.Load())
}

func TestSearch_UpstreamFailure(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	w := env.do(http.MethodPost, "/search", `{"query": "biology", "limit": 3}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "UPSTREAM_ERROR", body.Error.Type)
	assert.Contains(t, body.Error.Message, "error fetching from OpenAlex")
	assert.Contains(t, body.Error.Message, "503")
}

func TestImportFromOpenAlex(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/works/W42", r.URL.Path)
		authors := make([]string, 7)
		for i := range authors {
			authors[i] = fmt.Sprintf(`{"author": {"display_name": "Author %d"}}`, i+1)
		}
		fmt.Fprintf(w, `{
			"id": "https://openalex.org/W42",
			"doi": "https://doi.org/10.1/xyz",
			"title": "Deep Thought",
			"publication_year": 1979,
			"authorships": [%s]
		}`, strings.Join(authors, ","))
	})

	w := env.do(http.MethodPost, "/papers/from-openalex", `{"openalex_id": "https://openalex.org/W42", "notes": "towel"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	paper := decodePaper(t, w)
	assert.Equal(t, "Deep Thought", paper.Title)
	assert.Equal(t, 7, len(strings.Split(*paper.Authors, ", ")))
	assert.Equal(t, "https://doi.org/10.1/xyz", *paper.URL)
	assert.Equal(t, "towel", *paper.Notes)

	w = env.do(http.MethodGet, fmt.Sprintf("/papers/%d", paper.ID), "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestImportFromOpenAlex_Failures(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		})
		w := env.do(http.MethodPost, "/papers/from-openalex", `{"openalex_id": "W404"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Paper not found in OpenAlex", decodeError(t, w).Error.Message)
		assert.Zero(t, env.count(t))
	})

	t.Run("upstream error", func(t *testing.T) {
		env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		w := env.do(http.MethodPost, "/papers/from-openalex", `{"openalex_id": "W500"}`)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, decodeError(t, w).Error.Message, "500")
		assert.Zero(t, env.count(t))
		assert.EqualValues(t, 1, env.upstream.Load())
	})

	t.Run("missing id", func(t *testing.T) {
		env := newTestEnv(t, nil)
		w := env.do(http.MethodPost, "/papers/from-openalex", `{"notes": "x"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestExportBibTeX(t *testing.T) {
	env := newTestEnv(t, nil)
	env.do(http.MethodPost, "/papers", `{"title": "CRISPR", "authors": "Jennifer Doudna", "year": 2012}`)

	w := env.do(http.MethodGet, "/export/bibtex", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, bibtexContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "@article{doudna2012_1")
}

func TestMiddleware(t *testing.T) {
	env := newTestEnv(t, nil)

	t.Run("request id is echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

		w = env.do(http.MethodGet, "/", "")
		_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
		assert.NoError(t, err)
	})

	t.Run("cors allows configured origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/papers", nil)
		req.Header.Set("Origin", testOrigin)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		assert.Equal(t, testOrigin, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("panics become generic 500", func(t *testing.T) {
		env.router.GET("/boom", func(c *gin.Context) { panic("boom") })
		w := env.do(http.MethodGet, "/boom", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "An unexpected error occurred", body.Error.Message)
		assert.NotContains(t, w.Body.String(), "boom")
	})
}
