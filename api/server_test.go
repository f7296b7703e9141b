package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipmix/jobs"
	"clipmix/pipeline"
	"clipmix/sequence"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeDispatcher struct {
	store    jobs.Store
	lastReq  pipeline.RenderRequest
	dispatch func() error
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, req pipeline.RenderRequest) (*jobs.Job, error) {
	if f.dispatch != nil {
		if err := f.dispatch(); err != nil {
			return nil, err
		}
	}
	f.lastReq = req
	job := jobs.NewJob("render")
	if err := f.store.Put(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func testCatalog() []sequence.Record {
	var catalog []sequence.Record
	for c := 0; c < 3; c++ {
		for i := 0; i < 10; i++ {
			catalog = append(catalog, sequence.Record{
				Name:     fmt.Sprintf("cat%d_clip%d", c, i),
				Category: fmt.Sprintf("cat%d", c),
				Color:    "blue",
			})
		}
	}
	return catalog
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeDispatcher, *jobs.Manager) {
	t.Helper()
	store := jobs.NewMemoryStore()
	manager := jobs.NewManager(store, 2)
	dispatcher := &fakeDispatcher{store: store}
	server := NewServer(testCatalog(), manager, dispatcher)
	return NewRouter(server), dispatcher, manager
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router, _, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestAnalyzeSafeRequest(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/sequence/analyze", gin.H{
		"sequence_length": 15,
		"min_spacing":     2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var report sequence.FeasibilityReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, sequence.Safe, report.Classification)
	assert.Equal(t, 30, report.MaxSafeLength)
}

func TestAnalyzeInvalidRequest(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/sequence/analyze", gin.H{
		"sequence_length": -1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateReturnsItemsAndReport(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/sequence/generate", gin.H{
		"sequence_length": 12,
		"min_spacing":     2,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items  []sequence.Item            `json:"items"`
		Report sequence.FeasibilityReport `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Items, 12)
	assert.Equal(t, sequence.Safe, resp.Report.Classification)
	for i, item := range resp.Items {
		assert.Equal(t, i+1, item.ItemNumber)
	}
}

func TestGenerateSeededIsReproducible(t *testing.T) {
	router, _, _ := newTestRouter(t)

	body := gin.H{
		"sequence_length": 20,
		"min_spacing":     2,
		"seed":            7,
	}
	generate := func() []sequence.Item {
		w := doJSON(t, router, http.MethodPost, "/api/sequence/generate", body)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Items []sequence.Item `json:"items"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp.Items
	}

	first := generate()
	second := generate()
	require.Len(t, first, 20)
	assert.Equal(t, first, second)
}

func TestGenerateInfeasibleReturns422WithReport(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/sequence/generate", gin.H{
		"categories":      []string{"cat0"},
		"sequence_length": 10,
		"min_spacing":     1,
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Error  string                     `json:"error"`
		Report sequence.FeasibilityReport `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, sequence.Infeasible, resp.Report.Classification)
	assert.NotEmpty(t, resp.Error)
}

func TestGenerateFiltersByCategory(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/sequence/generate", gin.H{
		"categories":      []string{"cat1", "cat2"},
		"sequence_length": 8,
		"min_spacing":     1,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Items []sequence.Item `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	for _, item := range resp.Items {
		assert.Contains(t, []string{"cat1", "cat2"}, item.Record.Category)
	}
}

func TestValidateReportsViolations(t *testing.T) {
	router, _, _ := newTestRouter(t)

	items := []sequence.Item{
		{ItemNumber: 1, Record: sequence.Record{Name: "x", Category: "a"}},
		{ItemNumber: 2, Record: sequence.Record{Name: "y", Category: "a"}},
	}
	w := doJSON(t, router, http.MethodPost, "/api/sequence/validate", gin.H{
		"items":       items,
		"min_spacing": 1,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Valid      bool                     `json:"valid"`
		Violations sequence.ViolationReport `json:"violations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	require.Len(t, resp.Violations, 1)
	assert.Equal(t, 2, resp.Violations[0].Position)
}

func TestRenderDispatchesJob(t *testing.T) {
	router, dispatcher, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/render", gin.H{
		"items": []sequence.Item{
			{ItemNumber: 1, Record: sequence.Record{Name: "x", Category: "a"}},
		},
		"output_name": "final",
	})
	require.Equal(t, http.StatusAccepted, w.Code)

	var job jobs.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, jobs.StatusPending, job.Status)
	assert.Equal(t, "final", dispatcher.lastReq.OutputName)
}

func TestRenderRejectsEmptyItems(t *testing.T) {
	router, _, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/render", gin.H{"items": []sequence.Item{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRenderDisabledWithoutDispatcher(t *testing.T) {
	manager := jobs.NewManager(jobs.NewMemoryStore(), 1)
	router := NewRouter(NewServer(testCatalog(), manager, nil))

	w := doJSON(t, router, http.MethodPost, "/api/render", gin.H{
		"items": []sequence.Item{{ItemNumber: 1, Record: sequence.Record{Name: "x", Category: "a"}}},
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestJobLookup(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/render", gin.H{
		"items": []sequence.Item{{ItemNumber: 1, Record: sequence.Record{Name: "x", Category: "a"}}},
	})
	require.Equal(t, http.StatusAccepted, w.Code)

	var created jobs.Job
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, http.MethodGet, "/api/jobs/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/jobs", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Jobs []jobs.Job `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list.Jobs, 1)
}

func TestJobNotFound(t *testing.T) {
	router, _, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/api/jobs/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/jobs/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
