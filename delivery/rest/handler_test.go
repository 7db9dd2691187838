package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/board"
	"taskflow/category"
	"taskflow/delivery/rest/dto"
	"taskflow/delivery/rest/middleware"
	"taskflow/domain/entity"
	"taskflow/domain/gateway"
	"taskflow/repository/memory"
	"taskflow/task"
)

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type testServer struct {
	engine *gin.Engine
	board  *board.Controller
	tasks  *task.Repository
	cats   *category.Repository
}

func newTestServer(t *testing.T, publicKey string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := func() time.Time { return testNow }
	gw := memory.NewGateway(memory.WithClock(clock))
	tasks := task.NewRepository(gw, nil, clock)
	cats := category.NewRepository(gw, nil)
	b := board.New(tasks, cats, board.NotifierFunc(func(board.Notification) {}), nil, board.WithClock(clock))

	h := NewHandler(b, cats, gw, nil)
	engine := gin.New()
	engine.Use(middleware.Recovery(h.log))
	h.Register(engine.Group("/api/v1"), middleware.Credentials("demo", publicKey))

	return &testServer{engine: engine, board: b, tasks: tasks, cats: cats}
}

func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) seed(t *testing.T) entity.Task {
	t.Helper()
	ctx := context.Background()
	_, err := s.cats.Create(ctx, entity.CategoryDraft{Name: "Work", Color: "#3b82f6"})
	require.NoError(t, err)
	due, _ := entity.ParseDate("2025-06-02")
	created, err := s.tasks.Create(ctx, entity.TaskDraft{Title: "Write report", Category: "Work", Priority: entity.PriorityHigh, DueDate: due})
	require.NoError(t, err)
	require.NoError(t, s.board.Load(ctx))
	return created
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestGetBoard(t *testing.T) {
	s := newTestServer(t, "")
	created := s.seed(t)

	w := s.do(t, http.MethodGet, "/api/v1/board", nil)
	require.Equal(t, http.StatusOK, w.Code)

	snap := decode[board.Snapshot](t, w)
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, created.ID, snap.Tasks[0].ID)
	assert.Equal(t, "Tomorrow", snap.Tasks[0].DueLabel)
	work, ok := snap.Category("Work")
	require.True(t, ok)
	assert.Equal(t, 1, work.TaskCount)
}

func TestSubmit(t *testing.T) {
	s := newTestServer(t, "")
	s.seed(t)
	_, err := s.cats.Create(context.Background(), entity.CategoryDraft{Name: "Personal", Color: "#10b981"})
	require.NoError(t, err)
	require.NoError(t, s.board.Load(context.Background()))
	var createdID int64

	t.Run("validation failure", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/board/submit", board.Form{Category: "Work", Priority: "High", DueDate: "2025-06-01"})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := decode[dto.ErrorResponse](t, w)
		assert.Equal(t, "validation_error", body.Error)
		assert.Equal(t, "Title is required", body.Fields["title"])
	})

	t.Run("unknown category", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/board/submit", board.Form{Title: "Water plants", Category: "Garden", Priority: "Low", DueDate: "2025-06-01"})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, decode[dto.ErrorResponse](t, w).Fields, "category")
	})

	t.Run("create", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/board/submit", board.Form{Title: "Buy milk", Category: "Personal", Priority: "Low", DueDate: "2025-06-01"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		body := decode[dto.TaskResponse](t, w)
		assert.Equal(t, "Buy milk", body.Task.Title)
		assert.Contains(t, s.board.Snapshot().Visible(), body.Task.ID)
		createdID = body.Task.ID
	})

	t.Run("edit", func(t *testing.T) {
		require.NotZero(t, createdID)
		w := s.do(t, http.MethodPost, "/api/v1/board/tasks/"+itoa(createdID)+"/edit", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decode[board.Snapshot](t, w).ModalOpen)

		w = s.do(t, http.MethodPost, "/api/v1/board/submit", board.Form{Title: "Buy oat milk", Category: "Personal", Priority: "Low", DueDate: "2025-06-01"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		edited := decode[dto.TaskResponse](t, w).Task
		assert.Equal(t, createdID, edited.ID)
		assert.Equal(t, "Buy oat milk", edited.Title)
		assert.False(t, s.board.Snapshot().ModalOpen)
	})
}

func TestTaskMutations(t *testing.T) {
	s := newTestServer(t, "")
	created := s.seed(t)
	id := itoa(created.ID)

	w := s.do(t, http.MethodPost, "/api/v1/board/tasks/"+id+"/toggle", map[string]bool{"completed": true})
	require.Equal(t, http.StatusOK, w.Code)
	toggled := decode[dto.TaskResponse](t, w).Task
	assert.True(t, toggled.Completed)
	assert.NotNil(t, toggled.CompletedAt)

	w = s.do(t, http.MethodPost, "/api/v1/board/tasks/"+id+"/toggle", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/board/tasks/999/toggle", map[string]bool{"completed": true})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/board/tasks/abc/archive", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodDelete, "/api/v1/board/tasks/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodDelete, "/api/v1/board/tasks/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, s.board.Snapshot().Tasks)
}

func TestArchiveAndViews(t *testing.T) {
	s := newTestServer(t, "")
	created := s.seed(t)

	w := s.do(t, http.MethodPost, "/api/v1/board/tasks/"+itoa(created.ID)+"/archive", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, s.board.Snapshot().Tasks)

	w = s.do(t, http.MethodPut, "/api/v1/board/archived", map[string]bool{"show": true})
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[board.Snapshot](t, w)
	assert.True(t, snap.ShowArchived)
	assert.Equal(t, []int64{created.ID}, snap.Visible())
}

func TestSetFilters(t *testing.T) {
	s := newTestServer(t, "")
	s.seed(t)

	tests := []struct {
		name   string
		body   dto.FiltersRequest
		status int
		tasks  int
	}{
		{"match", dto.FiltersRequest{Search: "REPORT"}, http.StatusOK, 1},
		{"no match", dto.FiltersRequest{Category: "Health"}, http.StatusOK, 0},
		{"pending", dto.FiltersRequest{Status: "pending", Priority: "High"}, http.StatusOK, 1},
		{"bad status", dto.FiltersRequest{Status: "done"}, http.StatusBadRequest, 0},
		{"bad priority", dto.FiltersRequest{Priority: "Urgent"}, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPut, "/api/v1/board/filters", tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status == http.StatusOK {
				assert.Len(t, decode[board.Snapshot](t, w).Tasks, tt.tasks)
			}
		})
	}
}

func TestCategories(t *testing.T) {
	s := newTestServer(t, "")
	s.seed(t)

	w := s.do(t, http.MethodPost, "/api/v1/categories", dto.CreateCategoryRequest{Name: "Health", Color: "#ef4444"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[entity.Category](t, w)

	w = s.do(t, http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]entity.Category](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, "Health", list[0].Name)

	_, ok := s.board.Snapshot().Category("Health")
	assert.True(t, ok, "board reloads after a category change")

	w = s.do(t, http.MethodPut, "/api/v1/categories/"+itoa(created.ID), map[string]string{"color": "#000000"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "#000000", decode[entity.Category](t, w).Color)

	w = s.do(t, http.MethodPost, "/api/v1/categories", map[string]string{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/categories/sync", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[dto.SyncResponse](t, w).Updated)

	w = s.do(t, http.MethodDelete, "/api/v1/categories/"+itoa(created.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(t, http.MethodGet, "/api/v1/categories/"+itoa(created.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordRoutes(t *testing.T) {
	s := newTestServer(t, "secret")
	s.seed(t)

	query := gateway.QueryParams{Where: []gateway.Where{gateway.Eq(gateway.TaskArchived, false)}}

	w := s.do(t, http.MethodPost, "/api/v1/records/task/query", query)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/records/task/query", query,
		middleware.HeaderProjectID, "demo", middleware.HeaderPublicKey, "secret")
	require.Equal(t, http.StatusOK, w.Code)
	fetched := decode[gateway.FetchResponse](t, w)
	assert.True(t, fetched.Success)
	assert.Len(t, fetched.Data, 1)

	w = s.do(t, http.MethodPost, "/api/v1/records/widgets/query", gateway.QueryParams{},
		middleware.HeaderProjectID, "demo", middleware.HeaderPublicKey, "secret")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[gateway.FetchResponse](t, w).Success)

	w = s.do(t, http.MethodDelete, "/api/v1/records/task", gateway.DeleteRequest{RecordIDs: []int64{42}},
		middleware.HeaderProjectID, "demo", middleware.HeaderPublicKey, "secret")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[gateway.DeleteResponse](t, w).Success)
}

func itoa(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
