package remote_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/board"
	"taskflow/category"
	"taskflow/delivery/rest"
	"taskflow/delivery/rest/middleware"
	"taskflow/domain"
	"taskflow/domain/entity"
	"taskflow/domain/gateway"
	"taskflow/infrastructure/circuitbreaker"
	"taskflow/repository/memory"
	"taskflow/repository/remote"
	"taskflow/task"
)

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// newRecordServer serves a memory gateway through the record API
func newRecordServer(t *testing.T, key string) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := func() time.Time { return testNow }
	gw := memory.NewGateway(memory.WithClock(clock))
	tasks := task.NewRepository(gw, nil, clock)
	cats := category.NewRepository(gw, nil)
	b := board.New(tasks, cats, board.NotifierFunc(func(board.Notification) {}), nil)

	engine := gin.New()
	rest.NewHandler(b, cats, gw, nil).Register(engine.Group("/api/v1"), middleware.Credentials("demo", key))

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, url, key string, cb *circuitbreaker.CircuitBreaker) *remote.Client {
	t.Helper()
	c, err := remote.NewClient(remote.Config{BaseURL: url, ProjectID: "demo", PublicKey: key, Timeout: 2 * time.Second}, cb, nil)
	require.NoError(t, err)
	return c
}

func TestClientAgainstRecordAPI(t *testing.T) {
	srv := newRecordServer(t, "secret")
	client := newClient(t, srv.URL, "secret", nil)
	repo := task.NewRepository(client, nil, func() time.Time { return testNow })
	ctx := context.Background()

	due, err := entity.ParseDate("2025-06-01")
	require.NoError(t, err)
	created, err := repo.Create(ctx, entity.TaskDraft{Title: "Buy milk", Category: "Personal", Priority: entity.PriorityLow, DueDate: due})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, "2025-06-01", got.DueDate.String())
	assert.True(t, testNow.Equal(got.CreatedAt))

	done, err := repo.MarkComplete(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)

	found, err := repo.Search(ctx, "MILK")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, repo.Delete(ctx, created.ID))
	err = repo.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClientSendsCredentials(t *testing.T) {
	srv := newRecordServer(t, "secret")
	client := newClient(t, srv.URL, "wrong", nil)

	_, err := client.FetchRecords(context.Background(), gateway.CollectionTask, gateway.QueryParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestClientRejectedEnvelopeIsNotAnError(t *testing.T) {
	srv := newRecordServer(t, "")
	client := newClient(t, srv.URL, "", nil)

	resp, err := client.FetchRecords(context.Background(), "widgets", gateway.QueryParams{})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Message)
}

func TestClientCircuitBreaker(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cb := circuitbreaker.NewCircuitBreaker(2, time.Minute, nil)
	client := newClient(t, srv.URL, "", cb)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := client.GetRecordByID(ctx, gateway.CollectionTask, 1, gateway.QueryParams{})
		require.Error(t, err)
	}
	_, err := client.GetRecordByID(ctx, gateway.CollectionTask, 1, gateway.QueryParams{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, circuitbreaker.ErrOpen))
	assert.Equal(t, int32(2), hits.Load(), "an open circuit makes no request")
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := remote.NewClient(remote.Config{BaseURL: "not a url"}, nil, nil)
	assert.Error(t, err)
}
