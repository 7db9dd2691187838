package category

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/domain"
	"taskflow/domain/entity"
	"taskflow/testutil"
)

func seeded(t *testing.T, names ...string) (*Repository, *testutil.FaultyGateway) {
	t.Helper()
	gw := testutil.NewFaultyGateway()
	repo := NewRepository(gw, nil)
	for _, n := range names {
		_, err := repo.Create(context.Background(), entity.CategoryDraft{Name: n, Color: "#3b82f6"})
		require.NoError(t, err)
	}
	return repo, gw
}

func TestGetAllOrderedByName(t *testing.T) {
	repo, _ := seeded(t, "Work", "Health", "Personal")

	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)

	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.Name
		assert.Zero(t, c.TaskCount)
	}
	assert.Equal(t, []string{"Health", "Personal", "Work"}, names)
}

func TestUpdateAndDelete(t *testing.T) {
	repo, _ := seeded(t, "Work")
	ctx := context.Background()

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	id := all[0].ID

	color := "#ef4444"
	updated, err := repo.Update(ctx, id, entity.CategoryPatch{Color: &color})
	require.NoError(t, err)
	assert.Equal(t, "Work", updated.Name)
	assert.Equal(t, color, updated.Color)

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, id), domain.ErrNotFound)
}

func TestUpdateTaskCount(t *testing.T) {
	repo, _ := seeded(t, "Work", "Personal")
	ctx := context.Background()

	c, err := repo.UpdateTaskCount(ctx, "Personal", 4)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, 4, c.TaskCount)

	stored, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.TaskCount)

	missing, err := repo.UpdateTaskCount(ctx, "Shopping", 1)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGatewayFailure(t *testing.T) {
	repo, gw := seeded(t, "Work")
	gw.FetchErr = testutil.ErrTransport

	_, err := repo.GetAll(context.Background())
	assert.ErrorIs(t, err, domain.ErrGateway)

	_, err = repo.UpdateTaskCount(context.Background(), "Work", 2)
	assert.ErrorIs(t, err, domain.ErrGateway)
	assert.Zero(t, gw.Calls("update"))
}
