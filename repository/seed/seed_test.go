package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskflow/domain/gateway"
	"taskflow/repository/memory"
)

const fixture = `
categories:
  - Name: Work
    color: blue
    task_count: 7
  - Name: Personal
    color: green
tasks:
  - title: Prepare slides
    description: for Monday
    category: Work
    priority: High
    due_date: "2025-06-02"
    completed: false
    archived: false
    created_at: "2025-05-30T09:00:00Z"
`

func TestApplySeedsEmptyCollectionsOnce(t *testing.T) {
	s, err := Parse([]byte(fixture))
	require.NoError(t, err)
	require.Len(t, s.Categories, 2)
	require.Len(t, s.Tasks, 1)

	gw := memory.NewGateway()
	ctx := context.Background()

	n, err := s.Apply(ctx, gw, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = s.Apply(ctx, gw, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 0, n, "second apply must not duplicate records")

	assert.Equal(t, 2, gw.Len(gateway.CollectionCategory))
	assert.Equal(t, 1, gw.Len(gateway.CollectionTask))
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("tasks: [unclosed"))
	assert.Error(t, err)
}
