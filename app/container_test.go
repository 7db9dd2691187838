package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/board"
	"taskflow/configs"
	"taskflow/domain/entity"
	"taskflow/domain/gateway"
)

const seedYAML = `
categories:
  - Name: Work
    color: "#3b82f6"
    task_count: 0
tasks:
  - title: Write report
    category: Work
    priority: High
    due_date: "2025-06-02"
    completed: false
    archived: false
    created_at: "2025-06-01T09:00:00Z"
`

func TestNewMemoryWithSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o644))

	cfg := &configs.Config{Gateway: configs.GatewayConfig{Driver: configs.DriverMemory, SeedFile: path}}
	c, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer c.Close()

	b := c.NewBoard(board.NotifierFunc(func(board.Notification) {}))
	require.NoError(t, b.Load(context.Background()))

	snap := b.Snapshot()
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, "Write report", snap.Tasks[0].Title)
	work, ok := snap.Category("Work")
	require.True(t, ok)
	assert.Equal(t, 1, work.TaskCount)
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	cfg := &configs.Config{Gateway: configs.GatewayConfig{Driver: "oracle"}}
	_, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestNewMissingSeedFile(t *testing.T) {
	cfg := &configs.Config{Gateway: configs.GatewayConfig{Driver: configs.DriverMemory, SeedFile: "does/not/exist.yaml"}}
	_, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestNewStampsConfiguredOwner(t *testing.T) {
	cfg := &configs.Config{Gateway: configs.GatewayConfig{Driver: configs.DriverMemory, Owner: "alice"}}
	c, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer c.Close()

	due, _ := entity.ParseDate("2025-06-01")
	created, err := c.Tasks.Create(context.Background(), entity.TaskDraft{Title: "Buy milk", Category: "Personal", Priority: entity.PriorityLow, DueDate: due})
	require.NoError(t, err)

	resp, err := c.Gateway.GetRecordByID(context.Background(), gateway.CollectionTask, created.ID, gateway.QueryParams{})
	require.NoError(t, err)
	require.True(t, resp.Success)
	assert.Equal(t, "alice", resp.Data.String(gateway.FieldOwner))
}
