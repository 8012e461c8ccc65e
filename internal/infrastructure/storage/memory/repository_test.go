package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskkeeper/internal/domain/task"
)

func TestRepository_ApplyBatchAndList(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	err := repo.ApplyBatch(ctx, []task.Task{
		{ID: "a", Title: "one", Priority: task.PriorityLow, CreatedAt: 100, UpdatedAt: 100},
		{ID: "b", Title: "two", Priority: task.PriorityHigh, CreatedAt: 200, UpdatedAt: 200},
	})
	require.NoError(t, err)

	// апсерт существующей записи не меняет порядок выдачи
	err = repo.ApplyBatch(ctx, []task.Task{
		{ID: "a", Title: "one updated", Priority: task.PriorityLow, CreatedAt: 100, UpdatedAt: 300},
	})
	require.NoError(t, err)

	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].ID)
	assert.Equal(t, "one updated", tasks[0].Title)
	assert.Equal(t, "b", tasks[1].ID)
}

func TestRepository_Get(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	require.NoError(t, repo.ApplyBatch(ctx, []task.Task{
		{ID: "a", Title: "one", Priority: task.PriorityLow, CreatedAt: 100, UpdatedAt: 100},
	}))

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "one", got.Title)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, task.ErrNotFound)
}

func TestRepository_ChangedSince(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	require.NoError(t, repo.ApplyBatch(ctx, []task.Task{
		{ID: "a", Title: "one", UpdatedAt: 100},
		{ID: "b", Title: "two", UpdatedAt: 200},
		{ID: "c", Title: "three", UpdatedAt: 300},
	}))

	changed, err := repo.ChangedSince(ctx, 150)
	require.NoError(t, err)
	require.Len(t, changed, 2)
	assert.Equal(t, "b", changed[0].ID)
	assert.Equal(t, "c", changed[1].ID)

	// граница строгая: запись с меткой, равной курсору, не возвращается
	changed, err = repo.ChangedSince(ctx, 300)
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestRepository_MaxUpdatedAt(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	max, err := repo.MaxUpdatedAt(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), max)

	require.NoError(t, repo.ApplyBatch(ctx, []task.Task{
		{ID: "a", Title: "one", UpdatedAt: 100},
		{ID: "b", Title: "two", UpdatedAt: 500},
	}))

	max, err = repo.MaxUpdatedAt(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(500), max)
}
