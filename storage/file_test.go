package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"nutriplan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileProfileState(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		filename string
		data     []byte
	}{
		{
			name:     "basic profile load",
			filename: "profile.json",
			data:     []byte(`{"age": 30, "height_cm": 175, "weight_kg": 72}`),
		},
		{
			name:     "empty profile file",
			filename: "empty.json",
			data:     []byte(`{}`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filePath := filepath.Join(tmpDir, tt.filename)
			require.NoError(t, os.WriteFile(filePath, tt.data, 0644))

			loaded, err := NewFileProfileState(filePath).Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.data, loaded)
		})
	}

	t.Run("load nonexistent profile", func(t *testing.T) {
		_, err := NewFileProfileState(filepath.Join(tmpDir, "nonexistent.json")).Load(context.Background())
		assert.Error(t, err)
		assert.True(t, os.IsNotExist(err))
	})
}

func TestFilePlanStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "plans")
	store := NewFilePlanStore(dir)

	plan := testPlan("plan-1", time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))

	path, err := store.Save(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "plan-1.json"), path)
	assert.FileExists(t, path)

	loaded, err := store.Load(ctx, "plan-1")
	require.NoError(t, err)
	assert.Equal(t, plan, loaded)

	t.Run("missing plan", func(t *testing.T) {
		_, err := store.Load(ctx, "nope")
		assert.ErrorIs(t, err, ErrPlanNotFound)
	})

	t.Run("plan without id", func(t *testing.T) {
		_, err := store.Save(ctx, &nutriplan.MealPlan{})
		assert.Error(t, err)
	})

	t.Run("corrupt plan file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0644))
		_, err := store.Load(ctx, "bad")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrPlanNotFound)
	})
}

func TestSyncPlanStore(t *testing.T) {
	ctx := context.Background()
	store := NewSyncPlanStore(NewFilePlanStore(t.TempDir()))

	done := make(chan error, 8)
	for i := range 8 {
		go func() {
			plan := testPlan("plan-"+string(rune('a'+i)), time.Now())
			_, err := store.Save(ctx, plan)
			done <- err
		}()
	}
	for range 8 {
		require.NoError(t, <-done)
	}

	loaded, err := store.Load(ctx, "plan-c")
	require.NoError(t, err)
	assert.Equal(t, "plan-c", loaded.ID)
}
