package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"nutriplan"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestHistory(t *testing.T) *SQLiteHistory {
	t.Helper()
	h, err := OpenHistory(filepath.Join(t.TempDir(), "db", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func TestHistoryRecordAndList(t *testing.T) {
	ctx := context.Background()
	h := openTestHistory(t)

	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, h.RecordPlan(ctx, testPlan("older", base)))
	require.NoError(t, h.RecordPlan(ctx, testPlan("newer", base.Add(time.Hour))))

	records, err := h.RecentPlans(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "newer", records[0].ID)
	assert.Equal(t, "older", records[1].ID)
	assert.Equal(t, 1800, records[0].DailyTarget)
	assert.Equal(t, 100.0, records[0].Coverage)
	assert.Equal(t, []string{"hypertension"}, records[0].Conditions)
	assert.True(t, records[0].Vegetarian)
	assert.Equal(t, "mock", records[0].Model)

	limited, err := h.RecentPlans(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	plan, err := h.Plan(ctx, "older")
	require.NoError(t, err)
	assert.Equal(t, "older", plan.ID)
	assert.Equal(t, 450.0, plan.Breakfast.TotalCalories)

	_, err = h.Plan(ctx, "unknown")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestHistoryRecordPlanReplaces(t *testing.T) {
	ctx := context.Background()
	h := openTestHistory(t)

	plan := testPlan("p1", time.Now())
	require.NoError(t, h.RecordPlan(ctx, plan))
	plan.Coverage = 87.5
	require.NoError(t, h.RecordPlan(ctx, plan))

	records, err := h.RecentPlans(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 87.5, records[0].Coverage)

	assert.Error(t, h.RecordPlan(ctx, &nutriplan.MealPlan{}))
}

func TestHistoryFeedback(t *testing.T) {
	ctx := context.Background()
	h := openTestHistory(t)
	h.now = func() time.Time { return time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, h.RecordPlan(ctx, testPlan("p1", time.Now())))

	tests := []struct {
		name    string
		planID  string
		rating  int
		wantErr error
	}{
		{name: "valid rating", planID: "p1", rating: 4},
		{name: "rating too low", planID: "p1", rating: 0, wantErr: nutriplan.ErrInvalidInput},
		{name: "rating too high", planID: "p1", rating: 6, wantErr: nutriplan.ErrInvalidInput},
		{name: "unknown plan", planID: "p2", rating: 3, wantErr: ErrPlanNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, err := h.SaveFeedback(ctx, tt.planID, tt.rating, "  tasty  ")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "tasty", fb.Comment)
			assert.Equal(t, tt.rating, fb.Rating)
		})
	}

	feedback, err := h.FeedbackFor(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, feedback, 1)
	assert.Equal(t, 4, feedback[0].Rating)
	assert.True(t, feedback[0].CreatedAt.Equal(h.now()))

	none, err := h.FeedbackFor(ctx, "p2")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOpenHistoryInMemory(t *testing.T) {
	h, err := OpenHistory(":memory:")
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.RecordPlan(context.Background(), testPlan("m1", time.Now())))
	records, err := h.RecentPlans(context.Background(), 5)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
