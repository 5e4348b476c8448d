package jobs

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalMealsCSV_ColumnUnion(t *testing.T) {
	meals := []MealRecord{
		{ID: "m1", Fields: map[string]any{"name": "breakfast", "calories": int64(420)}},
		{ID: "m2", Fields: map[string]any{"name": "lunch", "protein": 32.5}},
	}

	data, err := marshalMealsCSV(meals)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)

	// "id" leads, remaining columns alphabetical.
	assert.Equal(t, "id,calories,name,protein", lines[0])
	assert.Equal(t, "m1,420,breakfast,", lines[1])
	assert.Equal(t, "m2,,lunch,32.5", lines[2])
}

func TestMarshalMealsCSV_TimestampsAndNils(t *testing.T) {
	meals := []MealRecord{
		{ID: "m1", Fields: map[string]any{
			"date":  time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC),
			"notes": nil,
		}},
	}

	data, err := marshalMealsCSV(meals)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,date,notes", lines[0])
	assert.Equal(t, "m1,2026-03-14T08:30:00Z,", lines[1])
}

func TestMarshalMealsCSV_Empty(t *testing.T) {
	data, err := marshalMealsCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "id\n", string(data))
}
