package warehouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starling/internal/model"
)

func TestStats(t *testing.T) {
	wh := newTestWarehouse(t)
	ctx := context.Background()

	stats, err := wh.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, TableCounts{}, stats.Tables)

	_, err = wh.Load(ctx, []model.Row{
		testRow("e1", "u1", model.EventSignup, nil),
		testRow("e2", "u2", model.EventPurchase, floatPtr(9.99)),
	})
	require.NoError(t, err)

	stats, err = wh.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Tables.Events)
	assert.EqualValues(t, 2, stats.Tables.EventTypes)
	assert.EqualValues(t, 2, stats.Tables.Users)
	assert.EqualValues(t, 1, stats.Tables.Dates)
	assert.Zero(t, stats.Tables.IntlSales)
}
