package profit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mswatii/cs2-craftcalc/internal/models"
)

func TestSummarize(t *testing.T) {
	outputs := []models.PriceableItem{
		{Name: "a", MinPrice: 1000},
		{Name: "b", MinPrice: 2000},
		{Name: "c", MinPrice: 0},
	}
	weapons := []models.PriceableItem{
		{Name: "expensive", MinPrice: 300},
		{Name: "cheap", MinPrice: 150},
		{Name: "unpriced", MinPrice: 0},
	}

	s := Summarize(outputs, weapons, 5)

	assert.Equal(t, 3, s.Outputs)
	assert.Equal(t, 2, s.PricedOutputs)
	assert.InDelta(t, 1000, s.AveragePrice, 1e-9)
	assert.InDelta(t, 200, s.Threshold, 1e-9)

	require.Len(t, s.Weapons, 3)
	assert.Equal(t, []string{"unpriced", "cheap", "expensive"},
		[]string{s.Weapons[0].Name, s.Weapons[1].Name, s.Weapons[2].Name})
	assert.False(t, s.Weapons[0].Profitable)
	assert.True(t, s.Weapons[1].Profitable)
	assert.InDelta(t, 50, s.Weapons[1].Margin, 1e-9)
	assert.False(t, s.Weapons[2].Profitable)
	assert.InDelta(t, -100, s.Weapons[2].Margin, 1e-9)

	require.NotNil(t, s.Cheapest)
	assert.Equal(t, "cheap", s.Cheapest.Name)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, nil, 0)
	assert.Zero(t, s.AveragePrice)
	assert.Zero(t, s.Threshold)
	assert.Equal(t, DefaultCraftSize, s.CraftSize)
	assert.Empty(t, s.Weapons)
	assert.Nil(t, s.Cheapest)
}
