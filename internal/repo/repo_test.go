package repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/frozen-toko/internal/catalog"
)

func strPtr(s string) *string { return &s }

func TestItemRecordToItem(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := itemRecord{
		ID:               "beef-tapa",
		Name:             "Beef Tapa",
		BasePrice:        "320.00",
		DiscountPrice:    strPtr("299.50"),
		DiscountActive:   true,
		DiscountStart:    &start,
		Available:        true,
		MeasurementUnit:  "kg",
		MeasurementValue: strPtr("not-a-number"),
	}
	item, err := rec.toItem()
	require.NoError(t, err)
	require.Equal(t, "320", item.BasePrice.String())
	require.NotNil(t, item.DiscountPrice)
	require.Equal(t, "299.5", item.DiscountPrice.String())
	require.Nil(t, item.MeasurementValue)
	require.True(t, item.Measured())
	require.Equal(t, []catalog.Variation{}, item.Variations)

	rec.BasePrice = "abc"
	_, err = rec.toItem()
	require.Error(t, err)
}
