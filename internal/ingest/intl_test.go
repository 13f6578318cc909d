package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadIntlSales(t *testing.T) {
	input := `{"sale_id":"s1","ts":"2026-02-01T12:00:00Z","date_key":"2026-02-01","customer":" ACME ","sku":"SKU-1","pcs":3,"rate":9.5,"gross_amt":28.5,"currency":"INR","source_dataset":"intl"}` + "\n"

	sales, skipped, err := ReadIntlSales(strings.NewReader(input), discard())
	require.NoError(t, err)
	assert.Equal(t, 0, skipped)

	require.Len(t, sales, 1)
	s := sales[0]
	assert.Equal(t, "s1", s.SaleID)
	assert.Equal(t, "2026-02-01", s.DateKey)
	assert.Equal(t, "ACME", s.Customer)
	assert.Equal(t, "SKU-1", s.SKU)
	assert.Equal(t, 3, s.Pcs)
	assert.InDelta(t, 9.5, s.Rate, 1e-9)
	assert.InDelta(t, 28.5, s.GrossAmt, 1e-9)
	assert.Equal(t, "INR", s.Currency)
	assert.Equal(t, "intl", s.SourceDataset)
}

func TestReadIntlSalesDateKeyDerivedFromTS(t *testing.T) {
	input := `{"sale_id":"s1","ts":"2026-02-01T12:00:00Z","customer":"ACME","sku":"SKU-1","gross_amt":10}` + "\n"

	sales, _, err := ReadIntlSales(strings.NewReader(input), discard())
	require.NoError(t, err)

	require.Len(t, sales, 1)
	assert.Equal(t, "2026-02-01", sales[0].DateKey)
}

func TestReadIntlSalesSkipsBadLines(t *testing.T) {
	input := strings.Join([]string{
		`{"sale_id":"s1","ts":"2026-02-01T12:00:00Z","customer":"ACME","sku":"SKU-1","gross_amt":10}`,
		`not json`,
		`{"sale_id":"s2","ts":"BAD_TIME","customer":"ACME","sku":"SKU-2","gross_amt":10}`,
		``,
	}, "\n")

	sales, skipped, err := ReadIntlSales(strings.NewReader(input), discard())
	require.NoError(t, err)

	assert.Len(t, sales, 1)
	assert.Equal(t, 2, skipped)
}
