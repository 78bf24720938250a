//go:build unit

package exportjob_test

import (
	"bytes"
	"encoding/csv"
	"testing"

	"ops-console/internal/domain/exportjob"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }
func s(v string) *string   { return &v }
func i(v int32) *int32     { return &v }

func parseCSV(t *testing.T, raw []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestBuildDiffAU(t *testing.T) {
	baselines := map[string]map[string]string{
		"SKU-1": {
			"price": "100", "rrp": "150", "kogan_first_price": "",
			"handling_days": "3", "barcode": "B1", "stock": "5",
			"shipping": "variable", "weight": "1.2", "brand": "Acme",
		},
		"SKU-3": {
			"price": "20", "rrp": "25", "kogan_first_price": "18",
			"handling_days": "3", "barcode": "B3", "stock": "9",
			"shipping": "variable", "weight": "0.5", "brand": "Acme",
		},
	}

	sources := []exportjob.SourceRow{
		{
			// RRP のみ変更。価格は許容誤差 0.005 未満の差なので不変扱い。
			SKU:        "SKU-1",
			KoganPrice: f(100.004), RRP: f(160),
			ShippingAve: f(2.0), Weight: f(1.2),
			Barcode: s("B1"), Stock: i(5), Brand: s("Acme"),
		},
		{
			// ベースライン無しの SKU は値のある列が全て変更扱い
			SKU:       "SKU-2",
			ListPrice: f(50), RRP: f(60),
			ShippingAve: f(0), Weight: f(2.5),
			Barcode: s("B2"), Stock: i(10), Brand: s("Beta"),
		},
		{
			// 完全一致の行は出力されない
			SKU:        "SKU-3",
			KoganPrice: f(20), RRP: f(25), KoganFirstPrice: f(18),
			ShippingAve: f(1.0), Weight: f(0.5),
			Barcode: s("B3"), Stock: i(9), Brand: s("Acme"),
		},
	}

	result, err := exportjob.BuildDiff(exportjob.CountryAU, sources, baselines)
	require.NoError(t, err)

	assert.Equal(t, 2, result.RowCount)
	require.Len(t, result.Rows, 2)

	records := parseCSV(t, result.CSV)
	want := [][]string{
		{"SKU", "Price", "RRP", "Kogan First Price", "Handling Days", "Barcode", "Stock", "Shipping", "Weight", "Brand"},
		{"SKU-1", "", "160", "", "", "", "", "", "", ""},
		{"SKU-2", "50", "60", "", "3", "B2", "10", "0", "2.5", "Beta"},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("csv mismatch (-want +got):\n%s", diff)
	}

	// 書き戻し用 payload は全列を持つ
	row1 := result.Rows[0]
	assert.Equal(t, "SKU-1", row1.SKU)
	assert.Equal(t, []string{"rrp"}, row1.ChangedColumns)
	assert.Equal(t, "160", row1.Payload["rrp"])
	assert.Equal(t, "100.004", row1.Payload["price"])
	assert.Equal(t, "variable", row1.Payload["shipping"])

	row2 := result.Rows[1]
	assert.Equal(t, "SKU-2", row2.SKU)
	assert.Contains(t, row2.ChangedColumns, "price")
	assert.Contains(t, row2.ChangedColumns, "shipping")
	assert.Equal(t, "50", row2.Payload["price"])
	assert.Equal(t, "0", row2.Payload["shipping"])
}

func TestBuildDiffNZ(t *testing.T) {
	sources := []exportjob.SourceRow{
		{SKU: "SKU-9", KoganPrice: f(75.5), RRP: f(90), ShippingAve: f(3.0)},
	}

	result, err := exportjob.BuildDiff(exportjob.CountryNZ, sources, nil)
	require.NoError(t, err)
	require.Equal(t, 1, result.RowCount)

	records := parseCSV(t, result.CSV)
	want := [][]string{
		{"SKU", "Price", "RRP", "Kogan First Price", "Shipping", "Handling Days"},
		{"SKU-9", "75.5", "90", "", "0", "3"},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("csv mismatch (-want +got):\n%s", diff)
	}

	// NZ payload はテンプレートの NZ 列のみ
	payload := result.Rows[0].Payload
	assert.NotContains(t, payload, "barcode")
	assert.NotContains(t, payload, "weight")
	assert.Equal(t, "0", payload["shipping"])
}

func TestBuildDiffNoChanges(t *testing.T) {
	baselines := map[string]map[string]string{
		"SKU-1": {
			"price": "10", "rrp": "12", "kogan_first_price": "",
			"handling_days": "3", "barcode": "", "stock": "1",
			"shipping": "variable", "weight": "1", "brand": "",
		},
	}
	sources := []exportjob.SourceRow{
		{SKU: "SKU-1", KoganPrice: f(10.0), RRP: f(12), ShippingAve: f(4), Weight: f(1), Stock: i(1)},
	}

	result, err := exportjob.BuildDiff(exportjob.CountryAU, sources, baselines)
	require.NoError(t, err)

	assert.Zero(t, result.RowCount)
	assert.Empty(t, result.Rows)
	records := parseCSV(t, result.CSV)
	assert.Len(t, records, 1) // header only
}

func TestBuildDiffNumericTolerance(t *testing.T) {
	baselines := map[string]map[string]string{
		"SKU-1": {
			"price": "100", "rrp": "", "kogan_first_price": "",
			"handling_days": "3", "barcode": "", "stock": "",
			"shipping": "", "weight": "", "brand": "",
		},
	}

	t.Run("difference under tolerance is unchanged", func(t *testing.T) {
		sources := []exportjob.SourceRow{{SKU: "SKU-1", KoganPrice: f(100.004)}}
		result, err := exportjob.BuildDiff(exportjob.CountryAU, sources, baselines)
		require.NoError(t, err)
		assert.Zero(t, result.RowCount)
	})

	t.Run("difference at tolerance is a change", func(t *testing.T) {
		sources := []exportjob.SourceRow{{SKU: "SKU-1", KoganPrice: f(100.005)}}
		result, err := exportjob.BuildDiff(exportjob.CountryAU, sources, baselines)
		require.NoError(t, err)
		require.Equal(t, 1, result.RowCount)
		assert.Equal(t, []string{"price"}, result.Rows[0].ChangedColumns)
	})
}

func TestBuildDiffInvalidCountry(t *testing.T) {
	_, err := exportjob.BuildDiff(exportjob.Country("US"), nil, nil)
	require.ErrorIs(t, err, exportjob.ErrInvalidCountry)
}
