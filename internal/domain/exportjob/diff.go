package exportjob

import (
	"bytes"
	"encoding/csv"
	"math"
	"strconv"
	"strings"

	"ops-console/internal/pkg/errs"
)

// ColumnSpec ties a CSV column to the baseline-template column it is diffed
// against. Columns without a ModelColumn are never populated here.
type ColumnSpec struct {
	Header        string
	LogicalKey    string
	ModelColumn   string
	AlwaysInclude bool
}

// Kogan の AU/NZ テンプレートは列構成が異なる。SKU は常に出力して行を特定できるようにする。
var countryColumnSpecs = map[Country][]ColumnSpec{
	CountryAU: {
		{Header: "SKU", LogicalKey: "SKU", ModelColumn: "sku", AlwaysInclude: true},
		{Header: "Price", LogicalKey: "Price", ModelColumn: "price"},
		{Header: "RRP", LogicalKey: "RRP", ModelColumn: "rrp"},
		{Header: "Kogan First Price", LogicalKey: "Kogan First Price", ModelColumn: "kogan_first_price"},
		{Header: "Handling Days", LogicalKey: "Handling Days", ModelColumn: "handling_days"},
		{Header: "Barcode", LogicalKey: "Barcode", ModelColumn: "barcode"},
		{Header: "Stock", LogicalKey: "Stock", ModelColumn: "stock"},
		{Header: "Shipping", LogicalKey: "Shipping", ModelColumn: "shipping"},
		{Header: "Weight", LogicalKey: "Weight", ModelColumn: "weight"},
		{Header: "Brand", LogicalKey: "Brand", ModelColumn: "brand"},
	},
	CountryNZ: {
		{Header: "SKU", LogicalKey: "SKU", ModelColumn: "sku", AlwaysInclude: true},
		{Header: "Price", LogicalKey: "Price", ModelColumn: "price"},
		{Header: "RRP", LogicalKey: "RRP", ModelColumn: "rrp"},
		{Header: "Kogan First Price", LogicalKey: "Kogan First Price", ModelColumn: "kogan_first_price"},
		{Header: "Shipping", LogicalKey: "Shipping", ModelColumn: "shipping"},
		{Header: "Handling Days", LogicalKey: "Handling Days", ModelColumn: "handling_days"},
	},
}

func ColumnSpecs(country Country) ([]ColumnSpec, error) {
	specs, ok := countryColumnSpecs[country]
	if !ok {
		return nil, ErrInvalidCountry
	}
	return specs, nil
}

const defaultHandlingDays = 3

// numericTolerance: 価格・重量の比較は 0.005 未満の差を同値とみなす。
const numericTolerance = 0.005

// SourceRow is the flattened product + freight view for one SKU. Pricing is
// computed upstream; this package only maps and diffs.
type SourceRow struct {
	SKU             string
	KoganPrice      *float64 // country-specific computed price
	ListPrice       *float64 // fallback when no computed price exists
	RRP             *float64
	KoganFirstPrice *float64
	ShippingAve     *float64
	Weight          *float64
	Barcode         *string
	Stock           *int32
	Brand           *string
}

// ChangedRow carries one emitted CSV row's write-back payload.
// Payload maps template model columns to their new cell values (full row);
// ChangedColumns lists the columns that actually differed.
type ChangedRow struct {
	SKU            string
	Payload        map[string]string
	ChangedColumns []string
}

type DiffResult struct {
	CSV      []byte
	Rows     []ChangedRow
	RowCount int
}

// BuildDiff generates the sparse diff CSV for a country: one row per SKU whose
// mapped values differ from the baseline, with unchanged columns left blank.
// A SKU missing from the baseline treats every populated value as changed.
func BuildDiff(country Country, sources []SourceRow, baselines map[string]map[string]string) (*DiffResult, error) {
	specs, err := ColumnSpecs(country)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	headers := make([]string, len(specs))
	for i, spec := range specs {
		headers[i] = spec.Header
	}
	if err := w.Write(headers); err != nil {
		return nil, errs.Wrap(err, "failed to write csv header")
	}

	result := &DiffResult{}
	for _, src := range sources {
		full := mapSourceRow(country, specs, src)
		sparse, changed := diffAgainstBaseline(specs, full, baselines[src.SKU])
		if len(changed) == 0 {
			continue
		}

		record := make([]string, len(specs))
		for i, spec := range specs {
			record[i] = sparse[spec.LogicalKey]
		}
		if err := w.Write(record); err != nil {
			return nil, errs.Wrap(err, "failed to write csv row")
		}

		payload := make(map[string]string, len(specs))
		for _, spec := range specs {
			payload[spec.ModelColumn] = full[spec.LogicalKey]
		}
		result.Rows = append(result.Rows, ChangedRow{
			SKU:            src.SKU,
			Payload:        payload,
			ChangedColumns: changed,
		})
		result.RowCount++
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errs.Wrap(err, "failed to flush csv")
	}
	result.CSV = buf.Bytes()
	return result, nil
}

// mapSourceRow fills every template column for one SKU as normalized cells.
// Price prefers the computed country price; Shipping is "variable" for AU
// unless the average is ~0, and always 0 for NZ.
func mapSourceRow(country Country, specs []ColumnSpec, src SourceRow) map[string]string {
	price := src.KoganPrice
	if price == nil {
		price = src.ListPrice
	}

	var shipping string
	switch country {
	case CountryAU:
		switch {
		case src.ShippingAve == nil:
			shipping = ""
		case math.Abs(*src.ShippingAve) < numericTolerance/10:
			shipping = "0"
		default:
			shipping = "variable"
		}
	default:
		shipping = "0"
	}

	row := map[string]string{
		"SKU":               src.SKU,
		"Price":             floatCell(price),
		"RRP":               floatCell(src.RRP),
		"Kogan First Price": floatCell(src.KoganFirstPrice),
		"Handling Days":     strconv.Itoa(defaultHandlingDays),
		"Barcode":           stringCell(src.Barcode),
		"Stock":             intCell(src.Stock),
		"Shipping":          shipping,
		"Weight":            floatCell(src.Weight),
		"Brand":             stringCell(src.Brand),
	}

	out := make(map[string]string, len(specs))
	for _, spec := range specs {
		out[spec.LogicalKey] = row[spec.LogicalKey]
	}
	return out
}

// diffAgainstBaseline returns the sparse row (only changed cells, SKU always
// present) and the list of changed model columns. Empty change list means the
// row must not be emitted.
func diffAgainstBaseline(specs []ColumnSpec, full map[string]string, baseline map[string]string) (map[string]string, []string) {
	sparse := make(map[string]string, len(specs))
	var changed []string

	for _, spec := range specs {
		if spec.AlwaysInclude {
			sparse[spec.LogicalKey] = full[spec.LogicalKey]
			continue
		}

		newVal := normalizeCell(full[spec.LogicalKey])
		var oldVal string
		if baseline != nil {
			oldVal = normalizeCell(baseline[spec.ModelColumn])
		}

		if cellsDiffer(newVal, oldVal) {
			sparse[spec.LogicalKey] = full[spec.LogicalKey]
			changed = append(changed, spec.ModelColumn)
		}
	}

	if len(changed) == 0 {
		return nil, nil
	}
	return sparse, changed
}

func normalizeCell(v string) string {
	return strings.TrimSpace(v)
}

func cellsDiffer(newVal, oldVal string) bool {
	if newVal == "" && oldVal == "" {
		return false
	}
	if newVal == "" || oldVal == "" {
		return true
	}
	nf, nErr := strconv.ParseFloat(newVal, 64)
	of, oErr := strconv.ParseFloat(oldVal, 64)
	if nErr == nil && oErr == nil {
		return math.Abs(nf-of) >= numericTolerance
	}
	return newVal != oldVal
}

func floatCell(f *float64) string {
	if f == nil {
		return ""
	}
	// 重量・価格とも小数3桁で丸めてから比較・出力する
	rounded := math.Round(*f*1000) / 1000
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

func stringCell(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func intCell(i *int32) string {
	if i == nil {
		return ""
	}
	return strconv.FormatInt(int64(*i), 10)
}
