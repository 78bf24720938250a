package repository

import (
	"context"

	"ops-console/internal/domain/exportjob"
	"ops-console/internal/infra"
	"ops-console/internal/infra/db"
	"ops-console/internal/pkg/pgconv"
	"ops-console/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgtype"
)

// templateValueColumns is the fixed column order used by both read and write
// queries below. Cells are stored as text exactly as they were exported.
var templateValueColumns = []string{
	"price", "rrp", "kogan_first_price", "handling_days",
	"barcode", "stock", "shipping", "weight", "brand",
}

type TemplateRepository struct{}

func NewTemplateRepository() shared.TemplateRepository {
	return &TemplateRepository{}
}

const baselineSQL = `
SELECT sku, price, rrp, kogan_first_price, handling_days, barcode, stock, shipping, weight, brand
FROM kogan_templates
WHERE country_type = $1 AND sku = ANY($2)`

func (r *TemplateRepository) BaselineMap(ctx context.Context, dbtx db.DBTX, country exportjob.Country, skus []string) (map[string]map[string]string, error) {
	out := make(map[string]map[string]string, len(skus))
	if len(skus) == 0 {
		return out, nil
	}

	rows, err := dbtx.Query(ctx, baselineSQL, country.String(), skus)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query baseline template", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sku string
		cells := make([]pgtype.Text, len(templateValueColumns))
		dest := make([]any, 0, len(templateValueColumns)+1)
		dest = append(dest, &sku)
		for i := range cells {
			dest = append(dest, &cells[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, infra.WrapRepoErr("failed to scan baseline row", err)
		}

		m := make(map[string]string, len(templateValueColumns))
		for i, col := range templateValueColumns {
			if cells[i].Valid {
				m[col] = cells[i].String
			}
		}
		out[sku] = m
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate baseline rows", err)
	}
	return out, nil
}

const upsertTemplateSQL = `
INSERT INTO kogan_templates (country_type, sku, price, rrp, kogan_first_price, handling_days, barcode, stock, shipping, weight, brand, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
ON CONFLICT (country_type, sku) DO UPDATE SET
    price             = COALESCE(EXCLUDED.price, kogan_templates.price),
    rrp               = COALESCE(EXCLUDED.rrp, kogan_templates.rrp),
    kogan_first_price = COALESCE(EXCLUDED.kogan_first_price, kogan_templates.kogan_first_price),
    handling_days     = COALESCE(EXCLUDED.handling_days, kogan_templates.handling_days),
    barcode           = COALESCE(EXCLUDED.barcode, kogan_templates.barcode),
    stock             = COALESCE(EXCLUDED.stock, kogan_templates.stock),
    shipping          = COALESCE(EXCLUDED.shipping, kogan_templates.shipping),
    weight            = COALESCE(EXCLUDED.weight, kogan_templates.weight),
    brand             = COALESCE(EXCLUDED.brand, kogan_templates.brand),
    updated_at        = now()`

// UpsertRows writes applied payloads back as the new baseline. A column absent
// from a row's payload (NZ rows carry fewer columns) is passed as NULL and
// keeps its current value via COALESCE.
func (r *TemplateRepository) UpsertRows(ctx context.Context, dbtx db.DBTX, country exportjob.Country, rows []exportjob.ChangedRow) error {
	for _, row := range rows {
		args := make([]any, 0, len(templateValueColumns)+2)
		args = append(args, country.String(), row.SKU)
		for _, col := range templateValueColumns {
			args = append(args, payloadCell(row.Payload, col))
		}
		if _, err := dbtx.Exec(ctx, upsertTemplateSQL, args...); err != nil {
			return infra.WrapRepoErr("failed to upsert template row", err)
		}
	}
	return nil
}

func payloadCell(payload map[string]string, col string) pgtype.Text {
	v, ok := payload[col]
	if !ok {
		return pgtype.Text{Valid: false}
	}
	return pgconv.StringToPgtype(v)
}
