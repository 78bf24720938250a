package repository

import (
	"context"
	"fmt"

	"ops-console/internal/domain/exportjob"
	"ops-console/internal/infra"
	"ops-console/internal/infra/db"
	"ops-console/internal/pkg/pgconv"
	"ops-console/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgtype"
)

type ProductRepository struct{}

func NewProductRepository() shared.ProductRepository {
	return &ProductRepository{}
}

// 国毎に dirty フラグと計算済み価格のカラムが分かれている
func countryColumns(country exportjob.Country) (dirtyCol, priceCol string) {
	if country == exportjob.CountryNZ {
		return "nz_dirty", "kogan_nz_price"
	}
	return "au_dirty", "kogan_au_price"
}

func (r *ProductRepository) DirtySourceRows(ctx context.Context, dbtx db.DBTX, country exportjob.Country) ([]exportjob.SourceRow, error) {
	dirtyCol, priceCol := countryColumns(country)
	query := fmt.Sprintf(`
SELECT sku, %s, price, rrp, kogan_first_price, shipping_ave, weight, barcode, stock, brand
FROM kogan_products
WHERE %s
ORDER BY sku`, priceCol, dirtyCol)

	rows, err := dbtx.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query dirty products", err)
	}
	defer rows.Close()

	var out []exportjob.SourceRow
	for rows.Next() {
		var sku string
		var koganPrice, listPrice, rrp, firstPrice, ship, wt pgtype.Float8
		var barcode, brand pgtype.Text
		var stock pgtype.Int4
		if err := rows.Scan(&sku, &koganPrice, &listPrice, &rrp, &firstPrice, &ship, &wt, &barcode, &stock, &brand); err != nil {
			return nil, infra.WrapRepoErr("failed to scan dirty product", err)
		}
		out = append(out, exportjob.SourceRow{
			SKU:             sku,
			KoganPrice:      pgconv.Float64PtrFromPgtype(koganPrice),
			ListPrice:       pgconv.Float64PtrFromPgtype(listPrice),
			RRP:             pgconv.Float64PtrFromPgtype(rrp),
			KoganFirstPrice: pgconv.Float64PtrFromPgtype(firstPrice),
			ShippingAve:     pgconv.Float64PtrFromPgtype(ship),
			Weight:          pgconv.Float64PtrFromPgtype(wt),
			Barcode:         pgconv.StringPtrFromPgtype(barcode),
			Stock:           pgconv.Int32PtrFromPgtype(stock),
			Brand:           pgconv.StringPtrFromPgtype(brand),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate dirty products", err)
	}
	return out, nil
}

func (r *ProductRepository) ClearDirty(ctx context.Context, dbtx db.DBTX, country exportjob.Country, skus []string) error {
	if len(skus) == 0 {
		return nil
	}
	dirtyCol, _ := countryColumns(country)
	query := fmt.Sprintf(`UPDATE kogan_products SET %s = FALSE, updated_at = now() WHERE sku = ANY($1)`, dirtyCol)
	if _, err := dbtx.Exec(ctx, query, skus); err != nil {
		return infra.WrapRepoErr("failed to clear dirty flags", err)
	}
	return nil
}
