//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// ProductSeed is one kogan_products row. Nil pointers become NULL columns.
type ProductSeed struct {
	SKU             string
	Price           *float64
	RRP             *float64
	KoganFirstPrice *float64
	KoganAUPrice    *float64
	KoganNZPrice    *float64
	ShippingAve     *float64
	Weight          *float64
	Barcode         *string
	Stock           *int32
	Brand           *string
	AUDirty         bool
	NZDirty         bool
}

func InsertProduct(t *testing.T, db DBLike, seed ProductSeed) {
	t.Helper()

	_, err := db.Exec(context.Background(), `
		INSERT INTO kogan_products
			(sku, price, rrp, kogan_first_price, kogan_au_price, kogan_nz_price,
			 shipping_ave, weight, barcode, stock, brand, au_dirty, nz_dirty)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (sku) DO UPDATE SET
			price = EXCLUDED.price, rrp = EXCLUDED.rrp,
			kogan_first_price = EXCLUDED.kogan_first_price,
			kogan_au_price = EXCLUDED.kogan_au_price, kogan_nz_price = EXCLUDED.kogan_nz_price,
			shipping_ave = EXCLUDED.shipping_ave, weight = EXCLUDED.weight,
			barcode = EXCLUDED.barcode, stock = EXCLUDED.stock, brand = EXCLUDED.brand,
			au_dirty = EXCLUDED.au_dirty, nz_dirty = EXCLUDED.nz_dirty`,
		seed.SKU, seed.Price, seed.RRP, seed.KoganFirstPrice, seed.KoganAUPrice, seed.KoganNZPrice,
		seed.ShippingAve, seed.Weight, seed.Barcode, seed.Stock, seed.Brand, seed.AUDirty, seed.NZDirty)
	require.NoError(t, err)
}

func CountDirtyProducts(t *testing.T, db DBLike, country string) int {
	t.Helper()

	col := "au_dirty"
	if country == "NZ" {
		col = "nz_dirty"
	}
	var n int
	err := db.QueryRow(context.Background(),
		fmt.Sprintf("SELECT count(*) FROM kogan_products WHERE %s", col)).Scan(&n)
	require.NoError(t, err)
	return n
}

// TemplateCell reads one baseline cell; NULL comes back as empty string.
func TemplateCell(t *testing.T, db DBLike, country, sku, column string) string {
	t.Helper()

	var value *string
	err := db.QueryRow(context.Background(),
		fmt.Sprintf("SELECT %s FROM kogan_templates WHERE country_type = $1 AND sku = $2", column),
		country, sku).Scan(&value)
	require.NoError(t, err)
	if value == nil {
		return ""
	}
	return *value
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables between tests
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
