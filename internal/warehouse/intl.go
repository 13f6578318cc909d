package warehouse

import (
	"context"
	"database/sql"
	"log/slog"

	"starling/internal/model"
)

// LoadIntlSales applies the secondary international/wholesale stream with
// the same pattern as the primary one: dimension upserts first (customers,
// products), then resolve both foreign keys, then the fact upsert keyed on
// sale_id. This feed is best-effort: rows missing a resolvable customer,
// product, or a positive gross amount are dropped, not quarantined.
func (w *Warehouse) LoadIntlSales(ctx context.Context, sales []model.IntlSale) (*IntlLoadResult, error) {
	result := &IntlLoadResult{}
	if len(sales) == 0 {
		return result, nil
	}

	usable := make([]model.IntlSale, 0, len(sales))
	for _, s := range sales {
		if s.SaleID == "" || s.Customer == "" || s.SKU == "" || s.GrossAmt <= 0 {
			result.Dropped++
			continue
		}
		usable = append(usable, s)
	}
	if len(usable) == 0 {
		return result, nil
	}

	var err error
	if result.CustomersInserted, err = w.upsertByName(ctx, "dim_customers", "customer", customerNames(usable)); err != nil {
		return nil, err
	}
	if result.ProductsInserted, err = w.upsertByName(ctx, "dim_products", "sku", productSKUs(usable)); err != nil {
		return nil, err
	}

	customerIDs, err := w.nameIDs(ctx, "dim_customers", "customer", "customer_id")
	if err != nil {
		return nil, err
	}
	productIDs, err := w.nameIDs(ctx, "dim_products", "sku", "product_id")
	if err != nil {
		return nil, err
	}

	err = w.withTx(ctx, "fact_intl_sales", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO fact_intl_sales (sale_id, ts, date_key, customer_id, product_id, pcs, rate, gross_amt, currency, source_dataset)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (sale_id) DO UPDATE SET
				ts = EXCLUDED.ts,
				date_key = EXCLUDED.date_key,
				customer_id = EXCLUDED.customer_id,
				product_id = EXCLUDED.product_id,
				pcs = EXCLUDED.pcs,
				rate = EXCLUDED.rate,
				gross_amt = EXCLUDED.gross_amt,
				currency = EXCLUDED.currency,
				source_dataset = EXCLUDED.source_dataset`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, s := range usable {
			customerID, ok := customerIDs[s.Customer]
			if !ok {
				result.Dropped++
				continue
			}
			productID, ok := productIDs[s.SKU]
			if !ok {
				result.Dropped++
				continue
			}
			_, err := stmt.ExecContext(ctx,
				s.SaleID, s.TS.UTC(), s.DateKey, customerID, productID,
				s.Pcs, s.Rate, s.GrossAmt, s.Currency, s.SourceDataset)
			if err != nil {
				return err
			}
			result.SalesUpserted++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	w.logger.Info("load: international sales applied",
		slog.Int("sales", result.SalesUpserted),
		slog.Int("dropped", result.Dropped))
	return result, nil
}

// upsertByName inserts missing natural keys into a surrogate-id dimension.
func (w *Warehouse) upsertByName(ctx context.Context, table, column string, names []string) (int, error) {
	if len(names) == 0 {
		return 0, nil
	}
	inserted := 0
	err := w.withTx(ctx, table, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO `+table+` (`+column+`) VALUES (?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, name := range names {
			res, err := stmt.ExecContext(ctx, name)
			if err != nil {
				return err
			}
			if n, err := res.RowsAffected(); err == nil {
				inserted += int(n)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// nameIDs reads back a natural key → surrogate id lookup.
func (w *Warehouse) nameIDs(ctx context.Context, table, keyColumn, idColumn string) (map[string]int64, error) {
	rows, err := w.db.QueryContext(ctx, `SELECT `+keyColumn+`, `+idColumn+` FROM `+table)
	if err != nil {
		return nil, newLoadError(table+" lookup", err)
	}
	defer rows.Close()

	ids := make(map[string]int64)
	for rows.Next() {
		var name string
		var id int64
		if err := rows.Scan(&name, &id); err != nil {
			return nil, newLoadError(table+" lookup", err)
		}
		ids[name] = id
	}
	if err := rows.Err(); err != nil {
		return nil, newLoadError(table+" lookup", err)
	}
	return ids, nil
}

func customerNames(sales []model.IntlSale) []string {
	names := make([]string, 0, len(sales))
	for _, s := range sales {
		names = append(names, s.Customer)
	}
	return distinctStrings(names)
}

func productSKUs(sales []model.IntlSale) []string {
	skus := make([]string, 0, len(sales))
	for _, s := range sales {
		skus = append(skus, s.SKU)
	}
	return distinctStrings(skus)
}
