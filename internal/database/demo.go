package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ProductRead is one observation of a product row during the demonstration.
type ProductRead struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// ReadDemoReport describes the outcome of the non-repeatable-read
// demonstration: the same row read twice inside one transaction, with a
// second session committing a price change in between.
type ReadDemoReport struct {
	Level      Level       `json:"level"`
	First      ProductRead `json:"first"`
	Second     ProductRead `json:"second"`
	Repeatable bool        `json:"repeatable"`
}

const demoReadQuery = `SELECT name, price FROM products WHERE product_id = $1`

// RunReadDemo demonstrates how the isolation level governs repeated reads.
// The reader session applies the requested level and opens a transaction; the
// writer session, on its own connection, commits a price bump between the
// reader's two reads of the product. Under REPEATABLE READ and SERIALIZABLE
// both reads must match; under the lower levels the second read may observe
// the committed change. The original price is restored afterwards.
func RunReadDemo(ctx context.Context, reader, writer *Conn, productID int64, level Level) (ReadDemoReport, error) {
	if err := reader.Isolation().SetLevel(ctx, level); err != nil {
		return ReadDemoReport{}, err
	}

	report := ReadDemoReport{Level: reader.Isolation().CurrentLevel()}
	bumped := false

	err := reader.WithTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, demoReadQuery, productID).
			Scan(&report.First.Name, &report.First.Price); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("demo product %d not found", productID)
			}
			return err
		}

		// Concurrent committed write from the second session.
		err := writer.WithConn(ctx, func(conn *pgx.Conn) error {
			_, err := conn.Exec(ctx,
				`UPDATE products SET price = price + 1 WHERE product_id = $1`, productID)
			return err
		})
		if err != nil {
			return err
		}
		bumped = true

		return tx.QueryRow(ctx, demoReadQuery, productID).
			Scan(&report.Second.Name, &report.Second.Price)
	})

	// The writer's bump committed independently of the reader transaction, so
	// restore the original price even when the reader failed afterwards.
	if bumped {
		restoreErr := writer.WithConn(ctx, func(conn *pgx.Conn) error {
			_, err := conn.Exec(ctx,
				`UPDATE products SET price = $1 WHERE product_id = $2`, report.First.Price, productID)
			return err
		})
		if err == nil {
			err = restoreErr
		}
	}
	if err != nil {
		return ReadDemoReport{}, err
	}

	report.Repeatable = report.First.Name == report.Second.Name &&
		report.First.Price.Equal(report.Second.Price)
	return report, nil
}
