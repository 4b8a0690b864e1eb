package repositories

import (
	"context"
	"fmt"

	crdbpgx "github.com/cockroachdb/cockroach-go/v2/crdb/crdbpgxv5"
	"github.com/jackc/pgx/v5"

	"github.com/vidtube/backend/internal/db"
)

// serializable is used for every read-modify-write transaction. Transactions
// aborted by the store with a retryable serialization error are re-run by
// crdbpgx.ExecuteTx, so fn must be safe to execute more than once.
var serializable = pgx.TxOptions{IsoLevel: pgx.Serializable}

func runInTx(ctx context.Context, pool db.Pool, fn func(tx pgx.Tx) error) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return crdbpgx.ExecuteTx(ctx, conn, serializable, fn)
}
