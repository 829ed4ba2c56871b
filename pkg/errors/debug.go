package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Dump renders an error chain with database driver detail expanded,
// intended for logs only. Public responses use Metadata instead.
func Dump(err error) string {
	if err == nil {
		return "<nil>"
	}

	var b strings.Builder
	depth := 0
	for err != nil {
		if depth > 0 {
			b.WriteString(" <- ")
		}
		b.WriteString(describe(err))
		err = stdErrors.Unwrap(err)
		depth++
		if depth > 16 {
			b.WriteString(" <- ...")
			break
		}
	}
	return b.String()
}

func describe(err error) string {
	var pgErr *pgconn.PgError
	if stdErrors.As(err, &pgErr) {
		return fmt.Sprintf("pg[%s] %s (table=%s constraint=%s detail=%s)",
			pgErr.Code, pgErr.Message, pgErr.TableName, pgErr.ConstraintName, pgErr.Detail)
	}

	var pqErr *pq.Error
	if stdErrors.As(err, &pqErr) {
		return fmt.Sprintf("pq[%s] %s (table=%s constraint=%s detail=%s)",
			pqErr.Code, pqErr.Message, pqErr.Table, pqErr.Constraint, pqErr.Detail)
	}

	if typed := As(err); typed != nil && typed == err {
		return fmt.Sprintf("%s: %s", typed.Code(), typed.Message())
	}
	return err.Error()
}
