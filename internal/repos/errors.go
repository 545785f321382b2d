package repos

import (
	"database/sql"
	"errors"
	"strings"

	perrors "github.com/pkg/errors"

	"printshop/internal/domain"
)

// storeErr translates driver errors into domain errors. what names the
// record for not-found messages ("product", "order").
func storeErr(err error, what, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound(what)
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return domain.Conflict("%s already exists", what)
	}
	if strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return domain.Invalid("%s references a missing or dependent record", what)
	}
	return perrors.Wrap(err, op)
}

// mustAffect reports not-found when an UPDATE/DELETE matched no rows.
func mustAffect(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return perrors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return domain.NotFound(what)
	}
	return nil
}
