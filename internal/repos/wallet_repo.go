package repos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"printshop/internal/domain"
)

const walletTxCols = `id,user_id,type,method,amount,balance_after,reference,status,created_at,updated_at`

// WalletRepo owns account balances and the ledger that explains them.
type WalletRepo struct{ db *sqlx.DB }

func NewWalletRepo(db *sqlx.DB) *WalletRepo { return &WalletRepo{db: db} }

func (r *WalletRepo) DB() *sqlx.DB { return r.db }

func (r *WalletRepo) Balance(ctx context.Context, q sqlx.QueryerContext, userID string) (decimal.Decimal, error) {
	var bal decimal.Decimal
	if err := sqlx.GetContext(ctx, q, &bal, `SELECT balance FROM users WHERE id = ?`, userID); err != nil {
		return decimal.Zero, storeErr(err, "user", "wallet: balance")
	}
	return bal, nil
}

// Debit subtracts amount only when the balance covers it, so two concurrent
// debits can never drive the balance negative.
func (r *WalletRepo) Debit(ctx context.Context, tx *sqlx.Tx, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE users SET balance = balance - ?, updated_at = ?
		WHERE id = ? AND balance >= ?`,
		amount, now(), userID, amount)
	if err != nil {
		return decimal.Zero, storeErr(err, "user", "wallet: debit")
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		if _, err := r.Balance(ctx, tx, userID); err != nil {
			return decimal.Zero, err
		}
		return decimal.Zero, domain.ErrInsufficientBalance
	}
	return r.Balance(ctx, tx, userID)
}

func (r *WalletRepo) Credit(ctx context.Context, tx *sqlx.Tx, userID string, amount decimal.Decimal) (decimal.Decimal, error) {
	res, err := tx.ExecContext(ctx, `UPDATE users SET balance = balance + ?, updated_at = ? WHERE id = ?`,
		amount, now(), userID)
	if err != nil {
		return decimal.Zero, storeErr(err, "user", "wallet: credit")
	}
	if err := mustAffect(res, "user"); err != nil {
		return decimal.Zero, err
	}
	return r.Balance(ctx, tx, userID)
}

func (r *WalletRepo) InsertTx(ctx context.Context, ex sqlx.ExecerContext, t *domain.WalletTransaction) error {
	ts := now()
	t.CreatedAt, t.UpdatedAt = ts, ts
	_, err := ex.ExecContext(ctx, `INSERT INTO wallet_transactions(`+walletTxCols+`) VALUES(?,?,?,?,?,?,?,?,?,?)`,
		t.ID, t.UserID, t.Type, t.Method, t.Amount, t.BalanceAfter, t.Reference, t.Status, t.CreatedAt, t.UpdatedAt)
	return storeErr(err, "wallet transaction", "wallet: insert tx")
}

// CompletePending marks a pending entry completed. False means another
// caller already settled it.
func (r *WalletRepo) CompletePending(ctx context.Context, tx *sqlx.Tx, id string, balanceAfter decimal.Decimal) (bool, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE wallet_transactions SET status=?, balance_after=?, updated_at=?
		WHERE id=? AND status=?`,
		domain.TxCompleted, balanceAfter, now(), id, domain.TxPending)
	if err != nil {
		return false, storeErr(err, "wallet transaction", "wallet: complete")
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *WalletRepo) ByReference(ctx context.Context, userID, reference string) (*domain.WalletTransaction, error) {
	var t domain.WalletTransaction
	err := r.db.GetContext(ctx, &t, `
		SELECT `+walletTxCols+` FROM wallet_transactions
		WHERE user_id=? AND reference=?
		ORDER BY created_at DESC LIMIT 1`, userID, reference)
	if err != nil {
		return nil, storeErr(err, "wallet transaction", "wallet: by reference")
	}
	return &t, nil
}

// TopupByReference finds the top-up entry opened for a gateway invoice.
func (r *WalletRepo) TopupByReference(ctx context.Context, reference string) (*domain.WalletTransaction, error) {
	var t domain.WalletTransaction
	err := r.db.GetContext(ctx, &t, `
		SELECT `+walletTxCols+` FROM wallet_transactions
		WHERE type=? AND reference=?
		ORDER BY created_at DESC LIMIT 1`, domain.TxTopup, reference)
	if err != nil {
		return nil, storeErr(err, "wallet transaction", "wallet: topup by reference")
	}
	return &t, nil
}

func (r *WalletRepo) List(ctx context.Context, userID string, p Page) ([]domain.WalletTransaction, int, error) {
	p = p.Normalize()
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM wallet_transactions WHERE user_id=?`, userID); err != nil {
		return nil, 0, storeErr(err, "wallet transaction", "wallet: count")
	}
	out := []domain.WalletTransaction{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT `+walletTxCols+` FROM wallet_transactions
		WHERE user_id=?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?`, userID, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, storeErr(err, "wallet transaction", "wallet: list")
	}
	return out, total, nil
}
