package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printshop/internal/domain"
	"printshop/internal/gateway/qpay"
	"printshop/internal/repos"
	"printshop/internal/services"
)

func TestTopupCreditsAndRecords(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.account(t, 1000, domain.RoleUser)

	tx, err := e.wallet.Topup(ctx, u.ID, decimal.NewFromInt(25000))
	require.NoError(t, err)
	assert.Equal(t, domain.TxCompleted, tx.Status)
	assert.Equal(t, services.MethodManual, tx.Method)
	assert.True(t, decimal.NewFromInt(26000).Equal(tx.BalanceAfter))
	assert.True(t, decimal.NewFromInt(26000).Equal(e.balance(t, u.ID)))

	list, total, err := e.wallet.Transactions(ctx, u.ID, repos.Page{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, tx.ID, list[0].ID)
}

func TestTopupBounds(t *testing.T) {
	e := newEnv(t)
	u := e.account(t, 0, domain.RoleUser)
	for _, amt := range []int64{0, -5, 10_000_001} {
		_, err := e.wallet.Topup(context.Background(), u.ID, decimal.NewFromInt(amt))
		assert.Equal(t, domain.KindValidation, kindOf(t, err), "amount %d", amt)
	}
	_, err := e.wallet.Topup(context.Background(), u.ID, decimal.NewFromInt(10_000_000))
	require.NoError(t, err)
}

func TestQPayTopupCreditsOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.account(t, 0, domain.RoleUser)

	inv, err := e.wallet.TopupQPay(ctx, u.ID, decimal.NewFromInt(30000))
	require.NoError(t, err)
	assert.Equal(t, domain.TxPending, inv.Transaction.Status)
	assert.True(t, e.balance(t, u.ID).IsZero())

	tx, err := e.wallet.CheckTopup(ctx, u.ID, inv.InvoiceID)
	require.NoError(t, err)
	assert.Equal(t, domain.TxPending, tx.Status)

	e.gw.markPaid(inv.InvoiceID, "pay-topup")
	for i := 0; i < 2; i++ {
		tx, err = e.wallet.CheckTopup(ctx, u.ID, inv.InvoiceID)
		require.NoError(t, err)
		assert.Equal(t, domain.TxCompleted, tx.Status)
	}
	assert.True(t, decimal.NewFromInt(30000).Equal(e.balance(t, u.ID)))
	assert.True(t, decimal.NewFromInt(30000).Equal(tx.BalanceAfter))

	// a late callback for the same invoice changes nothing
	body := callbackBody(t, inv.InvoiceID, qpay.StatusPaid)
	res, err := e.payments.HandleCallback(ctx, body, qpay.Sign(callbackSecret, body))
	require.NoError(t, err)
	assert.Equal(t, tx.ID, res.TopupID)
	assert.True(t, decimal.NewFromInt(30000).Equal(e.balance(t, u.ID)))
}

func TestQPayTopupSettledByCallback(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.account(t, 500, domain.RoleUser)

	inv, err := e.wallet.TopupQPay(ctx, u.ID, decimal.NewFromInt(2000))
	require.NoError(t, err)

	body := callbackBody(t, inv.InvoiceID, qpay.StatusPaid)
	res, err := e.payments.HandleCallback(ctx, body, qpay.Sign(callbackSecret, body))
	require.NoError(t, err)
	assert.True(t, res.Paid)
	assert.True(t, decimal.NewFromInt(2500).Equal(e.balance(t, u.ID)))
}

func TestCheckTopupOfOtherAccount(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := e.account(t, 0, domain.RoleUser)
	other := e.account(t, 0, domain.RoleUser)

	inv, err := e.wallet.TopupQPay(ctx, owner.ID, decimal.NewFromInt(1000))
	require.NoError(t, err)
	_, err = e.wallet.CheckTopup(ctx, other.ID, inv.InvoiceID)
	assert.Equal(t, domain.KindNotFound, kindOf(t, err))
}
