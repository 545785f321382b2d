package services_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printshop/internal/domain"
	"printshop/internal/repos"
	"printshop/internal/services"
)

func quoteInput() services.QuotationInput {
	return services.QuotationInput{
		Name:        "Saraa",
		Email:       "saraa@example.com",
		Phone:       "+976 88112233",
		ServiceType: "Offset printing",
		Quantity:    500,
		Description: "Tri-fold brochure, full colour both sides",
		Deadline:    "2026-12-01",
	}
}

// designUpload builds a multipart file header the way fiber hands it to handlers.
func designUpload(t *testing.T, name, mime string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="designFile"; filename="`+name+`"`)
	h.Set("Content-Type", mime)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["designFile"][0]
}

func TestSubmitQuotationWithoutFile(t *testing.T) {
	e := newEnv(t)
	u := e.account(t, 0, domain.RoleUser)

	q, err := e.quotes.Submit(context.Background(), u, quoteInput(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationPending, q.Status)
	assert.Nil(t, q.DesignFile.FileMeta)
	require.NotNil(t, q.Deadline)

	got, err := e.quotes.Get(context.Background(), q.ID, u)
	require.NoError(t, err)
	assert.Nil(t, got.DesignFile.FileMeta)
	assert.Nil(t, got.AdminReply.AdminReply)
	assert.Equal(t, 500, got.Quantity)
}

func TestSubmitQuotationWithDesignFile(t *testing.T) {
	e := newEnv(t)
	u := e.account(t, 0, domain.RoleUser)

	fh := designUpload(t, "brochure.pdf", "application/pdf", []byte("%PDF-1.4 test"))
	q, err := e.quotes.Submit(context.Background(), u, quoteInput(), fh)
	require.NoError(t, err)
	require.NotNil(t, q.DesignFile.FileMeta)
	assert.Equal(t, "brochure.pdf", q.DesignFile.OriginalName)
	assert.Equal(t, "application/pdf", q.DesignFile.MimeType)
	assert.Regexp(t, `^/uploads/designs/.+\.pdf$`, q.DesignFile.URL)

	bad := designUpload(t, "run.exe", "application/x-msdownload", []byte("MZ"))
	_, err = e.quotes.Submit(context.Background(), u, quoteInput(), bad)
	assert.Equal(t, domain.KindValidation, kindOf(t, err))
}

func TestSubmitQuotationValidation(t *testing.T) {
	e := newEnv(t)
	in := quoteInput()
	in.Quantity = 0
	_, err := e.quotes.Submit(context.Background(), nil, in, nil)
	assert.Equal(t, domain.KindValidation, kindOf(t, err))

	in = quoteInput()
	in.Deadline = "next friday"
	_, err = e.quotes.Submit(context.Background(), nil, in, nil)
	assert.Equal(t, domain.KindValidation, kindOf(t, err))
}

func TestAdminReplyVisibleToOwner(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.account(t, 0, domain.RoleUser)
	admin := e.account(t, 0, domain.RoleAdmin)

	q, err := e.quotes.Submit(ctx, u, quoteInput(), nil)
	require.NoError(t, err)

	for _, price := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err = e.quotes.Reply(ctx, q.ID, admin, services.ReplyInput{Message: "Free of charge", Price: price})
		assert.Equal(t, domain.KindValidation, kindOf(t, err), "price %s", price)
	}
	pending, err := e.quotes.Get(ctx, q.ID, u)
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationPending, pending.Status)
	assert.Nil(t, pending.AdminReply.AdminReply)

	replied, err := e.quotes.Reply(ctx, q.ID, admin, services.ReplyInput{Message: "We can do it in 5 days", Price: decimal.NewFromInt(350000)})
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationReplied, replied.Status)

	seen, err := e.quotes.Get(ctx, q.ID, u)
	require.NoError(t, err)
	require.NotNil(t, seen.AdminReply.AdminReply)
	assert.Equal(t, "We can do it in 5 days", seen.AdminReply.Message)
	assert.True(t, decimal.NewFromInt(350000).Equal(seen.AdminReply.Price))
	assert.Equal(t, admin.ID, seen.AdminReply.RepliedBy)
	assert.False(t, seen.AdminReply.RepliedAt.IsZero())

	mine, total, err := e.quotes.ListMine(ctx, u.ID, repos.Page{})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, domain.QuotationReplied, mine[0].Status)

	// revising the reply keeps it replied
	_, err = e.quotes.Reply(ctx, q.ID, admin, services.ReplyInput{Message: "Updated price", Price: decimal.NewFromInt(320000)})
	require.NoError(t, err)

	done, err := e.quotes.UpdateStatus(ctx, q.ID, admin, domain.QuotationCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationCompleted, done.Status)

	_, err = e.quotes.Reply(ctx, q.ID, admin, services.ReplyInput{Message: "too late", Price: decimal.NewFromInt(1)})
	assert.Equal(t, domain.KindValidation, kindOf(t, err))
}

func TestQuotationOwnerMayOnlyCancelPending(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.account(t, 0, domain.RoleUser)
	other := e.account(t, 0, domain.RoleUser)

	q, err := e.quotes.Submit(ctx, u, quoteInput(), nil)
	require.NoError(t, err)

	_, err = e.quotes.Get(ctx, q.ID, other)
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	_, err = e.quotes.UpdateStatus(ctx, q.ID, u, domain.QuotationCompleted)
	assert.Equal(t, domain.KindForbidden, kindOf(t, err))

	got, err := e.quotes.UpdateStatus(ctx, q.ID, u, domain.QuotationCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.QuotationCancelled, got.Status)
}
