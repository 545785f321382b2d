package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderTransitions(t *testing.T) {
	ok := [][2]OrderStatus{
		{OrderPending, OrderPaid},
		{OrderPending, OrderCancelled},
		{OrderPaid, OrderProcessing},
		{OrderPaid, OrderCancelled},
		{OrderProcessing, OrderCompleted},
		{OrderProcessing, OrderCancelled},
	}
	for _, tr := range ok {
		assert.True(t, tr[0].CanMoveTo(tr[1]), "%s -> %s", tr[0], tr[1])
	}
	bad := [][2]OrderStatus{
		{OrderPending, OrderCompleted},
		{OrderPaid, OrderPending},
		{OrderCompleted, OrderCancelled},
		{OrderCancelled, OrderPending},
		{OrderPending, OrderPending},
	}
	for _, tr := range bad {
		assert.False(t, tr[0].CanMoveTo(tr[1]), "%s -> %s", tr[0], tr[1])
	}
	assert.False(t, OrderStatus("shipped").Valid())
}

func TestQuotationReplyCanBeRevised(t *testing.T) {
	assert.True(t, QuotationReplied.CanMoveTo(QuotationReplied))
	assert.False(t, QuotationPending.CanMoveTo(QuotationCompleted))
	assert.False(t, QuotationCancelled.CanMoveTo(QuotationPending))
}

func TestBlogAndMessageTransitions(t *testing.T) {
	assert.True(t, BlogArchived.CanMoveTo(BlogDraft))
	assert.False(t, BlogArchived.CanMoveTo(BlogPublished))
	assert.True(t, MessageNew.CanMoveTo(MessageReplied))
	assert.False(t, MessageReplied.CanMoveTo(MessageRead))
	assert.False(t, MessageArchived.CanMoveTo(MessageNew))
}

func TestErrorKinds(t *testing.T) {
	err := ErrTransition(OrderCompleted, OrderPending)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, "invalid status transition from completed to pending", err.Error())

	wrapped := fmt.Errorf("placing order: %w", ErrInsufficientBalance)
	assert.Equal(t, KindValidation, KindOf(wrapped))
	assert.True(t, IsNotFound(NotFound("order")))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))

	gw := Gateway("payment provider unavailable", errors.New("dial tcp: refused"))
	assert.Equal(t, KindGateway, KindOf(gw))
	assert.Equal(t, "payment provider unavailable", gw.(*Error).Message)
}
