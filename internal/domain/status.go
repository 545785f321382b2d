package domain

import "fmt"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderPaid       OrderStatus = "paid"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderPaid, OrderCancelled},
	OrderPaid:       {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderCompleted, OrderCancelled},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPaid, OrderProcessing, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

func (s OrderStatus) CanMoveTo(next OrderStatus) bool { return allowed(orderTransitions, s, next) }

type QuotationStatus string

const (
	QuotationPending   QuotationStatus = "pending"
	QuotationReplied   QuotationStatus = "replied"
	QuotationCompleted QuotationStatus = "completed"
	QuotationCancelled QuotationStatus = "cancelled"
)

// replied -> replied lets an admin revise a reply.
var quotationTransitions = map[QuotationStatus][]QuotationStatus{
	QuotationPending: {QuotationReplied, QuotationCancelled},
	QuotationReplied: {QuotationReplied, QuotationCompleted, QuotationCancelled},
}

func (s QuotationStatus) Valid() bool {
	switch s {
	case QuotationPending, QuotationReplied, QuotationCompleted, QuotationCancelled:
		return true
	}
	return false
}

func (s QuotationStatus) CanMoveTo(next QuotationStatus) bool {
	return allowed(quotationTransitions, s, next)
}

type BlogStatus string

const (
	BlogDraft     BlogStatus = "draft"
	BlogPublished BlogStatus = "published"
	BlogArchived  BlogStatus = "archived"
)

var blogTransitions = map[BlogStatus][]BlogStatus{
	BlogDraft:     {BlogPublished, BlogArchived},
	BlogPublished: {BlogDraft, BlogArchived},
	BlogArchived:  {BlogDraft},
}

func (s BlogStatus) Valid() bool {
	return s == BlogDraft || s == BlogPublished || s == BlogArchived
}

func (s BlogStatus) CanMoveTo(next BlogStatus) bool { return allowed(blogTransitions, s, next) }

type MessageStatus string

const (
	MessageNew      MessageStatus = "new"
	MessageRead     MessageStatus = "read"
	MessageReplied  MessageStatus = "replied"
	MessageArchived MessageStatus = "archived"
)

var messageTransitions = map[MessageStatus][]MessageStatus{
	MessageNew:     {MessageRead, MessageReplied, MessageArchived},
	MessageRead:    {MessageReplied, MessageArchived},
	MessageReplied: {MessageArchived},
}

func (s MessageStatus) Valid() bool {
	switch s {
	case MessageNew, MessageRead, MessageReplied, MessageArchived:
		return true
	}
	return false
}

func (s MessageStatus) CanMoveTo(next MessageStatus) bool {
	return allowed(messageTransitions, s, next)
}

func allowed[S comparable](table map[S][]S, from, to S) bool {
	for _, s := range table[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ErrTransition is returned when a status change is not in the table.
func ErrTransition[S ~string](from, to S) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf("invalid status transition from %s to %s", from, to)}
}
