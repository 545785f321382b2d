package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"printshop/internal/validate"
)

func TestEmail(t *testing.T) {
	got, ok := validate.Email("  Bold@Example.MN ")
	assert.True(t, ok)
	assert.Equal(t, "bold@example.mn", got)

	for _, bad := range []string{"", "no-at-sign", "a@b", "a b@c.com"} {
		_, ok := validate.Email(bad)
		assert.False(t, ok, bad)
	}
}

func TestPhone(t *testing.T) {
	for _, good := range []string{"99112233", "+976 9911 2233", "7011-2233"} {
		_, ok := validate.Phone(good)
		assert.True(t, ok, good)
	}
	for _, bad := range []string{"", "12", "call me", "+976"} {
		_, ok := validate.Phone(bad)
		assert.False(t, ok, bad)
	}
}

func TestID(t *testing.T) {
	_, ok := validate.ID("6f1c2f7e-8d4b-4a0e-9b1e-3c6d2f9a1b20")
	assert.True(t, ok)
	_, ok = validate.ID("not-an-id")
	assert.False(t, ok)
	_, ok = validate.ID("")
	assert.False(t, ok)
}

func TestPassword(t *testing.T) {
	assert.False(t, validate.Password("short"))
	assert.True(t, validate.Password("longenough"))
}

func TestTextAndQ(t *testing.T) {
	_, ok := validate.Text("   ", 10)
	assert.False(t, ok)
	got, ok := validate.Text(" Хэвлэл ", 10)
	assert.True(t, ok)
	assert.Equal(t, "Хэвлэл", got)

	long := ""
	for i := 0; i < 150; i++ {
		long += "ы"
	}
	assert.Len(t, []rune(validate.Q(long)), 100)
}

func TestQty(t *testing.T) {
	assert.False(t, validate.Qty(0))
	assert.True(t, validate.Qty(2))
	assert.False(t, validate.Qty(validate.MaxQty+1))
}
