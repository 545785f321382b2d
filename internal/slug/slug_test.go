package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"printshop/internal/slug"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Business Cards":           "business-cards",
		"  Roll-up banner 85x200 ": "roll-up-banner-85x200",
		"A5 Flyer & Poster":        "a5-flyer-and-poster",
	}
	for in, want := range cases {
		assert.Equal(t, want, slug.Make(in), in)
	}
}

func TestMakeIsDeterministic(t *testing.T) {
	assert.Equal(t, slug.Make("Нэрийн хуудас"), slug.Make("Нэрийн хуудас"))
	assert.True(t, slug.Valid(slug.Make("Өнгөт хэвлэл")))
}

func TestValid(t *testing.T) {
	assert.True(t, slug.Valid("business-cards"))
	assert.False(t, slug.Valid(""))
	assert.False(t, slug.Valid("Not A Slug"))
}
