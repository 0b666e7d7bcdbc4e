package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfUnwrapsChain(t *testing.T) {
	base := NotFound("product %d missing", 7)
	wrapped := fmt.Errorf("load cart: %w", base)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindNotFound))
	assert.False(t, Is(wrapped, KindDuplicate))
	assert.Equal(t, "product 7 missing", base.Error())
}

func TestKindOfPlainErrorIsInternal(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.False(t, Is(nil, KindInternal))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("unique violation")
	err := Wrap(KindDuplicate, cause, "sku already exists")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "sku already exists", err.Error())
	assert.Equal(t, "duplicate", err.Kind.String())
}

func TestResourceNotFoundMessage(t *testing.T) {
	err := ResourceNotFound("Category", "id", 12)
	assert.Equal(t, "Category not found with id: 12", err.Error())
}
