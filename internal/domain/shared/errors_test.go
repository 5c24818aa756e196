package shared

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(ErrDocNotDraft, "DOC_NOT_DRAFT"))
	assert.False(t, IsCode(ErrDocNotDraft, "DOC_NOT_FOUND"))
	assert.False(t, IsCode(nil, "DOC_NOT_DRAFT"))
	assert.False(t, IsCode(fmt.Errorf("plain"), "DOC_NOT_DRAFT"))

	// Wrapped domain errors still match their code.
	wrapped := fmt.Errorf("close doc: %w", ErrHuNotUsable)
	assert.True(t, IsCode(wrapped, "HU_NOT_USABLE"))
	assert.False(t, IsCode(wrapped, "DOC_NOT_DRAFT"))
}
