package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"referraldesk/internal/apperrors"
)

func TestCodeOf(t *testing.T) {
	direct := apperrors.New(apperrors.CodeDuplicate, "already there")
	assert.Equal(t, apperrors.CodeDuplicate, apperrors.CodeOf(direct))

	wrapped := fmt.Errorf("handler: %w", apperrors.New(apperrors.CodeNotFound, "gone"))
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(wrapped))

	raw := errors.New("connection refused")
	assert.Equal(t, apperrors.CodeGateway, apperrors.CodeOf(raw))
	assert.Equal(t, apperrors.CodeGateway, apperrors.CodeOf(nil))
}

func TestIsMatchesByCode(t *testing.T) {
	err := apperrors.Wrap(apperrors.CodePartialWorkflow, "deal created but lead update failed", errors.New("boom"))
	assert.True(t, errors.Is(err, &apperrors.Error{Code: apperrors.CodePartialWorkflow}))
	assert.False(t, errors.Is(err, &apperrors.Error{Code: apperrors.CodeValidation}))
}

func TestErrorStringIncludesCause(t *testing.T) {
	cause := errors.New("timeout")
	err := apperrors.Wrap(apperrors.CodeGateway, "create lead", cause)
	assert.Equal(t, "create lead: timeout", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))
}
