package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := NotFound("dataset")
	wrapped := Wrap(base, "loading workspace")

	assert.Equal(t, CodeNotFound, GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, base))
	assert.Equal(t, "loading workspace: dataset not found", wrapped.Error())
}

func TestWrapPlainErrorIsInternal(t *testing.T) {
	err := Wrapf(fmt.Errorf("boom"), "step %d", 2)
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestGetCodeSeesThroughFmtWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", InvalidInput("bad name"))
	assert.True(t, IsAppError(err))
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestWithCode(t *testing.T) {
	cause := stderrors.New("no datasets to export")
	err := WithCode(CodeConflict, cause)
	assert.Equal(t, CodeConflict, GetCode(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause.Error(), err.Error())
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(CodeValidationError))
	assert.Equal(t, http.StatusNotImplemented, HTTPStatus(CodeNotImplemented))
	assert.Equal(t, http.StatusPaymentRequired, HTTPStatus(CodePaymentRequired))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus("UNKNOWN"))
}
