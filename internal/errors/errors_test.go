package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsAppErrorCode(t *testing.T) {
	base := InvalidInput("bad percentile")
	wrapped := Wrapf(base, "percentile %d", 120)

	assert.Equal(t, CodeInvalidInput, GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, base))
	assert.Equal(t, "percentile 120: bad percentile", wrapped.Error())
}

func TestWrapPlainErrorIsInternal(t *testing.T) {
	wrapped := Wrap(fmt.Errorf("boom"), "saving report")

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.True(t, IsAppError(wrapped))
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestGetCodeThroughStdlibWrapping(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFound("report"))

	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeInsufficientData, fmt.Errorf("only one segment"))

	assert.Equal(t, CodeInsufficientData, GetCode(err))
	assert.Equal(t, "only one segment: only one segment", err.Error())
}

func TestImportErrorCarriesCause(t *testing.T) {
	cause := fmt.Errorf("row 3: not a number")
	err := ImportError("scores.xlsx", cause)

	assert.Equal(t, CodeImportError, err.Code)
	assert.ErrorIs(t, err, cause)
}
