package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeSimParamsInvalid, "growth rate must be positive")
	assert.Equal(t, ErrCodeSimParamsInvalid, err.Code)
	assert.Contains(t, err.Error(), "SIM_001")
	assert.Contains(t, err.Error(), "growth rate must be positive")
	assert.NotEmpty(t, err.Stack)
}

func TestErrorFormat_WithDetail(t *testing.T) {
	err := New(ErrCodeNotFound, "species not found").WithDetail("species=panthera_onca")
	assert.Equal(t, "[COMMON_003] species not found: species=panthera_onca", err.Error())
}

func TestWrap(t *testing.T) {
	t.Run("NilPassthrough", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, ErrCodeCacheError, "ignored"))
	})

	t.Run("WrapsCause", func(t *testing.T) {
		cause := fmt.Errorf("connection refused")
		err := Wrap(cause, ErrCodeCacheError, "cache read failed")
		assert.Equal(t, ErrCodeCacheError, err.Code)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("PreservesCodeOnUnknown", func(t *testing.T) {
		inner := New(ErrCodeTreeBuildFailed, "empty input")
		err := Wrap(inner, CodeUnknown, "phylogenetic analysis failed")
		assert.Equal(t, ErrCodeTreeBuildFailed, err.Code)
	})
}

func TestIsCode(t *testing.T) {
	inner := New(ErrCodeSequenceInvalid, "non-ACGT symbol")
	outer := Wrap(inner, ErrCodeInternal, "diversity computation failed")
	assert.True(t, IsCode(outer, ErrCodeSequenceInvalid))
	assert.True(t, IsCode(outer, ErrCodeInternal))
	assert.False(t, IsCode(outer, ErrCodeNotFound))
	assert.False(t, IsCode(nil, ErrCodeInternal))
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(InvalidParam("bad")))
	assert.True(t, IsValidation(New(ErrCodeValidation, "bad")))
	assert.False(t, IsValidation(Internal("boom")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(fmt.Errorf("plain")))
	assert.Equal(t, ErrCodeSimFailed, GetCode(New(ErrCodeSimFailed, "x")))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, 400, ErrCodeBadRequest.HTTPStatus())
	assert.Equal(t, 404, ErrCodeNotFound.HTTPStatus())
	assert.Equal(t, 500, ErrorCode("NOPE").HTTPStatus())
}
