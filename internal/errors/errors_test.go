package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFoundf("book %q not found", "/works/OL1W")

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrValidation))
	assert.Equal(t, `book "/works/OL1W" not found`, err.Error())
}

func TestError_WrappedStillMatches(t *testing.T) {
	err := fmt.Errorf("add review: %w", Validationf("grade %q is not an integer", "A"))

	assert.True(t, Is(err, ErrValidation))

	var domainErr *Error
	assert.True(t, As(err, &domainErr))
	assert.Equal(t, CodeValidation, domainErr.Code)
}

func TestError_CauseIsUnwrapped(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Upstreamf(cause, "search %s", "dune")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "search dune: connection refused", err.Error())
}

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeAlreadyExists, http.StatusConflict},
		{CodeValidation, http.StatusBadRequest},
		{CodeUpstream, http.StatusBadGateway},
		{CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestError_WithDetails(t *testing.T) {
	base := Validation("validation failed")
	detailed := base.WithDetails(map[string]string{"grade": "is invalid"})

	assert.Nil(t, base.Details)
	assert.Equal(t, map[string]string{"grade": "is invalid"}, detailed.Details)
	assert.True(t, Is(detailed, ErrValidation))
}
