package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/readingroom/bookclub/internal/errors"
	"github.com/readingroom/bookclub/internal/validation"
)

type reviewForm struct {
	BookID   string `json:"book_id" validate:"required,workkey"`
	Reviewer string `json:"reviewer" validate:"required"`
	Grade    int    `json:"grade" validate:"gte=1,lte=15"`
	Date     string `json:"review_date" validate:"omitempty,isodate"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(reviewForm{
		BookID:   "/works/OL45804W",
		Reviewer: "Arne",
		Grade:    12,
		Date:     "2025-03-14",
	})
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		form      reviewForm
		wantField string
	}{
		{
			name:      "missing reviewer",
			form:      reviewForm{BookID: "/works/OL1W", Grade: 5},
			wantField: "reviewer",
		},
		{
			name:      "bare work id",
			form:      reviewForm{BookID: "OL1W", Reviewer: "Arne", Grade: 5},
			wantField: "book_id",
		},
		{
			name:      "grade above scale",
			form:      reviewForm{BookID: "/works/OL1W", Reviewer: "Arne", Grade: 16},
			wantField: "grade",
		},
		{
			name:      "grade zero",
			form:      reviewForm{BookID: "/works/OL1W", Reviewer: "Arne", Grade: 0},
			wantField: "grade",
		},
		{
			name:      "placeholder date",
			form:      reviewForm{BookID: "/works/OL1W", Reviewer: "Arne", Grade: 5, Date: "YYYY-MM-DD"},
			wantField: "review_date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.form)
			require.Error(t, err)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tt.wantField)
		})
	}
}

func TestIsWorkKey(t *testing.T) {
	assert.True(t, validation.IsWorkKey("/works/OL45804W"))
	assert.False(t, validation.IsWorkKey("OL45804W"))
	assert.False(t, validation.IsWorkKey("/books/OL1M"))
}
