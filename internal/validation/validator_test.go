package validation_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/reelwrapped/reelwrapped-server/internal/errors"
	"github.com/reelwrapped/reelwrapped-server/internal/validation"
)

type TestRequest struct {
	BaseURL string  `json:"base_url" validate:"required,url"`
	Level   string  `json:"level" validate:"required,oneof=debug info warn error"`
	Workers int     `json:"workers" validate:"gte=1,lte=100"`
	RPS     float64 `json:"rps" validate:"gt=0"`
}

func validRequest() TestRequest {
	return TestRequest{
		BaseURL: "https://api.themoviedb.org/3",
		Level:   "info",
		Workers: 20,
		RPS:     20,
	}
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(validRequest())
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name       string
		mutate     func(*TestRequest)
		wantErrMsg string
	}{
		{
			name:       "missing required field",
			mutate:     func(r *TestRequest) { r.BaseURL = "" },
			wantErrMsg: "base_url",
		},
		{
			name:       "invalid url",
			mutate:     func(r *TestRequest) { r.BaseURL = "not a url" },
			wantErrMsg: "base_url",
		},
		{
			name:       "level outside set",
			mutate:     func(r *TestRequest) { r.Level = "trace" },
			wantErrMsg: "level",
		},
		{
			name:       "workers too high",
			mutate:     func(r *TestRequest) { r.Workers = 500 },
			wantErrMsg: "workers",
		},
		{
			name:       "zero rps",
			mutate:     func(r *TestRequest) { r.RPS = 0 },
			wantErrMsg: "rps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := v.Validate(req)
			assert.Error(t, err)

			var domainErr *apperrors.Error
			if assert.True(t, errors.As(err, &domainErr)) {
				assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())
				details, ok := domainErr.Details.(map[string]string)
				if assert.True(t, ok) {
					assert.Contains(t, details, tt.wantErrMsg)
				}
			}
		})
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	req := validRequest()
	req.BaseURL = ""

	err := v.Validate(req)
	assert.Error(t, err)

	var domainErr *apperrors.Error
	assert.True(t, errors.As(err, &domainErr))

	// Should use JSON tag name "base_url", not struct field name "BaseURL"
	details, ok := domainErr.Details.(map[string]string)
	assert.True(t, ok)
	assert.Contains(t, details, "base_url")
	assert.NotContains(t, details, "BaseURL")
}
