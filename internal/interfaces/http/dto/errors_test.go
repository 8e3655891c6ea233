package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/flockbooks/backend/internal/domain/accounting"
	"github.com/flockbooks/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidJSON, http.StatusBadRequest},
		{ErrCodeRouteNotFound, http.StatusNotFound},
		{shared.ErrNotFound.Code, http.StatusNotFound},
		{shared.ErrAlreadyExists.Code, http.StatusConflict},
		{shared.ErrConcurrencyConflict.Code, http.StatusConflict},
		{shared.ErrInvalidInput.Code, http.StatusBadRequest},
		{accounting.ErrGroupNotFound.Code, http.StatusNotFound},
		{accounting.ErrGroupInactive.Code, http.StatusUnprocessableEntity},
		{accounting.ErrCircularReference.Code, http.StatusUnprocessableEntity},
		{accounting.ErrInvalidParent.Code, http.StatusUnprocessableEntity},
		{accounting.ErrPredefinedGroup.Code, http.StatusUnprocessableEntity},
		{accounting.ErrGroupNotEmpty.Code, http.StatusUnprocessableEntity},
		{accounting.ErrInvalidBalanceType.Code, http.StatusBadRequest},
		{accounting.ErrNegativeAmount.Code, http.StatusBadRequest},
		{accounting.ErrInvalidAccountKind.Code, http.StatusBadRequest},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID("GROUP_NOT_FOUND", "Group not found", "req-1")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "GROUP_NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "req-1", resp.Error.RequestID)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"data"`)
	assert.NotContains(t, string(raw), `"details"`)
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Request validation failed", "", []ValidationDetail{
		{Field: "name", Message: "This field is required"},
	})

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "name", resp.Error.Details[0].Field)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a"}, 41, 2, 20)

	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	empty := NewSuccessResponseWithMeta(nil, 0, 1, 0)
	assert.Equal(t, 0, empty.Meta.TotalPages)
}
