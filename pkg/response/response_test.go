package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shopdesk/pkg/apperr"
	"github.com/shashiranjanraj/shopdesk/pkg/response"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestFail_Validation(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Fail(rec, apperr.Field("barcode", "The barcode has already been taken."))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "The given data was invalid.", body["message"])
	assert.Equal(t, []any{"The barcode has already been taken."}, body["errors"].(map[string]any)["barcode"])
}

func TestFail_HidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Fail(rec, apperr.Wrap(apperr.SalePostingFailed, "", errors.New("constraint failed: sale_items.product_id")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to create sale", decode(t, rec)["message"])
}

func TestFail_DeniedMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Fail(rec, fmt.Errorf("wrapped: %w", apperr.Denied("Cannot delete shop owner")))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Cannot delete shop owner", decode(t, rec)["message"])
}

func TestMessageMergesExtra(t *testing.T) {
	rec := httptest.NewRecorder()
	response.Message(rec, http.StatusCreated, "Shop created successfully", response.M{"shop": response.M{"id": 1}})

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Shop created successfully", body["message"])
	assert.Contains(t, body, "shop")
}
