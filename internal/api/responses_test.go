package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbort(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		status int
		label  string
	}{
		{http.StatusBadRequest, "bad_request"},
		{http.StatusPaymentRequired, "payment_required"},
		{http.StatusForbidden, "forbidden"},
		{http.StatusNotFound, "not_found"},
		{http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		Abort(c, tt.status, "nope")

		assert.Equal(t, tt.status, w.Code)
		assert.True(t, c.IsAborted())
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tt.label, body.Error)
		assert.Equal(t, "nope", body.Message)
	}
}
