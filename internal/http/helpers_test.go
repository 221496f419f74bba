package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eprocure/lookups/internal/options"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) MessageResponse {
	t.Helper()
	var msg MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	return msg
}

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		text   string
	}{
		{"null argument", fmt.Errorf("x: %w", options.ErrNullArgument), http.StatusBadRequest, "Bad Request"},
		{"invalid argument", fmt.Errorf("x: %w", options.ErrInvalidArgument), http.StatusBadRequest, "Bad Request"},
		{"not found", fmt.Errorf("x: %w", options.ErrNotFound), http.StatusNotFound, "Not Found"},
		{"already exists", fmt.Errorf("x: %w", options.ErrAlreadyExists), http.StatusConflict, "Conflict"},
		{"infrastructure", errors.New("disk I/O error"), http.StatusInternalServerError, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondServiceError(c, tt.err, "test")

			assert.Equal(t, tt.status, w.Code)
			msg := decodeMessage(t, w)
			assert.Equal(t, tt.text, msg.Status)
			assert.NotEmpty(t, msg.Timestamp)
		})
	}
}

func TestRespondInternalError_HidesCause(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondInternalError(c, errors.New("password=secret"), "test")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestRespondSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondSuccess(c, "done")

	assert.Equal(t, http.StatusOK, w.Code)
	msg := decodeMessage(t, w)
	assert.Equal(t, "done", msg.Message)
	assert.Equal(t, "OK", msg.Status)
}

func TestQueryList(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"repeated", "/?idList=a&idList=b", []string{"a", "b"}},
		{"comma separated", "/?idList=a,b,c", []string{"a", "b", "c"}},
		{"mixed", "/?idList=a,b&idList=c", []string{"a", "b", "c"}},
		{"empty element kept", "/?idList=a,,b", []string{"a", "", "b"}},
		{"snake case alias", "/?id_list=x", []string{"x"}},
		{"absent", "/", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", tt.query, nil)

			assert.Equal(t, tt.want, queryList(c, "idList", "id_list"))
		})
	}
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"explicit", "/?page=3&limit=10", 3, 10, 20},
		{"out of range falls back", "/?page=-1&limit=1000", 1, 25, 0},
		{"defaults", "/", 1, 25, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", tt.query, nil)

			page, limit, offset := parsePage(c, 25, 100)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}
