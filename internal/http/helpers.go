package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eprocure/lookups/internal/options"
)

// --- Response Types ---

// MessageResponse is the envelope used for plain acknowledgements and for
// every error.
type MessageResponse struct {
	Message   string `json:"message"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// PaginatedResponse wraps paginated data with metadata.
type PaginatedResponse struct {
	Data       any   `json:"data"`
	Total      int64 `json:"total"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	HasMore    bool  `json:"has_more"`
	TotalPages int   `json:"total_pages,omitempty"`
}

const statusOK = "OK"

func newMessage(status int, message string) MessageResponse {
	text := statusOK
	if status >= http.StatusBadRequest {
		text = http.StatusText(status)
	}
	return MessageResponse{
		Message:   message,
		Status:    text,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// --- Error Response Helpers ---

// respondError sends the envelope with the given status code.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, newMessage(status, message))
}

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, message)
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	respondError(c, http.StatusNotFound, resource+" not found")
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	respondError(c, http.StatusInternalServerError, "internal server error")
}

// respondServiceError maps an options error to its HTTP status.
func respondServiceError(c *gin.Context, err error, context string) {
	switch {
	case !options.IsClientError(err):
		respondInternalError(c, err, context)
	case errors.Is(err, options.ErrNullArgument), errors.Is(err, options.ErrInvalidArgument):
		respondBadRequest(c, err.Error())
	case errors.Is(err, options.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	default: // options.ErrAlreadyExists
		respondError(c, http.StatusConflict, err.Error())
	}
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK envelope.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, newMessage(http.StatusOK, message))
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, data any) {
	c.JSON(http.StatusAccepted, data)
}

// --- Parameter Parsing ---

// queryList collects a list parameter given either repeated (?id=a&id=b) or
// comma separated (?id=a,b). Empty elements are kept so the service can
// reject them.
func queryList(c *gin.Context, names ...string) []string {
	var out []string
	for _, name := range names {
		for _, v := range c.QueryArray(name) {
			for _, part := range strings.Split(v, ",") {
				out = append(out, strings.TrimSpace(part))
			}
		}
	}
	return out
}

// parsePage reads page/limit query parameters and returns limit and offset.
func parsePage(c *gin.Context, defaultLimit, maxLimit int) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	return page, limit, (page - 1) * limit
}

func clientMeta(c *gin.Context) (ip, userAgent string) {
	return c.ClientIP(), c.Request.UserAgent()
}
