package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "moneybot/internal/errors"
	"moneybot/internal/filter"
	"moneybot/internal/middleware"
	"moneybot/internal/pagination"
)

const dateLayout = "2006-01-02"

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// SearchRequest carries a filter expression and a page window in the body.
type SearchRequest struct {
	Filter filter.Expression `json:"filter" swaggertype:"object"`
	pagination.LimitOffset
}

// parsePathID parses a positive int64 path parameter.
// Returns ErrInvalidInput if the parameter is not a valid positive integer.
func parsePathID(c *gin.Context, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// parsePathIDs parses several path parameters in order.
func parsePathIDs(c *gin.Context, params ...string) ([]int64, error) {
	ids := make([]int64, len(params))
	for i, p := range params {
		id, err := parsePathID(c, p)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// bindJSON decodes and validates the request body. Filter errors keep their
// own code; anything else is reported as INVALID_INPUT.
func bindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return asInvalidInput(err)
	}
	return nil
}

// bindListQuery reads limit, offset and an optional JSON "filter" parameter.
func bindListQuery(c *gin.Context) (filter.Expression, pagination.LimitOffset, error) {
	var page pagination.LimitOffset
	if err := c.ShouldBindQuery(&page); err != nil {
		return filter.Expression{}, page, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	page.Defaults()

	var f filter.Expression
	if raw := c.Query("filter"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &f); err != nil {
			return filter.Expression{}, page, asInvalidInput(err)
		}
	}
	return f, page, nil
}

// bindSearch reads a SearchRequest body. An empty body means no filter.
func bindSearch(c *gin.Context) (filter.Expression, pagination.LimitOffset, error) {
	var req SearchRequest
	if c.Request.ContentLength != 0 {
		if err := bindJSON(c, &req); err != nil {
			return filter.Expression{}, req.LimitOffset, err
		}
	}
	req.LimitOffset.Defaults()
	return req.Filter, req.LimitOffset, nil
}

// parseDate parses an optional YYYY-MM-DD date.
func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be YYYY-MM-DD")
	}
	return &t, nil
}

func asInvalidInput(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}

// respondWithError writes a consistent JSON error response.
func respondWithError(c *gin.Context, err error) {
	middleware.WriteError(c, err)
}
