// Package request decodes and validates HTTP request bodies and query parameters.
package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
)

// ErrEmptyBody is returned by DecodeJSON when the request has no body.
var ErrEmptyBody = errors.New("request body is empty")

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// DecodeJSON decodes JSON from request body into the given value.
// Unknown fields are rejected.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return err
	}
	return nil
}

// Pagination contains pagination parameters.
type Pagination struct {
	Page    int
	PerPage int
}

// DefaultPage is the default page number.
const DefaultPage = 1

// DefaultPerPage is the default items per page.
const DefaultPerPage = 50

// MaxPerPage is the maximum items per page.
const MaxPerPage = 100

// ParsePagination extracts pagination from query parameters.
func ParsePagination(r *http.Request) Pagination {
	page := DefaultPage
	perPage := DefaultPerPage

	if p := r.URL.Query().Get("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if pp := r.URL.Query().Get("per_page"); pp != "" {
		if v, err := strconv.Atoi(pp); err == nil && v > 0 {
			perPage = v
		}
	}

	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	return Pagination{Page: page, PerPage: perPage}
}
