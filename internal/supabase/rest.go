package supabase

import (
	"context"
	"net/http"
	"net/url"
)

// Table names for the gateway's collections.
const (
	TableMedicines  = "medicines"
	TableCaregivers = "caregivers"
	TableAlarms     = "alarms"
)

// preferRepresentation asks the REST API to return affected rows, which
// is how callers distinguish "matched nothing" from success.
const preferRepresentation = "return=representation"

// Filters are column filters in the REST API's operator syntax,
// e.g. {"user_id": "eq.<id>"}.
type Filters map[string]string

// Eq builds an equality filter value.
func Eq(value string) string {
	return "eq." + value
}

func (f Filters) apply(query url.Values) {
	for column, condition := range f {
		query.Set(column, condition)
	}
}

// Select fetches all rows matching filters into dest (a pointer to a
// slice), ordered ascending by orderBy when set.
func (c *Client) Select(ctx context.Context, table string, filters Filters, orderBy string, dest any) error {
	query := url.Values{}
	query.Set("select", "*")
	filters.apply(query)
	if orderBy != "" {
		query.Set("order", orderBy+".asc")
	}

	return c.do(ctx, request{
		method: http.MethodGet,
		path:   "/rest/v1/" + table,
		query:  query,
	}, dest)
}

// Insert adds a row and decodes the returned representation (an array
// holding the inserted row) into dest.
func (c *Client) Insert(ctx context.Context, table string, row any, dest any) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/rest/v1/" + table,
		prefer: preferRepresentation,
		body:   row,
	}, dest)
}

// Update patches all rows matching filters with the given column/value
// pairs and decodes the affected rows into dest.
func (c *Client) Update(ctx context.Context, table string, filters Filters, fields map[string]any, dest any) error {
	query := url.Values{}
	filters.apply(query)

	return c.do(ctx, request{
		method: http.MethodPatch,
		path:   "/rest/v1/" + table,
		query:  query,
		prefer: preferRepresentation,
		body:   fields,
	}, dest)
}

// Delete removes all rows matching filters and decodes the deleted rows
// into dest.
func (c *Client) Delete(ctx context.Context, table string, filters Filters, dest any) error {
	query := url.Values{}
	filters.apply(query)

	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/rest/v1/" + table,
		query:  query,
		prefer: preferRepresentation,
	}, dest)
}
