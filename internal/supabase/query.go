package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"
)

// Query builds a PostgREST table request.
type Query struct {
	c      *Client
	table  string
	params url.Values
}

func (c *Client) From(table string) *Query {
	return &Query{c: c, table: table, params: url.Values{}}
}

func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

func (q *Query) Eq(column string, value any) *Query {
	q.params.Add(column, fmt.Sprintf("eq.%v", value))
	return q
}

func (q *Query) Neq(column string, value any) *Query {
	q.params.Add(column, fmt.Sprintf("neq.%v", value))
	return q
}

// Order appends a sort key; call it again for secondary keys.
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "asc"
	if !ascending {
		dir = "desc"
	}
	key := column + "." + dir
	if cur := q.params.Get("order"); cur != "" {
		key = cur + "," + key
	}
	q.params.Set("order", key)
	return q
}

func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

func (q *Query) path() string { return "/rest/v1/" + q.table }

func (q *Query) send(ctx context.Context, method string, body any, prefer string) ([]byte, error) {
	r := q.c.request(ctx).SetQueryParamsFromValues(q.params)
	if body != nil {
		r.SetBody(body)
	}
	if prefer != "" {
		r.SetHeader("Prefer", prefer)
	}
	resp, err := q.c.do(r, method, q.path())
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// Get decodes the matching rows into out, which should be a slice pointer.
func (q *Query) Get(ctx context.Context, out any) error {
	body, err := q.send(ctx, http.MethodGet, nil, "")
	if err != nil {
		return err
	}
	return decode(body, out)
}

// MaybeSingle decodes the first matching row into out and reports whether
// there was one.
func (q *Query) MaybeSingle(ctx context.Context, out any) (bool, error) {
	body, err := q.Limit(1).send(ctx, http.MethodGet, nil, "")
	if err != nil {
		return false, err
	}
	return first(body, out)
}

func first(body []byte, out any) (bool, error) {
	row := gjson.GetBytes(body, "0")
	if !row.Exists() {
		return false, nil
	}
	return true, decode([]byte(row.Raw), out)
}

// Insert posts row and decodes the inserted representation into out.
func (q *Query) Insert(ctx context.Context, row, out any) error {
	body, err := q.send(ctx, http.MethodPost, row, "return=representation")
	if err != nil {
		return err
	}
	_, err = first(body, out)
	return err
}

// Upsert merges row on the onConflict columns.
func (q *Query) Upsert(ctx context.Context, row any, onConflict string, out any) error {
	q.params.Set("on_conflict", onConflict)
	body, err := q.send(ctx, http.MethodPost, row, "resolution=merge-duplicates,return=representation")
	if err != nil {
		return err
	}
	_, err = first(body, out)
	return err
}

// Update patches the matching rows and returns how many changed.
func (q *Query) Update(ctx context.Context, patch any) (int, error) {
	body, err := q.send(ctx, http.MethodPatch, patch, "return=representation")
	if err != nil {
		return 0, err
	}
	return int(gjson.GetBytes(body, "#").Int()), nil
}
