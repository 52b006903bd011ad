package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListQuery is the client-side view of a paginated list request. Page
// is 1-indexed on the wire.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
	Status string
}

func (q ListQuery) values() url.Values {
	values := url.Values{}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.Status != "" {
		values.Set("status", q.Status)
	}
	return values
}

// ResourceClient covers one configuration resource (allowances, pay
// grades, leave types, ...) sharing the draft/approved lifecycle.
type ResourceClient[T any] struct {
	c    *Client
	path string
}

func NewResourceClient[T any](c *Client, path string) *ResourceClient[T] {
	return &ResourceClient[T]{c: c, path: path}
}

func (r *ResourceClient[T]) List(ctx context.Context, q ListQuery) (ListResult[T], error) {
	var out ListResult[T]
	err := r.c.do(ctx, http.MethodGet, r.path, q.values(), nil, &out)
	return out, err
}

func (r *ResourceClient[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodGet, r.path+"/"+id, nil, nil, &out)
	return out, err
}

func (r *ResourceClient[T]) Create(ctx context.Context, entity T) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPost, r.path, nil, entity, &out)
	return out, err
}

func (r *ResourceClient[T]) Update(ctx context.Context, id string, entity T) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPut, r.path+"/"+id, nil, entity, &out)
	return out, err
}

func (r *ResourceClient[T]) Delete(ctx context.Context, id string) error {
	return r.c.do(ctx, http.MethodDelete, r.path+"/"+id, nil, nil, nil)
}

func (r *ResourceClient[T]) UpdateStatus(ctx context.Context, id, status string) (T, error) {
	var out T
	err := r.c.do(ctx, http.MethodPatch, r.path+"/"+id+"/status", nil, map[string]string{"status": status}, &out)
	return out, err
}
