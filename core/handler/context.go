package handler

import (
	"context"
	"net/http"
	"sync"
)

// Context defines the contract for request contexts in the framework.
// Use NewContext for the default implementation.
type Context interface {
	context.Context
	Request() *http.Request
	ResponseWriter() http.ResponseWriter
	Param(key string) string
	SetValue(key, val any)
}

// RequestContext is the default Context implementation used when handlers are
// mounted on a plain net/http mux.
type RequestContext struct {
	context.Context
	w      http.ResponseWriter
	r      *http.Request
	params map[string]string

	mu     sync.RWMutex
	values map[any]any
}

// NewContext creates a RequestContext bound to the request's context.
func NewContext(w http.ResponseWriter, r *http.Request) *RequestContext {
	return &RequestContext{
		Context: r.Context(),
		w:       w,
		r:       r,
	}
}

func (c *RequestContext) Request() *http.Request              { return c.r }
func (c *RequestContext) ResponseWriter() http.ResponseWriter { return c.w }

// Param returns a path parameter. net/http patterns expose wildcards through
// Request.PathValue, which is consulted when no explicit param was set.
func (c *RequestContext) Param(key string) string {
	if v, ok := c.params[key]; ok {
		return v
	}
	return c.r.PathValue(key)
}

// SetValue stores a request-scoped value readable through Value.
func (c *RequestContext) SetValue(key, val any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[any]any)
	}
	c.values[key] = val
}

// Value looks up request-scoped values first, then the parent context.
func (c *RequestContext) Value(key any) any {
	c.mu.RLock()
	val, ok := c.values[key]
	c.mu.RUnlock()
	if ok {
		return val
	}
	return c.Context.Value(key)
}
