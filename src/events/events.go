package events

import (
	"context"
	"sync"

	"github.com/inkwell-press/inkwell/src/logging"
	"github.com/inkwell-press/inkwell/src/models"
)

const (
	ArticleCreated  = "article.created"
	ArticleAssigned = "article.assigned"
)

type ArticleCreatedPayload struct {
	Article *models.Article
}

type ArticleAssignedPayload struct {
	Article *models.Article
	Editor  *models.Editor
}

type Listener func(ctx context.Context, payload any)

/*
Registry is an explicit in-process pub/sub: callers subscribe listener
funcs to event names and dispatchers fire payloads at them. Delivery is
at-most-once and best-effort - a listener that panics is logged and
skipped, nothing is redelivered, and there is no ordering guarantee
across distinct listeners. Dispatch never reports failure to the caller.
*/
type Registry struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
}

func NewRegistry() *Registry {
	return &Registry{
		listeners: make(map[string][]Listener),
	}
}

func (r *Registry) Subscribe(name string, fn Listener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners[name] = append(r.listeners[name], fn)
}

func (r *Registry) Dispatch(ctx context.Context, name string, payload any) {
	r.mu.RLock()
	listeners := make([]Listener, len(r.listeners[name]))
	copy(listeners, r.listeners[name])
	r.mu.RUnlock()

	log := logging.ExtractLogger(ctx)
	for _, fn := range listeners {
		func() {
			defer logging.LogPanics(log)
			fn(ctx, payload)
		}()
	}
}
