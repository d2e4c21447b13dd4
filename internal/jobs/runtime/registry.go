package runtime

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Handler runs one job type. Run must be safe to call from several workers.
type Handler interface {
	Type() string
	Run(ctx *Context) error
}

// Registry maps job types to handlers. It is filled at startup and read by
// the worker pool.
type Registry struct {
	mu     sync.RWMutex
	byType map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{byType: make(map[string]Handler)}
}

// Register adds every handler, collecting all rejects into one error.
func (r *Registry) Register(hs ...Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for _, h := range hs {
		if h == nil {
			errs = append(errs, errors.New("nil job handler"))
			continue
		}
		jobType := h.Type()
		switch _, dup := r.byType[jobType]; {
		case jobType == "":
			errs = append(errs, fmt.Errorf("job handler %T has no type", h))
		case dup:
			errs = append(errs, fmt.Errorf("job_type=%s registered twice", jobType))
		default:
			r.byType[jobType] = h
		}
	}
	return errors.Join(errs...)
}

func (r *Registry) Get(jobType string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.byType[jobType]
	return h, ok
}

// Types lists registered job types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byType))
	for jobType := range r.byType {
		out = append(out, jobType)
	}
	sort.Strings(out)
	return out
}
