package closer

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

type closeFn func(ctx context.Context) error

type namedCloser struct {
	name string
	fn   closeFn
}

var (
	mu      sync.Mutex
	closers []namedCloser
	log     = zap.NewNop()
)

func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

// AddNamed registers a shutdown hook. Hooks run in reverse registration
// order, resources opened last close first.
func AddNamed(name string, fn closeFn) {
	mu.Lock()
	defer mu.Unlock()
	closers = append(closers, namedCloser{name: name, fn: fn})
}

// CloseAll runs every registered hook, collecting errors instead of
// stopping at the first one. The registry is drained afterwards.
func CloseAll(ctx context.Context) error {
	mu.Lock()
	pending := closers
	closers = nil
	mu.Unlock()

	var errs []error
	for i := len(pending) - 1; i >= 0; i-- {
		c := pending[i]
		if err := c.fn(ctx); err != nil {
			log.Error("close resource", zap.String("name", c.name), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		log.Info("closed", zap.String("name", c.name))
	}

	return errors.Join(errs...)
}
