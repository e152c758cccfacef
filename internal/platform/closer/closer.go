package closer

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

type Logger interface {
	Info(ctx context.Context, msg string, fields ...zap.Field)
	Error(ctx context.Context, msg string, fields ...zap.Field)
}

type namedCloser struct {
	name string
	fn   func(ctx context.Context) error
}

var (
	mu      sync.Mutex
	closers []namedCloser
	log     Logger
)

func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

func Add(fn func(ctx context.Context) error) {
	AddNamed("", fn)
}

func AddNamed(name string, fn func(ctx context.Context) error) {
	mu.Lock()
	defer mu.Unlock()
	closers = append(closers, namedCloser{name: name, fn: fn})
}

// CloseAll runs registered closers in reverse registration order.
func CloseAll(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		c := closers[i]
		if err := c.fn(ctx); err != nil {
			if log != nil {
				log.Error(ctx, "closer failed",
					zap.String("name", c.name),
					zap.Error(err),
				)
			}
			errs = append(errs, err)
			continue
		}
		if log != nil && c.name != "" {
			log.Info(ctx, "closed", zap.String("name", c.name))
		}
	}
	closers = nil

	return errors.Join(errs...)
}
