package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultTaskTimeout = 30 * time.Second

// taskRunner ejecuta tareas desacopladas del request. Sus errores solo se loguean.
type taskRunner struct {
	wg      sync.WaitGroup
	logger  *zap.Logger
	timeout time.Duration
}

func newTaskRunner(logger *zap.Logger, timeout time.Duration) *taskRunner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultTaskTimeout
	}
	return &taskRunner{logger: logger, timeout: timeout}
}

// Go lanza fn con un contexto que no se cancela cuando termina el request.
func (r *taskRunner) Go(parent context.Context, name string, fn func(ctx context.Context) error, fields ...zap.Field) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), r.timeout)
		defer cancel()

		defer func() {
			if rec := recover(); rec != nil {
				r.logger.Error("background task panicked",
					append(fields, zap.String("task", name), zap.String("panic", fmt.Sprint(rec)))...)
			}
		}()

		if err := fn(ctx); err != nil {
			r.logger.Warn("background task failed",
				append(fields, zap.String("task", name), zap.Error(err))...)
		}
	}()
}

// Wait bloquea hasta que terminan las tareas en curso.
func (r *taskRunner) Wait() {
	r.wg.Wait()
}
