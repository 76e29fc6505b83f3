package postgres

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// ErrorClass clasifica errores de PostgreSQL según si conviene reintentar la transacción.
type ErrorClass int

const (
	ErrorClassPermanent ErrorClass = iota
	ErrorClassTransient
	ErrorClassDeadlock
	ErrorClassSerialization
)

// ClassifyError distingue deadlock (40P01), fallo de serialización (40001) y lock_not_available (55P03).
func ClassifyError(err error) ErrorClass {
	switch pgCode(err) {
	case "40001":
		return ErrorClassSerialization
	case "40P01":
		return ErrorClassDeadlock
	case "55P03":
		return ErrorClassTransient
	}
	return ErrorClassPermanent
}

// IsRetryable indica si la transacción puede repetirse completa.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return ClassifyError(err) != ErrorClassPermanent
}

// RetryPolicy backoff exponencial con jitter para Run.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// DefaultRetryPolicy tres reintentos desde 50ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, BaseDelay: 50 * time.Millisecond}
}

// delay devuelve la espera antes del reintento attempt (0-based): base*2^attempt + jitter de hasta 25%.
func (p RetryPolicy) delay(attempt int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = 50 * time.Millisecond
	}
	d := base << attempt
	if j := int64(d / 4); j > 0 {
		d += time.Duration(rand.Int63n(j))
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
