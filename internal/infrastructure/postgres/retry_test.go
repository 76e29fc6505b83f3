package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	cases := []struct {
		code string
		want ErrorClass
	}{
		{"40001", ErrorClassSerialization},
		{"40P01", ErrorClassDeadlock},
		{"55P03", ErrorClassTransient},
		{"23505", ErrorClassPermanent},
		{"23514", ErrorClassPermanent},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			err := fmt.Errorf("ledger debit: %w", &pgconn.PgError{Code: tc.code})
			assert.Equal(t, tc.want, ClassifyError(err))
		})
	}
	assert.Equal(t, ErrorClassPermanent, ClassifyError(errors.New("otro")))
	assert.Equal(t, ErrorClassPermanent, ClassifyError(nil))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&pgconn.PgError{Code: "40P01"}))
	assert.False(t, IsRetryable(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsRetryable(context.Canceled))
	assert.False(t, IsRetryable(nil))
}

func TestRetryPolicy_BackoffExponencial(t *testing.T) {
	p := RetryPolicy{MaxRetries: 3, BaseDelay: 40 * time.Millisecond}
	for attempt, base := range []time.Duration{40, 80, 160} {
		d := p.delay(attempt)
		lo := base * time.Millisecond
		assert.GreaterOrEqual(t, d, lo)
		assert.Less(t, d, lo+lo/4+1)
	}
}

func TestOrderBy(t *testing.T) {
	cols := map[string]string{"name": "p.name", "stock": "stock"}
	assert.Equal(t, "p.name ASC", orderBy("name", cols, "x"))
	assert.Equal(t, "stock DESC", orderBy("-stock", cols, "x"))
	assert.Equal(t, "x", orderBy("name; DROP TABLE products", cols, "x"))
	assert.Equal(t, "x", orderBy("", cols, "x"))
}

func TestNullableUUID(t *testing.T) {
	assert.Nil(t, nullableUUID(""))
	assert.Equal(t, "abc", nullableUUID("abc"))
}
