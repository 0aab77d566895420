// Package db opens the configured Store backend and instruments it.
package db

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/therapyai/caseload/internal/core/ports"
)

// ObserveFunc receives the outcome of every store call.
type ObserveFunc func(op string, elapsed time.Duration, err error)

// Observed decorates a Store with logging and an observation hook.
type Observed struct {
	next    ports.Store
	observe ObserveFunc
	log     zerolog.Logger
}

func NewObserved(next ports.Store, observe ObserveFunc, log zerolog.Logger) *Observed {
	if observe == nil {
		observe = func(string, time.Duration, error) {}
	}
	return &Observed{next: next, observe: observe, log: log}
}

func (o *Observed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	v, ok, err := o.next.Get(ctx, key)
	o.done("get", start, err, key)
	return v, ok, err
}

func (o *Observed) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := o.next.Set(ctx, key, value)
	o.done("set", start, err, key)
	return err
}

func (o *Observed) Delete(ctx context.Context, keys ...string) error {
	start := time.Now()
	err := o.next.Delete(ctx, keys...)
	o.done("delete", start, err, keys...)
	return err
}

func (o *Observed) Apply(ctx context.Context, ops ...ports.Op) error {
	start := time.Now()
	err := o.next.Apply(ctx, ops...)
	keys := make([]string, len(ops))
	for i, op := range ops {
		keys[i] = op.Key
	}
	o.done("apply", start, err, keys...)
	return err
}

func (o *Observed) Ping(ctx context.Context) error {
	start := time.Now()
	err := o.next.Ping(ctx)
	o.done("ping", start, err)
	return err
}

func (o *Observed) Close() error {
	return o.next.Close()
}

func (o *Observed) done(op string, start time.Time, err error, keys ...string) {
	elapsed := time.Since(start)
	o.observe(op, elapsed, err)

	if err != nil {
		o.log.Error().Err(err).Str("op", op).Strs("keys", keys).Msg("store operation failed")
		return
	}
	o.log.Trace().Str("op", op).Strs("keys", keys).Dur("elapsed", elapsed).Msg("store operation")
}
