// Package identifier hands out period-bucketed sequential identifiers such
// as patient LNs (YYMM####) and visit numbers.
//
// The scan strategy reads the highest existing suffix in the bucket and
// proposes the next one. It is a check-then-act sequence, so the insert that
// follows is the real arbiter of uniqueness: Allocate retries when the insert
// reports model.ErrExists. Configuring a Counter swaps the max+1 step for an
// atomic per-bucket increment.
package identifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jamesatitpong11/labflow-sub001/internal/metrics"
	"github.com/jamesatitpong11/labflow-sub001/internal/model"
)

const (
	DefaultWidth   = 4
	DefaultRetries = 10
)

// Store is the read side of the collection identifiers are checked against.
// Both methods must see soft-deleted rows so identifiers are never reused.
type Store interface {
	ListByPrefix(ctx context.Context, prefix string) ([]string, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// Counter keeps a per-bucket sequence. Advance atomically moves it to
// max(current, floor)+1 and returns the new value. Peek returns the value
// Advance would produce without writing.
type Counter interface {
	Advance(ctx context.Context, scope, bucket string, floor int) (int, error)
	Peek(ctx context.Context, scope, bucket string, floor int) (int, error)
}

// InsertFunc persists an entity under id. It must return an error wrapping
// model.ErrExists when id is already taken.
type InsertFunc func(ctx context.Context, id string) error

type Options struct {
	// Entity names the identifier in logs, metrics and counter rows.
	Entity  string
	Scheme  Scheme
	Width   int
	Retries int
	Counter Counter
}

type Generator struct {
	logger *slog.Logger
	store  Store
	opts   Options
}

func New(logger *slog.Logger, store Store, opts Options) *Generator {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Retries <= 0 {
		opts.Retries = DefaultRetries
	}

	return &Generator{
		logger: logger.With("module", "identifier", "entity", opts.Entity),
		store:  store,
		opts:   opts,
	}
}

func (g *Generator) Scheme() Scheme {
	return g.opts.Scheme
}

// Next proposes the identifier the next insert in at's bucket would receive.
// Nothing is reserved: callers must go through Allocate to persist.
func (g *Generator) Next(ctx context.Context, at time.Time) (string, error) {
	prefix := g.opts.Scheme.Prefix(at)

	for attempt := 1; attempt <= g.opts.Retries; attempt++ {
		candidate, collided, err := g.try(ctx, prefix, false)
		if err != nil {
			return "", err
		}
		if !collided {
			return candidate, nil
		}

		g.logger.Debug("identifier collision", "candidate", candidate, "attempt", attempt)
		metrics.RecordIdentifierRetry(g.opts.Entity, "collision")
	}

	return "", g.exhausted(prefix)
}

// Allocate generates an identifier for at and hands it to insert, retrying
// with a fresh bucket query when the candidate is taken.
func (g *Generator) Allocate(ctx context.Context, at time.Time, insert InsertFunc) (string, error) {
	prefix := g.opts.Scheme.Prefix(at)

	for attempt := 1; attempt <= g.opts.Retries; attempt++ {
		candidate, collided, err := g.try(ctx, prefix, true)
		if err != nil {
			return "", err
		}

		if collided {
			g.logger.Debug("identifier collision", "candidate", candidate, "attempt", attempt)
			metrics.RecordIdentifierRetry(g.opts.Entity, "collision")
			continue
		}

		err = insert(ctx, candidate)
		if err == nil {
			g.logger.Debug("identifier allocated", "id", candidate, "attempt", attempt)
			metrics.RecordIdentifierGenerated(g.opts.Entity)
			return candidate, nil
		}

		if !errors.Is(err, model.ErrExists) {
			return "", err
		}

		g.logger.Info("identifier taken at insert", "candidate", candidate, "attempt", attempt)
		metrics.RecordIdentifierRetry(g.opts.Entity, "conflict")
	}

	return "", g.exhausted(prefix)
}

// try proposes a candidate for prefix. Only a reserving try advances the counter.
func (g *Generator) try(ctx context.Context, prefix string, reserve bool) (string, bool, error) {
	ids, err := g.store.ListByPrefix(ctx, prefix)
	if err != nil {
		return "", false, fmt.Errorf("list %s identifiers: %w", g.opts.Entity, err)
	}

	seq := MaxSequence(prefix, ids, g.opts.Width) + 1

	switch {
	case g.opts.Counter != nil && reserve:
		seq, err = g.opts.Counter.Advance(ctx, g.opts.Entity, prefix, seq-1)
		if err != nil {
			return "", false, fmt.Errorf("advance %s counter: %w", g.opts.Entity, err)
		}
	case g.opts.Counter != nil:
		seq, err = g.opts.Counter.Peek(ctx, g.opts.Entity, prefix, seq-1)
		if err != nil {
			return "", false, fmt.Errorf("peek %s counter: %w", g.opts.Entity, err)
		}
	}

	if seq > maxForWidth(g.opts.Width) {
		g.logger.Warn("identifier sequence exceeds fixed width", "prefix", prefix, "sequence", seq)
		metrics.RecordIdentifierOverflow(g.opts.Entity)
	}

	candidate := Compose(prefix, seq, g.opts.Width)

	exists, err := g.store.Exists(ctx, candidate)
	if err != nil {
		return "", false, fmt.Errorf("check %s identifier: %w", g.opts.Entity, err)
	}

	return candidate, exists, nil
}

func (g *Generator) exhausted(prefix string) error {
	g.logger.Error("identifier retry budget exhausted", "prefix", prefix, "retries", g.opts.Retries)
	return model.NewError(g.opts.Entity, model.ErrIdentifierExhausted)
}

// MaxSequence returns the largest numeric suffix among ids in prefix's bucket,
// or 0 when there is none. Suffixes shorter than width or containing
// non-digits are ignored.
func MaxSequence(prefix string, ids []string, width int) int {
	highest := 0
	for _, id := range ids {
		suffix, ok := strings.CutPrefix(id, prefix)
		if !ok || len(suffix) < width || !isDigits(suffix) {
			continue
		}

		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}

		if n > highest {
			highest = n
		}
	}
	return highest
}

// Compose zero-pads seq to width. Sequences wider than width are kept whole.
func Compose(prefix string, seq, width int) string {
	return prefix + fmt.Sprintf("%0*d", width, seq)
}

func maxForWidth(width int) int {
	n := 1
	for i := 0; i < width; i++ {
		n *= 10
	}
	return n - 1
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
