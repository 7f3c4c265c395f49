package identifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jamesatitpong11/labflow-sub001/internal/model"
)

// memStore is a unique-keyed identifier table shared by concurrent callers.
type memStore struct {
	mu  sync.Mutex
	ids map[string]struct{}

	listCalls   int
	existsCalls int
}

func newMemStore(ids ...string) *memStore {
	s := &memStore{ids: make(map[string]struct{})}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

func (s *memStore) ListByPrefix(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listCalls++
	var out []string
	for id := range s.ids {
		if strings.HasPrefix(id, prefix) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (s *memStore) Exists(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.existsCalls++
	_, ok := s.ids[id]
	return ok, nil
}

func (s *memStore) Insert(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; ok {
		return model.NewError("patient", model.ErrExists)
	}
	s.ids[id] = struct{}{}
	return nil
}

// alwaysTaken reports every candidate as already present.
type alwaysTaken struct{ *memStore }

func (alwaysTaken) Exists(context.Context, string) (bool, error) { return true, nil }

type memCounter struct {
	mu     sync.Mutex
	values map[string]int
}

func (c *memCounter) Advance(_ context.Context, scope, bucket string, floor int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := scope + "/" + bucket
	if c.values[key] < floor {
		c.values[key] = floor
	}
	c.values[key]++
	return c.values[key], nil
}

func (c *memCounter) Peek(_ context.Context, scope, bucket string, floor int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := c.values[scope+"/"+bucket]
	if v < floor {
		v = floor
	}
	return v + 1, nil
}

var _march15 = time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGenerator(store Store, era Era) *Generator {
	return New(testLogger(), store, Options{
		Entity: "patient",
		Scheme: Scheme{Era: era, Granularity: GranularityMonth},
	})
}

func TestNextContinuesExistingBucket(t *testing.T) {
	tests := []struct {
		name     string
		era      Era
		existing []string
		want     string
	}{
		{"gregorian", EraGregorian, []string{"24030001", "24030002", "24030003"}, "24030004"},
		{"buddhist", EraBuddhist, []string{"67030001", "67030002", "67030003"}, "67030004"},
		{"other buckets ignored", EraGregorian, []string{"24020057", "24040001"}, "24030001"},
		{"empty store", EraBuddhist, nil, "67030001"},
		{"unordered", EraGregorian, []string{"24030010", "24030002", "24030009"}, "24030011"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenerator(newMemStore(tt.existing...), tt.era)

			got, err := g.Next(context.Background(), _march15)
			if err != nil {
				t.Fatalf("Next: unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Next() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNextIgnoresUnparsableSuffixes(t *testing.T) {
	store := newMemStore("2403abcd", "2403", "240301", "2403-001", "24030002")
	g := newTestGenerator(store, EraGregorian)

	got, err := g.Next(context.Background(), _march15)
	if err != nil {
		t.Fatalf("Next: unexpected error: %v", err)
	}
	if got != "24030003" {
		t.Errorf("Next() = %q, want %q", got, "24030003")
	}
}

func TestNextDoesNotReserve(t *testing.T) {
	g := newTestGenerator(newMemStore(), EraGregorian)

	first, _ := g.Next(context.Background(), _march15)
	second, _ := g.Next(context.Background(), _march15)

	if first != second {
		t.Errorf("preview changed without insert: %q then %q", first, second)
	}
}

func TestAllocateSequentialIsMonotonic(t *testing.T) {
	store := newMemStore()
	g := newTestGenerator(store, EraBuddhist)

	for k := 1; k <= 25; k++ {
		id, err := g.Allocate(context.Background(), _march15, store.Insert)
		if err != nil {
			t.Fatalf("Allocate #%d: unexpected error: %v", k, err)
		}

		want := fmt.Sprintf("6703%04d", k)
		if id != want {
			t.Fatalf("Allocate #%d = %q, want %q", k, id, want)
		}
	}
}

func TestAllocateConcurrentIsUnique(t *testing.T) {
	const n = DefaultRetries

	store := newMemStore()
	g := newTestGenerator(store, EraGregorian)

	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		ids   = make([]string, n)
		errs  = make([]error, n)
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			ids[i], errs[i] = g.Allocate(context.Background(), _march15, store.Insert)
		}(i)
	}

	close(start)
	wg.Wait()

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("Allocate[%d]: unexpected error: %v", i, errs[i])
		}
		if seen[ids[i]] {
			t.Fatalf("duplicate identifier %q", ids[i])
		}
		seen[ids[i]] = true
	}

	if len(seen) != n {
		t.Errorf("got %d distinct identifiers, want %d", len(seen), n)
	}
	for k := 1; k <= n; k++ {
		if id := fmt.Sprintf("2403%04d", k); !seen[id] {
			t.Errorf("missing %q: sequence has a gap", id)
		}
	}
}

func TestAllocateRetriesOnInsertConflict(t *testing.T) {
	store := newMemStore()
	g := newTestGenerator(store, EraGregorian)

	calls := 0
	racing := func(ctx context.Context, id string) error {
		calls++
		if calls <= 2 {
			// A rival writer takes the candidate between our check and insert.
			store.Insert(ctx, id)
		}
		return store.Insert(ctx, id)
	}

	id, err := g.Allocate(context.Background(), _march15, racing)
	if err != nil {
		t.Fatalf("Allocate: unexpected error: %v", err)
	}
	if id != "24030003" {
		t.Errorf("Allocate() = %q, want %q", id, "24030003")
	}
	if calls != 3 {
		t.Errorf("insert called %d times, want 3", calls)
	}
}

func TestAllocatePropagatesInsertFailure(t *testing.T) {
	g := newTestGenerator(newMemStore(), EraGregorian)
	boom := errors.New("connection reset")

	_, err := g.Allocate(context.Background(), _march15, func(context.Context, string) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("Allocate error = %v, want %v", err, boom)
	}
}

func TestExhaustedAfterRetryBudget(t *testing.T) {
	store := alwaysTaken{newMemStore()}
	g := newTestGenerator(store, EraGregorian)

	_, err := g.Next(context.Background(), _march15)
	if !errors.Is(err, model.ErrIdentifierExhausted) {
		t.Fatalf("Next error = %v, want ErrIdentifierExhausted", err)
	}
	if store.listCalls != DefaultRetries {
		t.Errorf("bucket queried %d times, want %d", store.listCalls, DefaultRetries)
	}

	_, err = g.Allocate(context.Background(), _march15, func(context.Context, string) error {
		t.Fatal("insert must not run for a colliding candidate")
		return nil
	})
	if !errors.Is(err, model.ErrIdentifierExhausted) {
		t.Errorf("Allocate error = %v, want ErrIdentifierExhausted", err)
	}
}

func TestOverflowIsSoftLimit(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		want     string
	}{
		{"10000th", "24039999", "240310000"},
		{"10001st", "240310000", "240310001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenerator(newMemStore(tt.existing), EraGregorian)

			got, err := g.Next(context.Background(), _march15)
			if err != nil {
				t.Fatalf("Next: unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Next() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCounterStrategyRespectsExistingRows(t *testing.T) {
	store := newMemStore("67030001", "67030002")
	counter := &memCounter{values: map[string]int{}}

	g := New(testLogger(), store, Options{
		Entity:  "visit",
		Scheme:  Scheme{Era: EraBuddhist, Granularity: GranularityMonth},
		Counter: counter,
	})

	for _, want := range []string{"67030003", "67030004"} {
		got, err := g.Allocate(context.Background(), _march15, store.Insert)
		if err != nil {
			t.Fatalf("Allocate: unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("Allocate() = %q, want %q", got, want)
		}
	}

	if v := counter.values["visit/6703"]; v != 4 {
		t.Errorf("counter value = %d, want 4", v)
	}
}

func TestCounterPreviewDoesNotAdvance(t *testing.T) {
	store := newMemStore()
	counter := &memCounter{values: map[string]int{}}

	g := New(testLogger(), store, Options{
		Entity:  "patient",
		Scheme:  Scheme{Era: EraBuddhist, Granularity: GranularityMonth},
		Counter: counter,
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		got, err := g.Next(ctx, _march15)
		if err != nil {
			t.Fatalf("Next: unexpected error: %v", err)
		}
		if got != "67030001" {
			t.Errorf("Next() #%d = %q, want 67030001", i+1, got)
		}
	}
	if len(counter.values) != 0 {
		t.Errorf("preview wrote counter rows: %v", counter.values)
	}

	got, err := g.Allocate(ctx, _march15, store.Insert)
	if err != nil {
		t.Fatalf("Allocate: unexpected error: %v", err)
	}
	if got != "67030001" {
		t.Errorf("Allocate() = %q, want 67030001", got)
	}

	if got, _ := g.Next(ctx, _march15); got != "67030002" {
		t.Errorf("Next() after Allocate = %q, want 67030002", got)
	}
}

func TestMaxSequenceAndCompose(t *testing.T) {
	if got := MaxSequence("6703", []string{"67030007", "6703x", "67020099"}, 4); got != 7 {
		t.Errorf("MaxSequence = %d, want 7", got)
	}
	if got := Compose("670315", 42, 4); got != "6703150042" {
		t.Errorf("Compose = %q, want %q", got, "6703150042")
	}
	if got := Compose("6703", 12345, 4); got != "670312345" {
		t.Errorf("Compose overflow = %q, want %q", got, "670312345")
	}
}
