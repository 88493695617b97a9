package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/liamcoop/attrition/features"
)

// Store interface is satisfied by both implementations
var (
	_ Store = (*InMemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
)

func newRecord(churn bool) *Record {
	return &Record{
		Attributes:   features.Example(),
		WillChurn:    churn,
		FeatureCount: 2079,
		ModelPath:    "models/best_XGB.json",
	}
}

func TestInMemoryStoreAdd(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	rec := newRecord(true)
	before := time.Now().UTC()
	if err := store.Add(ctx, rec); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	if _, err := uuid.Parse(rec.ID); err != nil {
		t.Errorf("Add() should assign a UUID, got %q", rec.ID)
	}
	if rec.CreatedAt.Before(before) {
		t.Errorf("CreatedAt = %v, want after %v", rec.CreatedAt, before)
	}

	got, err := store.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Attributes != features.Example() || !got.WillChurn || got.FeatureCount != 2079 {
		t.Errorf("Get() = %+v", got)
	}
}

func TestInMemoryStoreAddDuplicate(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	rec := newRecord(false)
	rec.ID = uuid.NewString()
	if err := store.Add(ctx, rec); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	dup := newRecord(true)
	dup.ID = rec.ID
	if err := store.Add(ctx, dup); err == nil {
		t.Error("Add() should reject a duplicate ID")
	}
}

func TestInMemoryStoreGetNotFound(t *testing.T) {
	store := NewInMemoryStore()

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestInMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	rec := newRecord(false)
	if err := store.Add(ctx, rec); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	rec.WillChurn = true

	got, err := store.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.WillChurn {
		t.Error("mutating the added record should not change the stored one")
	}
}

func TestInMemoryStoreListRecent(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	var ids []string
	for i := 0; i < 5; i++ {
		rec := newRecord(i%2 == 0)
		if err := store.Add(ctx, rec); err != nil {
			t.Fatalf("Add() failed: %v", err)
		}
		ids = append(ids, rec.ID)
		time.Sleep(2 * time.Millisecond)
	}

	got, err := store.ListRecent(ctx, 3)
	if err != nil {
		t.Fatalf("ListRecent() failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(ListRecent()) = %d, want 3", len(got))
	}
	for i, want := range []string{ids[4], ids[3], ids[2]} {
		if got[i].ID != want {
			t.Errorf("ListRecent()[%d] = %s, want %s", i, got[i].ID, want)
		}
	}

	all, err := store.ListRecent(ctx, 100)
	if err != nil {
		t.Fatalf("ListRecent() failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("len(ListRecent(100)) = %d, want 5", len(all))
	}
}

func TestInMemoryStoreListRecentInvalidLimit(t *testing.T) {
	store := NewInMemoryStore()
	for _, limit := range []int{0, -1} {
		if _, err := store.ListRecent(context.Background(), limit); err == nil {
			t.Errorf("ListRecent(%d) should fail", limit)
		}
	}
}

func TestInMemoryStoreConcurrentAdd(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := store.Add(ctx, newRecord(i%2 == 0)); err != nil {
				errs <- fmt.Errorf("add %d: %w", i, err)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}

	all, err := store.ListRecent(ctx, n*2)
	if err != nil {
		t.Fatalf("ListRecent() failed: %v", err)
	}
	if len(all) != n {
		t.Errorf("len(ListRecent()) = %d, want %d", len(all), n)
	}
}
