package history

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAppendAssignsIncreasingIDsAndTimestamps(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	before := time.Now().UTC()

	first, err := s.Append(ctx, "add", 2, 3, 5)
	if err != nil {
		t.Fatalf("appending: %v", err)
	}
	second, err := s.Append(ctx, "multiply", 2.5, 4, 10)
	if err != nil {
		t.Fatalf("appending: %v", err)
	}

	if first.ID <= 0 {
		t.Fatalf("expected positive id, got %d", first.ID)
	}
	if second.ID <= first.ID {
		t.Fatalf("expected id %d to be greater than %d", second.ID, first.ID)
	}
	if first.CreatedAt.Before(before.Truncate(time.Second)) {
		t.Fatalf("expected created_at >= %v, got %v", before, first.CreatedAt)
	}
	if first.Operation != "add" || first.Operand1 != 2 || first.Operand2 != 3 || first.Result != 5 {
		t.Fatalf("unexpected record: %+v", first)
	}
}

func TestListRecentReturnsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ops := []string{"add", "subtract", "multiply"}
	for i, op := range ops {
		if _, err := s.Append(ctx, op, float64(i), 1, float64(i)+1); err != nil {
			t.Fatalf("appending: %v", err)
		}
	}

	records, err := s.ListRecent(ctx, 100)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}

	if len(records) != len(ops) {
		t.Fatalf("expected %d records, got %d", len(ops), len(records))
	}
	if records[0].Operation != "multiply" || records[2].Operation != "add" {
		t.Fatalf("expected newest-first order, got %q, %q, %q",
			records[0].Operation, records[1].Operation, records[2].Operation)
	}
	for i := 1; i < len(records); i++ {
		if records[i].ID >= records[i-1].ID {
			t.Fatalf("expected strictly descending ids, got %d then %d", records[i-1].ID, records[i].ID)
		}
	}
}

func TestListRecentEmptyStore(t *testing.T) {
	s := openTestStore(t)

	records, err := s.ListRecent(context.Background(), 100)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty history, got %d records", len(records))
	}
}

func TestListRecentCapsAtLimitUnderConcurrentAppends(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	const total = 150
	var wg sync.WaitGroup
	errs := make(chan error, total)

	for i := 0; i < total; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if _, err := s.Append(ctx, "add", float64(n), 1, float64(n)+1); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent append: %v", err)
	}

	records, err := s.ListRecent(ctx, 100)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}

	if len(records) != 100 {
		t.Fatalf("expected 100 records, got %d", len(records))
	}
	// The returned set must be exactly the 100 highest identifiers,
	// strictly descending.
	for i := 1; i < len(records); i++ {
		if records[i].ID != records[i-1].ID-1 {
			t.Fatalf("expected contiguous descending ids, got %d then %d", records[i-1].ID, records[i].ID)
		}
	}
	if records[0].ID != total {
		t.Fatalf("expected newest id %d, got %d", total, records[0].ID)
	}
}

func TestRecordsSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	appended, err := s.Append(ctx, "divide", 10, 2, 5)
	if err != nil {
		t.Fatalf("appending: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("closing store: %v", err)
	}

	reopened, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer reopened.Close()

	records, err := reopened.ListRecent(ctx, 100)
	if err != nil {
		t.Fatalf("listing after reopen: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record after reopen, got %d", len(records))
	}
	if records[0].ID != appended.ID || records[0].Result != 5 {
		t.Fatalf("expected record %+v, got %+v", appended, records[0])
	}
	if !records[0].CreatedAt.Equal(appended.CreatedAt) {
		t.Fatalf("expected created_at %v, got %v", appended.CreatedAt, records[0].CreatedAt)
	}
}

func TestSchemaCreationIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	for i := 0; i < 3; i++ {
		s, err := OpenSQLite(ctx, path)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("close %d: %v", i, err)
		}
	}
}

func TestAppendAfterCloseReportsUnavailable(t *testing.T) {
	s := openTestStore(t)
	_ = s.Close()

	_, err := s.Append(context.Background(), "add", 1, 1, 2)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	_, err = s.ListRecent(context.Background(), 100)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
