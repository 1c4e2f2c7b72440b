package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ogurasousui/hr-intake-bot/internal/core/employee"
	"github.com/ogurasousui/hr-intake-bot/internal/core/intake"
)

func newRequest(id string) *intake.Request {
	return &intake.Request{
		ID:            id,
		Employee:      employee.Record{Code: "E100", Name: "Aziz", Position: "Sales", Branch: "Tashkent-1"},
		Reason:        "Oilaviy sabablar",
		EffectiveDate: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		HasLetter:     true,
		Status:        intake.StatusPending,
		SubmittedBy:   "Botir",
		SubmittedAt:   time.Now().UTC(),
	}
}

func TestRequestRepository_ListPending_InsertionOrder(t *testing.T) {
	t.Parallel()

	repo := NewRequestRepository()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := repo.Add(ctx, newRequest(fmt.Sprintf("req-%d", i))); err != nil {
			t.Fatalf("Add returned error: %v", err)
		}
	}

	pending, err := repo.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending returned error: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending requests, got %d", len(pending))
	}
	for i, req := range pending {
		if want := fmt.Sprintf("req-%d", i); req.ID != want {
			t.Fatalf("expected %s at position %d, got %s", want, i, req.ID)
		}
	}
}

func TestRequestRepository_Accept(t *testing.T) {
	t.Parallel()

	repo := NewRequestRepository()
	ctx := context.Background()

	if err := repo.Add(ctx, newRequest("req-1")); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	accepted, err := repo.Accept(ctx, "req-1")
	if err != nil {
		t.Fatalf("Accept returned error: %v", err)
	}
	if accepted.Status != intake.StatusArchived {
		t.Fatalf("expected archived status, got %s", accepted.Status)
	}

	if _, err := repo.Accept(ctx, "req-1"); !errors.Is(err, intake.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second accept, got %v", err)
	}
	if _, err := repo.Accept(ctx, "missing"); !errors.Is(err, intake.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}

	pending, err := repo.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending returned error: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending requests, got %d", len(pending))
	}

	archived, err := repo.ListArchived(ctx)
	if err != nil {
		t.Fatalf("ListArchived returned error: %v", err)
	}
	if len(archived) != 1 || archived[0].ID != "req-1" {
		t.Fatalf("expected req-1 archived, got %+v", archived)
	}
}

func TestRequestRepository_ConcurrentAccept(t *testing.T) {
	t.Parallel()

	repo := NewRequestRepository()
	ctx := context.Background()

	if err := repo.Add(ctx, newRequest("req-1")); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	const callers = 16
	var (
		wg        sync.WaitGroup
		successes int32
		mu        sync.Mutex
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.Accept(ctx, "req-1"); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else if !errors.Is(err, intake.ErrNotFound) {
				t.Errorf("unexpected accept error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly one successful accept, got %d", successes)
	}
}

func TestRequestRepository_ReturnsCopies(t *testing.T) {
	t.Parallel()

	repo := NewRequestRepository()
	ctx := context.Background()

	if err := repo.Add(ctx, newRequest("req-1")); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	pending, err := repo.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending returned error: %v", err)
	}
	pending[0].Status = intake.StatusArchived

	again, err := repo.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending returned error: %v", err)
	}
	if len(again) != 1 {
		t.Fatal("expected stored request to be unaffected by caller mutation")
	}
}
