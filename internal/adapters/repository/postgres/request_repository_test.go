package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/hr-intake-bot/internal/core/employee"
	"github.com/ogurasousui/hr-intake-bot/internal/core/intake"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

var requestColumnNames = []string{
	"id", "employee_code", "employee_name", "employee_position", "employee_branch",
	"reason", "effective_date", "has_letter", "status", "submitted_by", "submitted_at",
}

type stubRequestRow struct {
	scanFn func(dest ...interface{}) error
}

func (s stubRequestRow) Scan(dest ...interface{}) error {
	return s.scanFn(dest...)
}

func sampleRequest() *intake.Request {
	return &intake.Request{
		ID:            "req-1",
		Employee:      employee.Record{Code: "E100", Name: "Aziz", Position: "Sales", Branch: "Tashkent-1"},
		Reason:        "Oilaviy sabablar",
		EffectiveDate: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		HasLetter:     true,
		Status:        intake.StatusPending,
		SubmittedBy:   "Botir",
		SubmittedAt:   time.Date(2024, 12, 1, 10, 30, 0, 0, time.UTC),
	}
}

func TestScanRequest_Success(t *testing.T) {
	t.Parallel()

	want := sampleRequest()
	row := stubRequestRow{scanFn: func(dest ...interface{}) error {
		if len(dest) != 11 {
			return errors.New("unexpected dest length")
		}
		*(dest[0].(*string)) = want.ID
		*(dest[1].(*string)) = want.Employee.Code
		*(dest[2].(*string)) = want.Employee.Name
		*(dest[3].(*string)) = want.Employee.Position
		*(dest[4].(*string)) = want.Employee.Branch
		*(dest[5].(*string)) = want.Reason
		*(dest[6].(*time.Time)) = want.EffectiveDate
		*(dest[7].(*bool)) = want.HasLetter
		*(dest[8].(*string)) = string(want.Status)
		*(dest[9].(*string)) = want.SubmittedBy
		*(dest[10].(*time.Time)) = want.SubmittedAt
		return nil
	}}

	got, err := scanRequest(row)
	if err != nil {
		t.Fatalf("scanRequest returned error: %v", err)
	}
	if got.ID != want.ID || got.Employee != want.Employee || got.Status != want.Status {
		t.Fatalf("unexpected request: %+v", got)
	}
	if !got.EffectiveDate.Equal(want.EffectiveDate) {
		t.Fatalf("unexpected effective date: %v", got.EffectiveDate)
	}
}

func TestScanRequest_NoRows(t *testing.T) {
	t.Parallel()

	row := stubRequestRow{scanFn: func(dest ...interface{}) error {
		return pgx.ErrNoRows
	}}

	if _, err := scanRequest(row); !errors.Is(err, intake.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRequestRepository_Add(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewRequestRepository(mock)
	req := sampleRequest()

	mock.ExpectExec(regexp.QuoteMeta(`
        INSERT INTO termination_requests (id, employee_code, employee_name, employee_position, employee_branch,
                                          reason, effective_date, has_letter, status, submitted_by, submitted_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `)).
		WithArgs(req.ID, req.Employee.Code, req.Employee.Name, req.Employee.Position, req.Employee.Branch,
			req.Reason, req.EffectiveDate, req.HasLetter, string(req.Status), req.SubmittedBy, req.SubmittedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Add(context.Background(), req); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRequestRepository_Add_DuplicateID(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewRequestRepository(mock)
	req := sampleRequest()

	mock.ExpectExec("INSERT INTO termination_requests").
		WithArgs(req.ID, req.Employee.Code, req.Employee.Name, req.Employee.Position, req.Employee.Branch,
			req.Reason, req.EffectiveDate, req.HasLetter, string(req.Status), req.SubmittedBy, req.SubmittedAt).
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode})

	err = repo.Add(context.Background(), req)
	if err == nil {
		t.Fatal("expected error for duplicate id")
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		t.Fatalf("expected wrapped unique violation, got %v", err)
	}
}

func TestRequestRepository_ListPending(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewRequestRepository(mock)
	now := time.Now().UTC()
	date := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows(requestColumnNames).
		AddRow("req-1", "E100", "Aziz", "Sales", "Tashkent-1", "Oilaviy sabablar", date, true, "pending", "Botir", now).
		AddRow("req-2", "E200", "Lola", "Cashier", "Tashkent-2", "O'qishi tufayli", date, false, "pending", "Botir", now)

	mock.ExpectQuery("SELECT (.+) FROM termination_requests").
		WithArgs(string(intake.StatusPending)).
		WillReturnRows(rows)

	pending, err := repo.ListPending(context.Background())
	if err != nil {
		t.Fatalf("ListPending returned error: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending requests, got %d", len(pending))
	}
	if pending[0].ID != "req-1" || pending[1].ID != "req-2" {
		t.Fatalf("unexpected order: %s, %s", pending[0].ID, pending[1].ID)
	}
	if pending[1].HasLetter {
		t.Fatal("expected req-2 without letter")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRequestRepository_Accept(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewRequestRepository(mock)
	now := time.Now().UTC()
	date := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows(requestColumnNames).
		AddRow("req-1", "E100", "Aziz", "Sales", "Tashkent-1", "Oilaviy sabablar", date, true, "archived", "Botir", now)

	mock.ExpectQuery("UPDATE termination_requests").
		WithArgs(string(intake.StatusArchived), "req-1", string(intake.StatusPending)).
		WillReturnRows(rows)

	accepted, err := repo.Accept(context.Background(), "req-1")
	if err != nil {
		t.Fatalf("Accept returned error: %v", err)
	}
	if accepted.Status != intake.StatusArchived {
		t.Fatalf("expected archived status, got %s", accepted.Status)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRequestRepository_Accept_AlreadyArchived(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	repo := NewRequestRepository(mock)

	mock.ExpectQuery("UPDATE termination_requests").
		WithArgs(string(intake.StatusArchived), "req-1", string(intake.StatusPending)).
		WillReturnRows(pgxmock.NewRows(requestColumnNames))

	if _, err := repo.Accept(context.Background(), "req-1"); !errors.Is(err, intake.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
