package sheets

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ogurasousui/hr-intake-bot/internal/core/employee"
	"github.com/ogurasousui/hr-intake-bot/internal/core/identity"
	"github.com/xuri/excelize/v2"
)

// buildSheet renders rows into an xlsx body like the spreadsheet
// export endpoints return.
func buildSheet(t *testing.T, rows [][]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("failed to build cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("failed to set sheet row: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("failed to write workbook: %v", err)
	}
	return buf.Bytes()
}

func serveSheet(t *testing.T, body []byte) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestIdentityDirectory_Resolve(t *testing.T) {
	t.Parallel()

	body := buildSheet(t, [][]string{
		{"token", "ism", "rol", "filial"},
		{"tok-1", "Dilnoza", "hr", "Tashkent-1"},
		{" tok-2 ", "Botir", "Manager", "Samarkand"},
	})
	srv := serveSheet(t, body)
	dir := NewIdentityDirectory(NewClient(5*time.Second), srv.URL)

	access, err := dir.Resolve(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if access.Name != "Dilnoza" || access.Role != "hr" || access.Branch != "Tashkent-1" {
		t.Fatalf("unexpected access: %+v", access)
	}

	// token cells and inputs are trimmed before comparison
	access, err = dir.Resolve(context.Background(), "  tok-2  ")
	if err != nil {
		t.Fatalf("Resolve returned error for padded token: %v", err)
	}
	if access.Name != "Botir" {
		t.Fatalf("unexpected access for padded token: %+v", access)
	}

	if _, err := dir.Resolve(context.Background(), "tok-404"); !errors.Is(err, identity.ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestIdentityDirectory_Unavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	dir := NewIdentityDirectory(NewClient(5*time.Second), srv.URL)
	if _, err := dir.Resolve(context.Background(), "tok-1"); !errors.Is(err, identity.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestIdentityDirectory_MissingTokenColumn(t *testing.T) {
	t.Parallel()

	body := buildSheet(t, [][]string{
		{"ism", "rol", "filial"},
		{"Dilnoza", "hr", "Tashkent-1"},
	})
	srv := serveSheet(t, body)

	dir := NewIdentityDirectory(NewClient(5*time.Second), srv.URL)
	if _, err := dir.Resolve(context.Background(), "tok-1"); !errors.Is(err, identity.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for malformed sheet, got %v", err)
	}
}

func TestEmployeeDirectory_Resolve(t *testing.T) {
	t.Parallel()

	body := buildSheet(t, [][]string{
		{"Код источник", "Сотрудник", "Должность", "Магазин"},
		{"E100", "Aziz", "Sales", "Tashkent-1"},
		{"E200", "Lola", "Cashier", "Tashkent-2"},
	})
	srv := serveSheet(t, body)
	dir := NewEmployeeDirectory(NewClient(5*time.Second), srv.URL)

	rec, err := dir.Resolve(context.Background(), " E100 ")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if rec.Code != "E100" || rec.Name != "Aziz" || rec.Position != "Sales" || rec.Branch != "Tashkent-1" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	if _, err := dir.Resolve(context.Background(), "E999"); !errors.Is(err, employee.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEmployeeDirectory_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	dir := NewEmployeeDirectory(NewClient(50*time.Millisecond), srv.URL)
	if _, err := dir.Resolve(context.Background(), "E100"); !errors.Is(err, employee.ErrUnavailable) {
		t.Fatalf("expected timeout to map to ErrUnavailable, got %v", err)
	}
}
