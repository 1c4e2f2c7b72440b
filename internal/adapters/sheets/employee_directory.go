package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/ogurasousui/hr-intake-bot/internal/core/employee"
	"github.com/ogurasousui/hr-intake-bot/internal/platform/obs"
)

// Column headers of the employee-directory sheet. The export comes
// from an upstream system, hence the Russian headers.
const (
	employeeColCode     = "Код источник"
	employeeColName     = "Сотрудник"
	employeeColPosition = "Должность"
	employeeColBranch   = "Магазин"
)

// EmployeeDirectory resolves employee codes against the employee
// spreadsheet export.
type EmployeeDirectory struct {
	client *Client
	url    string
}

// NewEmployeeDirectory creates an EmployeeDirectory.
func NewEmployeeDirectory(client *Client, url string) *EmployeeDirectory {
	return &EmployeeDirectory{client: client, url: url}
}

// Resolve looks the code up in the sheet. Codes are compared exactly
// after trimming surrounding whitespace.
func (d *EmployeeDirectory) Resolve(ctx context.Context, code string) (*employee.Record, error) {
	code = strings.TrimSpace(code)

	rows, err := d.client.fetchRows(ctx, d.url)
	if err != nil {
		obs.LookupFailures.WithLabelValues("employee", "unavailable").Inc()
		return nil, fmt.Errorf("%w: %v", employee.ErrUnavailable, err)
	}

	idx := headerIndex(rows)
	codeIdx, ok := idx[employeeColCode]
	if !ok {
		obs.LookupFailures.WithLabelValues("employee", "unavailable").Inc()
		return nil, fmt.Errorf("%w: sheet has no %q column", employee.ErrUnavailable, employeeColCode)
	}

	for _, row := range rows[1:] {
		if cell(row, codeIdx) != code {
			continue
		}
		return &employee.Record{
			Code:     code,
			Name:     cell(row, idx[employeeColName]),
			Position: cell(row, idx[employeeColPosition]),
			Branch:   cell(row, idx[employeeColBranch]),
		}, nil
	}

	obs.LookupFailures.WithLabelValues("employee", "miss").Inc()
	return nil, employee.ErrNotFound
}
