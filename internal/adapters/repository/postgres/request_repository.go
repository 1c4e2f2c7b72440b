package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/hr-intake-bot/internal/core/intake"
	pgdb "github.com/ogurasousui/hr-intake-bot/internal/platform/db/postgres"
)

const uniqueViolationCode = "23505"

const requestColumns = `id, employee_code, employee_name, employee_position, employee_branch,
               reason, effective_date, has_letter, status, submitted_by, submitted_at`

// RequestRepository is the PostgreSQL implementation of the intake
// queue, used in the postgres storage mode.
type RequestRepository struct {
	pool pgdb.Queryer
}

// NewRequestRepository creates a RequestRepository.
func NewRequestRepository(pool pgdb.Queryer) *RequestRepository {
	return &RequestRepository{pool: pool}
}

// Add inserts a new request. Submission order is preserved by the seq
// column assigned on insert.
func (r *RequestRepository) Add(ctx context.Context, req *intake.Request) error {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO termination_requests (id, employee_code, employee_name, employee_position, employee_branch,
                                          reason, effective_date, has_letter, status, submitted_by, submitted_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `,
		req.ID,
		req.Employee.Code,
		req.Employee.Name,
		req.Employee.Position,
		req.Employee.Branch,
		req.Reason,
		req.EffectiveDate,
		req.HasLetter,
		string(req.Status),
		req.SubmittedBy,
		req.SubmittedAt,
	)
	if err != nil {
		return translateRequestPgError(err)
	}
	return nil
}

// ListPending returns pending requests in submission order.
func (r *RequestRepository) ListPending(ctx context.Context) ([]*intake.Request, error) {
	return r.listByStatus(ctx, intake.StatusPending)
}

// ListArchived returns archived requests in submission order.
func (r *RequestRepository) ListArchived(ctx context.Context) ([]*intake.Request, error) {
	return r.listByStatus(ctx, intake.StatusArchived)
}

func (r *RequestRepository) listByStatus(ctx context.Context, status intake.Status) ([]*intake.Request, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT `+requestColumns+`
          FROM termination_requests
         WHERE status = $1
         ORDER BY seq
    `, string(status))
	if err != nil {
		return nil, translateRequestPgError(err)
	}
	defer rows.Close()

	var out []*intake.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, translateRequestPgError(err)
	}
	return out, nil
}

// Accept archives a pending request. The status guard in the WHERE
// clause makes concurrent accepts for the same id serialize in SQL:
// exactly one update matches, the rest see no rows and map to
// intake.ErrNotFound.
func (r *RequestRepository) Accept(ctx context.Context, id string) (*intake.Request, error) {
	row := r.pool.QueryRow(ctx, `
        UPDATE termination_requests
           SET status = $1
         WHERE id = $2 AND status = $3
        RETURNING `+requestColumns+`
    `, string(intake.StatusArchived), id, string(intake.StatusPending))

	req, err := scanRequest(row)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func scanRequest(row pgx.Row) (*intake.Request, error) {
	var (
		req           intake.Request
		status        string
		effectiveDate time.Time
	)

	err := row.Scan(
		&req.ID,
		&req.Employee.Code,
		&req.Employee.Name,
		&req.Employee.Position,
		&req.Employee.Branch,
		&req.Reason,
		&effectiveDate,
		&req.HasLetter,
		&status,
		&req.SubmittedBy,
		&req.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, intake.ErrNotFound
		}
		return nil, translateRequestPgError(err)
	}

	req.EffectiveDate = effectiveDate.UTC()
	req.Status = intake.Status(status)
	return &req, nil
}

func translateRequestPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return fmt.Errorf("intake: duplicate request id: %w", err)
	}
	return err
}
