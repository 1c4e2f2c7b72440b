package intake

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ogurasousui/hr-intake-bot/internal/core/employee"
	"github.com/ogurasousui/hr-intake-bot/internal/core/identity"
)

const defaultNotifyTimeout = 15 * time.Second

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// Notifier forwards a finalized request to the ledger service.
// Delivery is best effort: failures are logged and never retried.
type Notifier interface {
	Notify(ctx context.Context, req *Request) error
}

// UseCase is the public interface of the intake queue.
type UseCase interface {
	Submit(ctx context.Context, in SubmitInput) (*Request, error)
	ListPending(ctx context.Context) ([]*Request, error)
	ListArchived(ctx context.Context) ([]*Request, error)
	Accept(ctx context.Context, in AcceptInput) (*Request, error)
}

// SubmitInput carries the five validated fields of a completed
// workflow run plus the submitting manager's name.
type SubmitInput struct {
	Employee      employee.Record
	Reason        string
	EffectiveDate time.Time
	HasLetter     bool
	SubmittedBy   string
}

// AcceptInput identifies the request to archive and the acting identity.
type AcceptInput struct {
	ID    string
	Actor identity.Identity
}

// Service implements the pending/archived lifecycle HR operates against.
type Service struct {
	repo          Repository
	notifier      Notifier
	clock         Clock
	log           *slog.Logger
	notifyTimeout time.Duration
}

// NewService creates a Service. A nil notifier disables ledger sync.
func NewService(repo Repository, notifier Notifier, clock Clock, log *slog.Logger) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:          repo,
		notifier:      notifier,
		clock:         clock,
		log:           log,
		notifyTimeout: defaultNotifyTimeout,
	}
}

// Submit enqueues a new pending request and triggers ledger sync in
// the background. The caller gets the created request regardless of
// the sync outcome.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*Request, error) {
	if strings.TrimSpace(in.Employee.Code) == "" || strings.TrimSpace(in.Employee.Name) == "" {
		return nil, ErrInvalidEmployee
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, ErrInvalidReason
	}
	if in.EffectiveDate.IsZero() {
		return nil, ErrInvalidDate
	}
	if strings.TrimSpace(in.SubmittedBy) == "" {
		return nil, ErrInvalidSubmitter
	}

	req := &Request{
		ID:            uuid.NewString(),
		Employee:      in.Employee,
		Reason:        strings.TrimSpace(in.Reason),
		EffectiveDate: in.EffectiveDate,
		HasLetter:     in.HasLetter,
		Status:        StatusPending,
		SubmittedBy:   in.SubmittedBy,
		SubmittedAt:   s.clock.Now(),
	}

	if err := s.repo.Add(ctx, req); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		go s.notify(req.Clone())
	}

	return req.Clone(), nil
}

func (s *Service) notify(req *Request) {
	ctx, cancel := context.WithTimeout(context.Background(), s.notifyTimeout)
	defer cancel()

	if err := s.notifier.Notify(ctx, req); err != nil {
		s.log.Error("ledger sync failed", "request_id", req.ID, "error", err)
	}
}

// ListPending returns pending requests in submission order.
func (s *Service) ListPending(ctx context.Context) ([]*Request, error) {
	return s.repo.ListPending(ctx)
}

// ListArchived returns accepted requests in submission order.
func (s *Service) ListArchived(ctx context.Context) ([]*Request, error) {
	return s.repo.ListArchived(ctx)
}

// Accept transitions a pending request to archived. Only HR identities
// may accept; a missing or already archived id yields ErrNotFound.
func (s *Service) Accept(ctx context.Context, in AcceptInput) (*Request, error) {
	if in.Actor.Role != identity.RoleHR {
		s.log.Warn("accept rejected", "request_id", in.ID, "chat_id", in.Actor.ChatID, "role", string(in.Actor.Role))
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(in.ID) == "" {
		return nil, ErrNotFound
	}

	req, err := s.repo.Accept(ctx, in.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.log.Info("request accepted", "request_id", req.ID, "accepted_by", in.Actor.Name)
	return req, nil
}
