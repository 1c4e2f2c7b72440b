package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ogurasousui/hr-intake-bot/internal/core/employee"
	"github.com/ogurasousui/hr-intake-bot/internal/core/intake"
)

// DateLayout is the fixed format managers enter the effective date in.
const DateLayout = "02.01.2006"

// Input is one inbound interaction for an active flow. Choice is set
// for inline yes/no taps, Text for plain messages.
type Input struct {
	Text   string
	Choice *bool
}

// ReplyKind tells the transport what to render next.
type ReplyKind int

const (
	ReplyAskCode ReplyKind = iota
	ReplyEmployeeNotFound
	ReplyDirectoryUnavailable
	ReplyAskReason
	ReplyAskDate
	ReplyBadDate
	ReplyAskLetter
	ReplyAskConfirm
	ReplySubmitted
	ReplyDiscarded
)

// Summary is the collected data shown on the confirmation step.
type Summary struct {
	Employee      employee.Record
	Reason        string
	EffectiveDate time.Time
	HasLetter     bool
}

// Reply is the workflow's answer to one input. Payload fields are set
// per kind: Employee for ReplyAskReason, Summary for ReplyAskConfirm,
// Request for ReplySubmitted.
type Reply struct {
	Kind     ReplyKind
	Employee *employee.Record
	Summary  *Summary
	Request  *intake.Request
}

// session is the per-chat data accumulator. At most one exists per
// chat id; it is dropped on confirm, decline or cancel.
type session struct {
	step      Step
	emp       *employee.Record
	reason    string
	date      time.Time
	hasLetter bool
}

// Service drives the multi-step termination report, one independent
// flow per chat id.
type Service struct {
	mu       sync.Mutex
	sessions map[int64]*session

	employees employee.Directory
	queue     intake.UseCase
	log       *slog.Logger
}

// NewService creates a Service.
func NewService(employees employee.Directory, queue intake.UseCase, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		sessions:  make(map[int64]*session),
		employees: employees,
		queue:     queue,
		log:       log,
	}
}

// Active reports whether the chat has a flow in progress.
func (s *Service) Active(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[chatID] != nil
}

// Step returns the chat's current step, StepIdle when no flow exists.
func (s *Service) Step(chatID int64) Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[chatID]
	if !ok {
		return StepIdle
	}
	return sess.step
}

// Start opens a fresh flow for the chat, replacing any flow already in
// progress, and asks for the employee code.
func (s *Service) Start(chatID int64) Reply {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = &session{step: StepAwaitingCode}
	return Reply{Kind: ReplyAskCode}
}

// Cancel discards the chat's flow, if any. It reports whether a flow
// was actually in progress.
func (s *Service) Cancel(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[chatID]; !ok {
		return false
	}
	delete(s.sessions, chatID)
	return true
}

// Handle advances the chat's flow with one input. Invalid input for
// the current step re-prompts the same step and leaves collected data
// untouched. Inputs for a chat must arrive serialized; the caller owns
// that ordering.
func (s *Service) Handle(ctx context.Context, chatID int64, submitter string, in Input) (Reply, error) {
	s.mu.Lock()
	sess, ok := s.sessions[chatID]
	s.mu.Unlock()
	if !ok {
		return Reply{}, ErrNoActiveFlow
	}

	switch sess.step {
	case StepAwaitingCode:
		return s.handleCode(ctx, sess, in)
	case StepAwaitingReason:
		return s.handleReason(sess, in)
	case StepAwaitingDate:
		return s.handleDate(sess, in)
	case StepAwaitingLetter:
		return s.handleLetter(sess, in)
	case StepAwaitingConfirm:
		return s.handleConfirm(ctx, chatID, sess, submitter, in)
	default:
		return Reply{}, fmt.Errorf("workflow: unexpected step %s", sess.step)
	}
}

func (s *Service) handleCode(ctx context.Context, sess *session, in Input) (Reply, error) {
	code := strings.TrimSpace(in.Text)
	if code == "" {
		return Reply{Kind: ReplyEmployeeNotFound}, nil
	}

	rec, err := s.employees.Resolve(ctx, code)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			return Reply{Kind: ReplyEmployeeNotFound}, nil
		}
		s.log.Warn("employee directory lookup failed", "code", code, "error", err)
		return Reply{Kind: ReplyDirectoryUnavailable}, nil
	}

	sess.emp = rec
	sess.step = StepAwaitingReason
	return Reply{Kind: ReplyAskReason, Employee: rec}, nil
}

func (s *Service) handleReason(sess *session, in Input) (Reply, error) {
	reason := strings.TrimSpace(in.Text)
	if reason == "" {
		return Reply{Kind: ReplyAskReason, Employee: sess.emp}, nil
	}

	sess.reason = reason
	sess.step = StepAwaitingDate
	return Reply{Kind: ReplyAskDate}, nil
}

func (s *Service) handleDate(sess *session, in Input) (Reply, error) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(in.Text))
	if err != nil {
		return Reply{Kind: ReplyBadDate}, nil
	}

	sess.date = date
	sess.step = StepAwaitingLetter
	return Reply{Kind: ReplyAskLetter}, nil
}

func (s *Service) handleLetter(sess *session, in Input) (Reply, error) {
	if in.Choice == nil {
		return Reply{Kind: ReplyAskLetter}, nil
	}

	sess.hasLetter = *in.Choice
	sess.step = StepAwaitingConfirm
	return Reply{Kind: ReplyAskConfirm, Summary: s.summary(sess)}, nil
}

func (s *Service) handleConfirm(ctx context.Context, chatID int64, sess *session, submitter string, in Input) (Reply, error) {
	if in.Choice == nil {
		return Reply{Kind: ReplyAskConfirm, Summary: s.summary(sess)}, nil
	}

	if !*in.Choice {
		s.drop(chatID)
		return Reply{Kind: ReplyDiscarded}, nil
	}

	req, err := s.queue.Submit(ctx, intake.SubmitInput{
		Employee:      *sess.emp,
		Reason:        sess.reason,
		EffectiveDate: sess.date,
		HasLetter:     sess.hasLetter,
		SubmittedBy:   submitter,
	})
	if err != nil {
		return Reply{}, fmt.Errorf("submit request: %w", err)
	}

	s.drop(chatID)
	s.log.Info("termination request submitted", "request_id", req.ID, "employee_code", req.Employee.Code, "submitted_by", submitter)
	return Reply{Kind: ReplySubmitted, Request: req}, nil
}

func (s *Service) summary(sess *session) *Summary {
	return &Summary{
		Employee:      *sess.emp,
		Reason:        sess.reason,
		EffectiveDate: sess.date,
		HasLetter:     sess.hasLetter,
	}
}

func (s *Service) drop(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}
