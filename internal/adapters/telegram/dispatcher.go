package telegram

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/ogurasousui/hr-intake-bot/internal/core/identity"
	"github.com/ogurasousui/hr-intake-bot/internal/core/intake"
	"github.com/ogurasousui/hr-intake-bot/internal/core/workflow"
	"github.com/ogurasousui/hr-intake-bot/internal/platform/obs"
)

// workerQueueSize bounds how many updates may pile up for one chat
// while a slow directory lookup is in flight for it.
const workerQueueSize = 32

// API is the slice of the Telegram client the dispatcher uses.
// *tgbotapi.BotAPI satisfies it.
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Dispatcher is the chat transport. It long-polls for updates and
// fans them out to one worker goroutine per chat, so inputs for a
// single chat stay strictly ordered while a slow lookup on one chat
// never stalls the others.
type Dispatcher struct {
	api         API
	gate        *identity.Gate
	flow        *workflow.Service
	queue       intake.UseCase
	log         *slog.Logger
	pollTimeout time.Duration
	limiter     *rate.Limiter

	mu      sync.Mutex
	workers map[int64]chan tgbotapi.Update
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(api API, gate *identity.Gate, flow *workflow.Service, queue intake.UseCase, pollTimeout time.Duration, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		api:         api,
		gate:        gate,
		flow:        flow,
		queue:       queue,
		log:         log,
		pollTimeout: pollTimeout,
		// Telegram allows roughly 30 messages per second per bot.
		limiter: rate.NewLimiter(rate.Every(40*time.Millisecond), 5),
		workers: make(map[int64]chan tgbotapi.Update),
	}
}

// Run polls for updates until ctx is cancelled, then drains the
// per-chat workers.
func (d *Dispatcher) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = int(d.pollTimeout / time.Second)
	updates := d.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			d.api.StopReceivingUpdates()
			d.stopWorkers()
			return nil
		case upd, ok := <-updates:
			if !ok {
				d.stopWorkers()
				return nil
			}
			chatID, ok := updateChatID(upd)
			if !ok {
				continue
			}
			d.dispatch(ctx, chatID, upd)
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, chatID int64, upd tgbotapi.Update) {
	d.mu.Lock()
	ch, ok := d.workers[chatID]
	if !ok {
		ch = make(chan tgbotapi.Update, workerQueueSize)
		d.workers[chatID] = ch
		d.wg.Add(1)
		go d.worker(ctx, ch)
	}
	d.mu.Unlock()

	select {
	case ch <- upd:
	default:
		d.log.Warn("dropping update, chat worker backlog full", "chat_id", chatID)
	}
}

func (d *Dispatcher) worker(ctx context.Context, ch <-chan tgbotapi.Update) {
	defer d.wg.Done()
	for upd := range ch {
		d.handle(ctx, upd)
	}
}

func (d *Dispatcher) stopWorkers() {
	d.mu.Lock()
	for _, ch := range d.workers {
		close(ch)
	}
	d.workers = make(map[int64]chan tgbotapi.Update)
	d.mu.Unlock()
	d.wg.Wait()
}

func updateChatID(upd tgbotapi.Update) (int64, bool) {
	switch {
	case upd.Message != nil:
		return upd.Message.Chat.ID, true
	case upd.CallbackQuery != nil && upd.CallbackQuery.Message != nil:
		return upd.CallbackQuery.Message.Chat.ID, true
	default:
		return 0, false
	}
}

func (d *Dispatcher) handle(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.CallbackQuery != nil:
		d.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil:
		d.handleMessage(ctx, upd.Message)
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := msg.Text

	if msg.IsCommand() && msg.Command() == "start" {
		if id, ok := d.gate.Lookup(chatID); ok {
			d.sendMenu(ctx, chatID, id.Role)
		} else {
			d.sendText(ctx, chatID, msgAskToken)
		}
		return
	}

	id, fresh, err := d.gate.Authorize(ctx, chatID, text)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrTokenNotFound):
			obs.AuthFailures.Inc()
			d.sendText(ctx, chatID, msgBadToken)
		case errors.Is(err, identity.ErrUnavailable):
			d.sendText(ctx, chatID, msgUnavailable)
		default:
			d.log.Error("authorization failed", "chat_id", chatID, "error", err)
			d.sendText(ctx, chatID, msgInternalError)
		}
		return
	}
	if fresh {
		obs.AuthSuccesses.Inc()
		d.sendMenu(ctx, chatID, id.Role)
		return
	}

	if (msg.IsCommand() && msg.Command() == "cancel") || text == btnCancel {
		if id.Role == identity.RoleManager && d.flow.Cancel(chatID) {
			d.send(ctx, withKeyboard(tgbotapi.NewMessage(chatID, msgDiscarded), managerMenu()))
			return
		}
		d.sendMenu(ctx, chatID, id.Role)
		return
	}

	switch id.Role {
	case identity.RoleManager:
		d.handleManagerMessage(ctx, chatID, id, text)
	case identity.RoleHR:
		d.handleHRMessage(ctx, chatID, text)
	}
}

func (d *Dispatcher) handleManagerMessage(ctx context.Context, chatID int64, id identity.Identity, text string) {
	if text == btnReport {
		reply := d.flow.Start(chatID)
		d.sendReply(ctx, chatID, reply)
		return
	}

	if d.flow.Active(chatID) {
		reply, err := d.flow.Handle(ctx, chatID, id.Name, workflow.Input{Text: text})
		if err != nil {
			d.log.Error("workflow step failed", "chat_id", chatID, "error", err)
			d.sendText(ctx, chatID, msgInternalError)
			return
		}
		d.sendReply(ctx, chatID, reply)
		return
	}

	d.sendMenu(ctx, chatID, identity.RoleManager)
}

func (d *Dispatcher) handleHRMessage(ctx context.Context, chatID int64, text string) {
	switch text {
	case btnPending:
		d.listPending(ctx, chatID)
	case btnArchive:
		d.listArchive(ctx, chatID)
	default:
		d.sendMenu(ctx, chatID, identity.RoleHR)
	}
}

func (d *Dispatcher) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if _, err := d.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		d.log.Warn("callback ack failed", "error", err)
	}
	if cq.Message == nil {
		return
	}
	chatID := cq.Message.Chat.ID

	id, ok := d.gate.Lookup(chatID)
	if !ok {
		d.sendText(ctx, chatID, msgAskToken)
		return
	}

	if choice, ok := parseYesNo(cq.Data); ok {
		if id.Role != identity.RoleManager || !d.flow.Active(chatID) {
			return
		}
		d.send(ctx, removeInlineKeyboard(chatID, cq.Message.MessageID))
		reply, err := d.flow.Handle(ctx, chatID, id.Name, workflow.Input{Choice: &choice})
		if err != nil {
			d.log.Error("workflow step failed", "chat_id", chatID, "error", err)
			d.sendText(ctx, chatID, msgInternalError)
			return
		}
		d.sendReply(ctx, chatID, reply)
		return
	}

	if requestID, ok := parseAccept(cq.Data); ok {
		d.acceptRequest(ctx, chatID, cq.Message.MessageID, requestID, id)
	}
}

func (d *Dispatcher) acceptRequest(ctx context.Context, chatID int64, messageID int, requestID string, actor identity.Identity) {
	_, err := d.queue.Accept(ctx, intake.AcceptInput{ID: requestID, Actor: actor})
	switch {
	case err == nil:
		obs.RequestsAccepted.Inc()
		d.send(ctx, removeInlineKeyboard(chatID, messageID))
		d.sendText(ctx, chatID, msgAccepted)
	case errors.Is(err, intake.ErrNotFound):
		d.send(ctx, removeInlineKeyboard(chatID, messageID))
		d.sendText(ctx, chatID, msgAlreadyHandled)
	case errors.Is(err, intake.ErrPermissionDenied):
		d.sendText(ctx, chatID, msgNoPermission)
	default:
		d.log.Error("accept failed", "request_id", requestID, "error", err)
		d.sendText(ctx, chatID, msgInternalError)
	}
}

func (d *Dispatcher) listPending(ctx context.Context, chatID int64) {
	requests, err := d.queue.ListPending(ctx)
	if err != nil {
		d.log.Error("list pending failed", "error", err)
		d.sendText(ctx, chatID, msgInternalError)
		return
	}
	if len(requests) == 0 {
		d.send(ctx, withKeyboard(tgbotapi.NewMessage(chatID, msgEmptyPending), hrMenu()))
		return
	}
	for _, req := range requests {
		msg := tgbotapi.NewMessage(chatID, requestCard(req))
		msg.ReplyMarkup = acceptInline(req.ID)
		d.send(ctx, msg)
	}
}

func (d *Dispatcher) listArchive(ctx context.Context, chatID int64) {
	requests, err := d.queue.ListArchived(ctx)
	if err != nil {
		d.log.Error("list archive failed", "error", err)
		d.sendText(ctx, chatID, msgInternalError)
		return
	}
	if len(requests) == 0 {
		d.send(ctx, withKeyboard(tgbotapi.NewMessage(chatID, msgEmptyArchive), hrMenu()))
		return
	}
	for _, req := range requests {
		d.sendText(ctx, chatID, requestCard(req))
	}
}

func (d *Dispatcher) sendReply(ctx context.Context, chatID int64, reply workflow.Reply) {
	switch reply.Kind {
	case workflow.ReplyAskCode:
		d.send(ctx, withKeyboard(tgbotapi.NewMessage(chatID, msgAskCode), cancelKeyboard()))
	case workflow.ReplyEmployeeNotFound:
		d.sendText(ctx, chatID, msgCodeNotFound)
	case workflow.ReplyDirectoryUnavailable:
		d.sendText(ctx, chatID, msgUnavailable)
	case workflow.ReplyAskReason:
		d.send(ctx, withKeyboard(tgbotapi.NewMessage(chatID, employeeCard(reply.Employee)), reasonKeyboard()))
	case workflow.ReplyAskDate:
		d.send(ctx, withKeyboard(tgbotapi.NewMessage(chatID, msgAskDate), cancelKeyboard()))
	case workflow.ReplyBadDate:
		d.sendText(ctx, chatID, msgBadDate)
	case workflow.ReplyAskLetter:
		msg := tgbotapi.NewMessage(chatID, msgAskLetter)
		msg.ReplyMarkup = yesNoInline()
		d.send(ctx, msg)
	case workflow.ReplyAskConfirm:
		msg := tgbotapi.NewMessage(chatID, summaryText(reply.Summary))
		msg.ReplyMarkup = yesNoInline()
		d.send(ctx, msg)
	case workflow.ReplySubmitted:
		obs.RequestsSubmitted.Inc()
		d.send(ctx, withKeyboard(tgbotapi.NewMessage(chatID, msgSubmitted), managerMenu()))
	case workflow.ReplyDiscarded:
		d.send(ctx, withKeyboard(tgbotapi.NewMessage(chatID, msgDiscarded), managerMenu()))
	}
}

func (d *Dispatcher) sendMenu(ctx context.Context, chatID int64, role identity.Role) {
	if role == identity.RoleManager {
		d.send(ctx, withKeyboard(tgbotapi.NewMessage(chatID, msgManagerMenu), managerMenu()))
		return
	}
	d.send(ctx, withKeyboard(tgbotapi.NewMessage(chatID, msgHRMenu), hrMenu()))
}

func (d *Dispatcher) sendText(ctx context.Context, chatID int64, text string) {
	d.send(ctx, tgbotapi.NewMessage(chatID, text))
}

func (d *Dispatcher) send(ctx context.Context, c tgbotapi.Chattable) {
	if err := d.limiter.Wait(ctx); err != nil {
		return
	}
	if _, err := d.api.Send(c); err != nil {
		d.log.Warn("telegram send failed", "error", err)
	}
}

func withKeyboard(msg tgbotapi.MessageConfig, kb tgbotapi.ReplyKeyboardMarkup) tgbotapi.MessageConfig {
	msg.ReplyMarkup = kb
	return msg
}
