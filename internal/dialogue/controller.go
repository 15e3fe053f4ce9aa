package dialogue

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magnitronlab/preorder-bot/core/logger"
	"github.com/magnitronlab/preorder-bot/core/telegram/keyboard"
	"github.com/magnitronlab/preorder-bot/core/telegram/state"
	"github.com/magnitronlab/preorder-bot/internal/i18n"
	"github.com/magnitronlab/preorder-bot/internal/order"
)

// Reply is a message to the acting user.
type Reply struct {
	Text     string
	Markdown bool
	Buttons  [][]keyboard.InlineBtn
}

// Responder delivers replies to the acting user.
type Responder interface {
	Respond(ctx context.Context, r Reply) error
}

// Notifier delivers out-of-band messages to the operator.
type Notifier interface {
	Notify(ctx context.Context, recipient int64, text string) error
}

// Clock returns the current time.
type Clock func() time.Time

// Options wires a Controller.
type Options struct {
	Sessions   state.Store[Session]
	Orders     order.Store
	Notifier   Notifier
	OperatorID int64
	Clock      Clock
}

// Controller drives every user's dialogue.
type Controller struct {
	sessions   state.Store[Session]
	orders     order.Store
	notifier   Notifier
	operatorID int64
	now        Clock
}

// New builds a Controller. Missing sessions and clock get in-memory and wall-clock defaults.
func New(opts Options) *Controller {
	c := &Controller{
		sessions:   opts.Sessions,
		orders:     opts.Orders,
		notifier:   opts.Notifier,
		operatorID: opts.OperatorID,
		now:        opts.Clock,
	}
	if c.sessions == nil {
		c.sessions = state.NewMemoryStore[Session]()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Session returns the live session of userID.
func (c *Controller) Session(userID int64) (Session, bool) {
	return c.sessions.Get(userID)
}

// ActiveSessions reports how many dialogues are in progress.
func (c *Controller) ActiveSessions() int {
	return c.sessions.Len()
}

// step is the outcome of one transition. Side effects are applied after the
// session store lock is released.
type step struct {
	from, to   state.State
	lang       i18n.Language
	reply      *Reply
	userAlert  *i18n.UserAlert
	record     *order.Record
	alertOrder bool
	ignored    string
}

// Handle applies ev from u and performs the resulting side effects in order:
// record append, operator notification, user reply. Append and notification
// failures are logged and never change the outcome. A session that could not be
// saved aborts the step before any side effect; that error and a failed reply
// are returned.
func (c *Controller) Handle(ctx context.Context, u User, ev Event, resp Responder) error {
	now := c.now()
	var st step
	err := c.sessions.Update(u.ID, func(cur Session, ok bool) (Session, bool) {
		var next Session
		next, st = c.transition(cur, ok, u, ev, now)
		return next, !Terminal(st.to) && st.to != StateIdle
	})
	if err != nil {
		logger.Error(ctx, "dialogue", "session.save",
			slog.String("status", "fail"),
			slog.String("kind", ev.Kind.String()),
			slog.String("from_state", string(st.from)),
			slog.String("to_state", string(st.to)),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("dialogue: session not saved: %w", err)
	}

	if st.ignored != "" {
		logger.Debug(ctx, "dialogue", "event.ignored",
			slog.String("status", "skip"),
			slog.String("kind", ev.Kind.String()),
			slog.String("state", string(st.from)),
			slog.String("reason", st.ignored),
		)
		return nil
	}
	logger.Info(ctx, "dialogue", "transition",
		slog.String("status", "ok"),
		slog.String("kind", ev.Kind.String()),
		slog.String("interaction", interactionAttr(ev)),
		slog.String("from_state", string(st.from)),
		slog.String("to_state", string(st.to)),
		slog.String("lang", string(st.lang)),
	)

	if st.record != nil {
		c.appendRecord(ctx, *st.record)
	}
	if st.userAlert != nil {
		c.notify(ctx, "user_alert", i18n.NewUserAlert(*st.userAlert))
	}
	if st.record != nil && st.alertOrder {
		c.notify(ctx, "order_alert", i18n.NewOrderAlert(orderAlert(*st.record)))
	}
	if st.reply == nil || resp == nil {
		return nil
	}
	return resp.Respond(ctx, *st.reply)
}

func interactionAttr(ev Event) string {
	if ev.Kind != KindInteraction {
		return ""
	}
	return ev.Interaction.String()
}

func (c *Controller) isOperator(userID int64) bool {
	return c.operatorID != 0 && userID == c.operatorID
}

// transition computes the next session for ev. It runs under the session store lock
// and must not perform I/O.
func (c *Controller) transition(cur Session, ok bool, u User, ev Event, now time.Time) (Session, step) {
	from := StateIdle
	if ok {
		from = cur.State
	}
	st := step{from: from, to: from}

	if ev.Kind == KindStart {
		next := newSession(u, now)
		st.to = next.State
		st.reply = &Reply{
			Text:    i18n.Text(i18n.Primary, i18n.ChooseLanguage),
			Buttons: languageButtons(),
		}
		if !c.isOperator(u.ID) {
			st.userAlert = &i18n.UserAlert{
				Handle:    next.DisplayHandle,
				UserID:    u.ID,
				FirstName: u.FirstName,
				Timestamp: now.Format(order.TimestampLayout),
			}
		}
		return next, st
	}

	if !ok {
		st.ignored = "no_session"
		return cur, st
	}
	st.lang = cur.Lang()

	switch ev.Kind {
	case KindCancel:
		st.to = StateCancelled
		st.reply = &Reply{Text: i18n.Text(cur.Lang(), i18n.Cancelled), Markdown: true}
		return cur, st
	case KindCommand:
		return cur, decline(st, cur.Lang())
	case KindInteraction:
		return press(cur, st, ev.Interaction)
	case KindText:
		return c.answer(cur, st, ev.Text)
	}
	st.ignored = "unknown_kind"
	return cur, st
}

func press(cur Session, st step, in Interaction) (Session, step) {
	switch {
	case cur.State == StateChoosingLanguage:
		lang, ok := in.language()
		if !ok {
			break
		}
		cur.Language = lang
		cur.State = StateAwaitingDecision
		st.to, st.lang = cur.State, lang
		st.reply = &Reply{
			Text:     i18n.Text(lang, i18n.Welcome) + "\n\n" + i18n.Text(lang, i18n.Conditions),
			Markdown: true,
			Buttons:  termsButtons(lang),
		}
		return cur, st

	case cur.State == StateAwaitingDecision && in == Accept:
		cur.State = StateWaitingName
		st.to = cur.State
		st.reply = &Reply{Text: i18n.Text(cur.Lang(), i18n.Agreed), Markdown: true}
		return cur, st
	}
	// Decline, and any button the current state does not expect, end the dialogue.
	return cur, decline(st, cur.Lang())
}

func decline(st step, lang i18n.Language) step {
	st.to = StateCancelled
	st.reply = &Reply{Text: i18n.Text(lang, i18n.Thinking)}
	return st
}

func (c *Controller) answer(cur Session, st step, text string) (Session, step) {
	if !collecting(cur.State) {
		st.ignored = "awaiting_button"
		return cur, st
	}
	lang := cur.Lang()
	value := strings.TrimSpace(text)
	if value == "" {
		st.reply = &Reply{Text: i18n.Text(lang, promptFor(cur.State)), Markdown: true}
		return cur, st
	}

	switch cur.State {
	case StateWaitingName:
		cur.Fields.FirstName = value
		cur.State = StateWaitingSurname
	case StateWaitingSurname:
		cur.Fields.LastName = value
		cur.State = StateWaitingPhone
	case StateWaitingPhone:
		cur.Fields.Phone = value
		cur.State = StateWaitingEmail
	case StateWaitingEmail:
		cur.Fields.Email = value
		cur.State = StateWaitingAddress
	case StateWaitingAddress:
		cur.Fields.Address = value
		rec := recordOf(cur)
		st.to = StateCompleted
		st.record = &rec
		st.alertOrder = !c.isOperator(cur.UserID)
		st.reply = &Reply{Text: i18n.Text(lang, i18n.ThankYou), Markdown: true}
		return cur, st
	}
	st.to = cur.State
	st.reply = &Reply{Text: i18n.Text(lang, promptFor(cur.State)), Markdown: true}
	return cur, st
}

// promptFor returns the text asking for the answer s waits for.
func promptFor(s state.State) i18n.Key {
	switch s {
	case StateWaitingSurname:
		return i18n.AskSurname
	case StateWaitingPhone:
		return i18n.AskPhone
	case StateWaitingEmail:
		return i18n.AskEmail
	case StateWaitingAddress:
		return i18n.AskAddress
	}
	return i18n.Agreed
}

func recordOf(s Session) order.Record {
	return order.Record{
		Timestamp:     s.StartedAt,
		Language:      s.Lang(),
		DisplayHandle: s.DisplayHandle,
		UserID:        s.UserID,
		FirstName:     s.Fields.FirstName,
		LastName:      s.Fields.LastName,
		Phone:         s.Fields.Phone,
		Email:         s.Fields.Email,
		Address:       s.Fields.Address,
		Status:        order.StatusNew(),
	}
}

func orderAlert(r order.Record) i18n.OrderAlert {
	return i18n.OrderAlert{
		Language:  r.Language,
		Handle:    r.DisplayHandle,
		UserID:    r.UserID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Email:     r.Email,
		Address:   r.Address,
		Timestamp: r.FormatTimestamp(),
	}
}

func languageButtons() [][]keyboard.InlineBtn {
	row := make([]keyboard.InlineBtn, 0, 2)
	for _, in := range []Interaction{LanguagePrimary, LanguageSecondary} {
		unique, payload := in.Callback()
		key := i18n.ButtonRussian
		if in == LanguageSecondary {
			key = i18n.ButtonEnglish
		}
		row = append(row, keyboard.InlineBtn{Text: i18n.Text(i18n.Primary, key), Unique: unique, Data: payload})
	}
	return [][]keyboard.InlineBtn{row}
}

func termsButtons(lang i18n.Language) [][]keyboard.InlineBtn {
	accUnique, accPayload := Accept.Callback()
	decUnique, decPayload := Decline.Callback()
	return [][]keyboard.InlineBtn{
		{{Text: i18n.Text(lang, i18n.Agree), Unique: accUnique, Data: accPayload}},
		{{Text: i18n.Text(lang, i18n.Think), Unique: decUnique, Data: decPayload}},
	}
}

func (c *Controller) appendRecord(ctx context.Context, rec order.Record) {
	if c.orders == nil {
		logger.Warn(ctx, "dialogue", "order.append", slog.String("status", "skip"), slog.String("reason", "no_store"))
		return
	}
	if err := c.orders.Append(ctx, rec); err != nil {
		logger.Error(ctx, "dialogue", "order.append",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
	}
}

func (c *Controller) notify(ctx context.Context, kind, text string) {
	if c.notifier == nil || c.operatorID == 0 {
		return
	}
	if err := c.notifier.Notify(ctx, c.operatorID, text); err != nil {
		logger.Warn(ctx, "dialogue", "operator.notify",
			slog.String("status", "fail"),
			slog.String("kind", kind),
			slog.String("err", err.Error()),
		)
	}
}
