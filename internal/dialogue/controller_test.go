package dialogue

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magnitronlab/preorder-bot/core/telegram/state"
	"github.com/magnitronlab/preorder-bot/internal/i18n"
	"github.com/magnitronlab/preorder-bot/internal/order"
)

const operatorID int64 = 215798032

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.Local)

type replies struct {
	mu  sync.Mutex
	got []Reply
	err error
}

func (r *replies) Respond(_ context.Context, rep Reply) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, rep)
	return r.err
}

func (r *replies) last(t *testing.T) Reply {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.got)
	return r.got[len(r.got)-1]
}

type notice struct {
	to   int64
	text string
}

type notifier struct {
	mu   sync.Mutex
	sent []notice
	err  error
}

func (n *notifier) Notify(_ context.Context, to int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notice{to: to, text: text})
	return n.err
}

func (n *notifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type memStore struct {
	mu      sync.Mutex
	records []order.Record
	err     error
}

func (s *memStore) Append(_ context.Context, rec order.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *memStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// flakySessions is a session store whose writes can be made to fail. A failed
// Update still runs fn, as a store that loses an optimistic-lock race does.
type flakySessions struct {
	state.Store[Session]
	fail bool
}

func (f *flakySessions) Update(userID int64, fn func(Session, bool) (Session, bool)) error {
	if f.fail {
		cur, ok := f.Get(userID)
		fn(cur, ok)
		return errors.New("transaction failed")
	}
	return f.Store.Update(userID, fn)
}

type harness struct {
	ctrl  *Controller
	store *memStore
	note  *notifier
	resp  *replies
}

func newHarness() *harness {
	h := &harness{store: &memStore{}, note: &notifier{}, resp: &replies{}}
	h.ctrl = New(Options{
		Orders:     h.store,
		Notifier:   h.note,
		OperatorID: operatorID,
		Clock:      func() time.Time { return fixedNow },
	})
	return h
}

func (h *harness) send(t *testing.T, u User, evs ...Event) {
	t.Helper()
	for _, ev := range evs {
		require.NoError(t, h.ctrl.Handle(context.Background(), u, ev, h.resp))
	}
}

func (h *harness) stateOf(id int64) string {
	s, ok := h.ctrl.Session(id)
	if !ok {
		return string(StateIdle)
	}
	return string(s.State)
}

var ana = User{ID: 1001, Username: "ana_p", FirstName: "Ana"}

var anaAnswers = []Event{
	Text("Ana"),
	Text("Popescu"),
	Text("+40700000000"),
	Text("ana@example.com"),
	Text("Romania, Cluj, Str. X 1, 400001"),
}

func TestCompletedOrderInPrimaryLanguage(t *testing.T) {
	h := newHarness()

	h.send(t, ana, Start())
	assert.Equal(t, string(StateChoosingLanguage), h.stateOf(ana.ID))
	first := h.resp.last(t)
	assert.Equal(t, i18n.Text(i18n.Primary, i18n.ChooseLanguage), first.Text)
	require.Len(t, first.Buttons, 1)
	require.Len(t, first.Buttons[0], 2)
	assert.Equal(t, CallbackLanguage, first.Buttons[0][0].Unique)
	assert.Equal(t, "ru", first.Buttons[0][0].Data)
	assert.Equal(t, "en", first.Buttons[0][1].Data)

	h.send(t, ana, Press(LanguagePrimary))
	terms := h.resp.last(t)
	assert.Contains(t, terms.Text, "Magnitron Lab")
	assert.Contains(t, terms.Text, "Условия заказа Magnitron-2")
	assert.True(t, terms.Markdown)
	require.Len(t, terms.Buttons, 2)
	assert.Equal(t, PayloadAccept, terms.Buttons[0][0].Data)
	assert.Equal(t, PayloadDecline, terms.Buttons[1][0].Data)

	h.send(t, ana, Press(Accept))
	assert.Equal(t, i18n.Text(i18n.Russian, i18n.Agreed), h.resp.last(t).Text)

	prompts := []i18n.Key{i18n.AskSurname, i18n.AskPhone, i18n.AskEmail, i18n.AskAddress}
	for i, ev := range anaAnswers[:4] {
		h.send(t, ana, ev)
		assert.Equal(t, i18n.Text(i18n.Russian, prompts[i]), h.resp.last(t).Text)
	}
	h.send(t, ana, anaAnswers[4])

	assert.Equal(t, i18n.Text(i18n.Russian, i18n.ThankYou), h.resp.last(t).Text)
	assert.Equal(t, string(StateIdle), h.stateOf(ana.ID))
	assert.Zero(t, h.ctrl.ActiveSessions())

	require.Len(t, h.store.records, 1)
	rec := h.store.records[0]
	assert.Equal(t, order.Record{
		Timestamp:     fixedNow,
		Language:      i18n.Russian,
		DisplayHandle: "ana_p",
		UserID:        ana.ID,
		FirstName:     "Ana",
		LastName:      "Popescu",
		Phone:         "+40700000000",
		Email:         "ana@example.com",
		Address:       "Romania, Cluj, Str. X 1, 400001",
		Status:        "Новый",
	}, rec)

	require.Equal(t, 2, h.note.count())
	assert.Equal(t, operatorID, h.note.sent[0].to)
	assert.Contains(t, h.note.sent[0].text, "Новый пользователь")
	assert.Contains(t, h.note.sent[1].text, "НОВЫЙ ЗАКАЗ")
	assert.Contains(t, h.note.sent[1].text, "Popescu")
}

func TestDeclineInSecondaryLanguage(t *testing.T) {
	h := newHarness()
	h.send(t, ana, Start(), Press(LanguageSecondary))
	assert.Contains(t, h.resp.last(t).Text, "Magnitron-2 Order Terms")

	h.send(t, ana, Press(Decline))
	assert.Equal(t, i18n.Text(i18n.English, i18n.Thinking), h.resp.last(t).Text)
	assert.Equal(t, string(StateIdle), h.stateOf(ana.ID))
	assert.Zero(t, h.store.len())

	require.Equal(t, 1, h.note.count())
	assert.NotContains(t, h.note.sent[0].text, "НОВЫЙ ЗАКАЗ")
}

func TestOperatorIsNeverNotified(t *testing.T) {
	h := newHarness()
	op := User{ID: operatorID, Username: "owner"}
	h.send(t, op, Start(), Press(LanguageSecondary), Press(Accept))
	h.send(t, op, anaAnswers...)

	assert.Zero(t, h.note.count())
	assert.Equal(t, 1, h.store.len())
	assert.Equal(t, i18n.Text(i18n.English, i18n.ThankYou), h.resp.last(t).Text)
}

func TestMissingUsernameUsesSentinel(t *testing.T) {
	h := newHarness()
	u := User{ID: 5}
	h.send(t, u, Start(), Press(LanguageSecondary), Press(Accept))
	h.send(t, u, anaAnswers...)

	require.Equal(t, 1, h.store.len())
	assert.Equal(t, "Не указан", h.store.records[0].DisplayHandle)
	assert.Equal(t, i18n.English, h.store.records[0].Language)
	assert.Contains(t, h.note.sent[0].text, "@Не указан")
}

func TestReentryRestartsDialogue(t *testing.T) {
	h := newHarness()
	h.send(t, ana, Start(), Press(LanguageSecondary), Press(Accept), Text("Ana"), Text("Popescu"))
	s, ok := h.ctrl.Session(ana.ID)
	require.True(t, ok)
	require.Equal(t, "Popescu", s.Fields.LastName)

	h.send(t, ana, Start())
	s, ok = h.ctrl.Session(ana.ID)
	require.True(t, ok)
	assert.Equal(t, StateChoosingLanguage, s.State)
	assert.Equal(t, Fields{}, s.Fields)
	assert.Empty(t, s.Language)

	h.send(t, ana, Press(LanguagePrimary), Press(Accept))
	h.send(t, ana, anaAnswers...)
	require.Equal(t, 1, h.store.len())
	assert.Equal(t, i18n.Russian, h.store.records[0].Language)
}

func TestCancelFromEveryActiveState(t *testing.T) {
	paths := map[string][]Event{
		"choosing_language": {Start()},
		"awaiting_decision": {Start(), Press(LanguageSecondary)},
		"waiting_name":      {Start(), Press(LanguageSecondary), Press(Accept)},
		"waiting_surname":   append([]Event{Start(), Press(LanguageSecondary), Press(Accept)}, anaAnswers[:1]...),
		"waiting_phone":     append([]Event{Start(), Press(LanguageSecondary), Press(Accept)}, anaAnswers[:2]...),
		"waiting_email":     append([]Event{Start(), Press(LanguageSecondary), Press(Accept)}, anaAnswers[:3]...),
		"waiting_address":   append([]Event{Start(), Press(LanguageSecondary), Press(Accept)}, anaAnswers[:4]...),
	}
	for want, evs := range paths {
		t.Run(want, func(t *testing.T) {
			h := newHarness()
			h.send(t, ana, evs...)
			require.Equal(t, want, h.stateOf(ana.ID))

			h.send(t, ana, Cancel())
			assert.Equal(t, string(StateIdle), h.stateOf(ana.ID))
			assert.Zero(t, h.store.len())

			wantLang := i18n.English
			if want == "choosing_language" {
				wantLang = i18n.Primary
			}
			reply := h.resp.last(t)
			assert.Equal(t, i18n.Text(wantLang, i18n.Cancelled), reply.Text)
			assert.True(t, reply.Markdown)
		})
	}
}

func TestEventsWithoutSessionAreIgnored(t *testing.T) {
	h := newHarness()
	h.send(t, ana, Cancel(), Text("hello"), Press(Accept), Command("/help"))
	assert.Empty(t, h.resp.got)
	assert.Zero(t, h.note.count())
	assert.Zero(t, h.ctrl.ActiveSessions())
}

func TestTextWhileAwaitingButtonIsIgnored(t *testing.T) {
	h := newHarness()
	h.send(t, ana, Start(), Text("hi"))
	assert.Equal(t, string(StateChoosingLanguage), h.stateOf(ana.ID))
	h.send(t, ana, Press(LanguagePrimary), Text("yes"))
	assert.Equal(t, string(StateAwaitingDecision), h.stateOf(ana.ID))
	assert.Len(t, h.resp.got, 2)
}

func TestBlankAnswerRepeatsPrompt(t *testing.T) {
	h := newHarness()
	h.send(t, ana, Start(), Press(LanguageSecondary), Press(Accept), Text("Ana"), Text("  \n "))
	assert.Equal(t, string(StateWaitingSurname), h.stateOf(ana.ID))
	assert.Equal(t, i18n.Text(i18n.English, i18n.AskSurname), h.resp.last(t).Text)

	s, _ := h.ctrl.Session(ana.ID)
	assert.Equal(t, "Ana", s.Fields.FirstName)
	assert.Empty(t, s.Fields.LastName)
}

func TestUnexpectedInputEndsDialogue(t *testing.T) {
	cases := map[string][]Event{
		"unknown button while choosing":  {Start(), Press(InteractionUnknown)},
		"accept while choosing language": {Start(), Press(Accept)},
		"language button after choice":   {Start(), Press(LanguageSecondary), Press(LanguagePrimary)},
		"accept while collecting":        {Start(), Press(LanguageSecondary), Press(Accept), Press(Accept)},
		"unknown command mid dialogue":   {Start(), Press(LanguageSecondary), Press(Accept), Text("Ana"), Command("/help")},
	}
	for name, evs := range cases {
		t.Run(name, func(t *testing.T) {
			h := newHarness()
			h.send(t, ana, evs...)
			assert.Equal(t, string(StateIdle), h.stateOf(ana.ID))
			assert.Zero(t, h.store.len())
			last := h.resp.last(t)
			assert.Contains(t, []string{
				i18n.Text(i18n.Russian, i18n.Thinking),
				i18n.Text(i18n.English, i18n.Thinking),
			}, last.Text)
		})
	}
}

func TestSideEffectFailuresDoNotChangeOutcome(t *testing.T) {
	h := newHarness()
	h.store.err = errors.New("disk full")
	h.note.err = errors.New("chat not found")

	h.send(t, ana, Start(), Press(LanguagePrimary), Press(Accept))
	h.send(t, ana, anaAnswers...)

	assert.Equal(t, i18n.Text(i18n.Russian, i18n.ThankYou), h.resp.last(t).Text)
	assert.Equal(t, string(StateIdle), h.stateOf(ana.ID))
	assert.Equal(t, 2, h.note.count())
}

func TestUnsavedTransitionHasNoSideEffects(t *testing.T) {
	sessions := &flakySessions{Store: state.NewMemoryStore[Session]()}
	h := newHarness()
	h.ctrl = New(Options{
		Sessions:   sessions,
		Orders:     h.store,
		Notifier:   h.note,
		OperatorID: operatorID,
		Clock:      func() time.Time { return fixedNow },
	})

	last := len(anaAnswers) - 1
	h.send(t, ana, Start(), Press(LanguagePrimary), Press(Accept))
	h.send(t, ana, anaAnswers[:last]...)
	sent, notices := len(h.resp.got), h.note.count()

	sessions.fail = true
	err := h.ctrl.Handle(context.Background(), ana, anaAnswers[last], h.resp)
	require.Error(t, err)
	assert.Zero(t, h.store.len())
	assert.Equal(t, notices, h.note.count())
	assert.Len(t, h.resp.got, sent)
	assert.Equal(t, string(StateWaitingAddress), h.stateOf(ana.ID))

	sessions.fail = false
	h.send(t, ana, anaAnswers[last])
	assert.Equal(t, 1, h.store.len())
	assert.Equal(t, string(StateIdle), h.stateOf(ana.ID))
	assert.Equal(t, i18n.Text(i18n.Russian, i18n.ThankYou), h.resp.last(t).Text)
}

func TestReplyFailureIsReturned(t *testing.T) {
	h := newHarness()
	h.resp.err = errors.New("forbidden")
	err := h.ctrl.Handle(context.Background(), ana, Start(), h.resp)
	assert.Error(t, err)
	assert.Equal(t, string(StateChoosingLanguage), h.stateOf(ana.ID))
}

func TestNilCollaborators(t *testing.T) {
	ctrl := New(Options{})
	ctx := context.Background()
	for _, ev := range append([]Event{Start(), Press(LanguagePrimary), Press(Accept)}, anaAnswers...) {
		require.NoError(t, ctrl.Handle(ctx, ana, ev, nil))
	}
	assert.Zero(t, ctrl.ActiveSessions())
}

// Random event streams must keep the language fixed once chosen and produce a
// record exactly when a dialogue completes.
func TestRandomEventStreamsKeepInvariants(t *testing.T) {
	alphabet := []Event{
		Start(), Cancel(), Command("/x"),
		Press(LanguagePrimary), Press(LanguageSecondary), Press(Accept), Press(Decline), Press(InteractionUnknown),
		Text("value"), Text("value"), Text("value"), Text(" "),
	}
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		h := newHarness()
		completions := 0
		for i := 0; i < 40; i++ {
			before, hadSession := h.ctrl.Session(ana.ID)
			ev := alphabet[rng.Intn(len(alphabet))]
			h.send(t, ana, ev)
			after, hasSession := h.ctrl.Session(ana.ID)

			if hadSession && hasSession && ev.Kind != KindStart && before.Language != "" {
				require.Equal(t, before.Language, after.Language, "run %d step %d", run, i)
			}
			if hadSession && before.State == StateWaitingAddress && ev.Kind == KindText && ev.Text != " " {
				completions++
			}
		}
		require.Equal(t, completions, h.store.len(), "run %d", run)
		for _, rec := range h.store.records {
			require.True(t, rec.Complete())
		}
	}
}

func TestConcurrentUsersAreIsolated(t *testing.T) {
	h := newHarness()
	const users = 25
	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			u := User{ID: id, Username: fmt.Sprintf("u%d", id)}
			evs := append([]Event{Start(), Press(LanguageSecondary), Press(Accept)}, anaAnswers...)
			for _, ev := range evs {
				assert.NoError(t, h.ctrl.Handle(context.Background(), u, ev, h.resp))
			}
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, users, h.store.len())
	assert.Equal(t, 2*users, h.note.count())
	assert.Zero(t, h.ctrl.ActiveSessions())
}

func TestParseInteraction(t *testing.T) {
	assert.Equal(t, LanguagePrimary, ParseInteraction("lang", "ru"))
	assert.Equal(t, LanguageSecondary, ParseInteraction("lang", "en"))
	assert.Equal(t, Accept, ParseInteraction("terms", "accept"))
	assert.Equal(t, Decline, ParseInteraction("terms", "decline"))
	assert.Equal(t, InteractionUnknown, ParseInteraction("lang", "de"))
	assert.Equal(t, InteractionUnknown, ParseInteraction("terms", ""))
	assert.Equal(t, InteractionUnknown, ParseInteraction("other", "accept"))

	for _, in := range []Interaction{LanguagePrimary, LanguageSecondary, Accept, Decline} {
		assert.Equal(t, in, ParseInteraction(in.Callback()))
	}
}
