package middleware

import (
	tele "gopkg.in/telebot.v4"
)

const (
	keyMessages = "messages"
	keyKeyboard = "kb"
)

// metricsContext wraps tele.Context to count sent messages and detect keyboard usage.
type metricsContext struct{ tele.Context }

func (m metricsContext) record(err error, opts []any) error {
	if err != nil {
		return err
	}
	n, _ := m.Get(keyMessages).(int)
	m.Set(keyMessages, n+1)
	if hasKeyboard(opts) {
		m.Set(keyKeyboard, true)
	}
	return nil
}

func hasKeyboard(opts []any) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

// Send proxies tele.Context.Send while updating message counters.
func (m metricsContext) Send(what any, opts ...any) error {
	return m.record(m.Context.Send(what, opts...), opts)
}

// Reply proxies tele.Context.Reply while updating message counters.
func (m metricsContext) Reply(what any, opts ...any) error {
	return m.record(m.Context.Reply(what, opts...), opts)
}

// Edit proxies tele.Context.Edit while updating message counters.
func (m metricsContext) Edit(what any, opts ...any) error {
	return m.record(m.Context.Edit(what, opts...), opts)
}

// EditOrSend proxies tele.Context.EditOrSend while updating message counters.
func (m metricsContext) EditOrSend(what any, opts ...any) error {
	return m.record(m.Context.EditOrSend(what, opts...), opts)
}

// EditOrReply proxies tele.Context.EditOrReply while updating message counters.
func (m metricsContext) EditOrReply(what any, opts ...any) error {
	return m.record(m.Context.EditOrReply(what, opts...), opts)
}

// MessageMetricsMiddleware instruments context to track messages count and keyboard usage.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		c.Set(keyMessages, 0)
		c.Set(keyKeyboard, false)
		return next(metricsContext{Context: c})
	}
}

// GetCounters reads message count and keyboard presence flags from context.
func GetCounters(c tele.Context) (int, bool) {
	msgs, _ := c.Get(keyMessages).(int)
	kb, _ := c.Get(keyKeyboard).(bool)
	return msgs, kb
}
