package i18n

import (
	"fmt"
	"strings"

	"github.com/magnitronlab/preorder-bot/core/telegram/format"
)

// Operator alerts are always rendered in the primary language with legacy Markdown.

const separator = "━━━━━━━━━━━━━━━━━━━━"

// UserAlert describes a buyer who just opened the dialogue.
type UserAlert struct {
	Handle    string
	UserID    int64
	FirstName string
	Timestamp string
}

// OrderAlert carries a completed order for the operator.
type OrderAlert struct {
	Language  Language
	Handle    string
	UserID    int64
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Address   string
	Timestamp string
}

// NewUserAlert renders the notification sent when a buyer starts the dialogue.
func NewUserAlert(a UserAlert) string {
	var b strings.Builder
	b.WriteString("🔔 *Новый пользователь в боте!*\n\n")
	fmt.Fprintf(&b, "👤 Username: @%s\n", format.MD(a.Handle))
	fmt.Fprintf(&b, "🆔 User ID: %d\n", a.UserID)
	fmt.Fprintf(&b, "📝 Имя в TG: %s\n", format.MD(a.FirstName))
	fmt.Fprintf(&b, "⏰ %s", format.MD(a.Timestamp))
	return b.String()
}

// NewOrderAlert renders the notification sent when a buyer completes an order.
func NewOrderAlert(a OrderAlert) string {
	var b strings.Builder
	b.WriteString("🎯 *НОВЫЙ ЗАКАЗ MAGNITRON-2!*\n\n")
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "🌍 Язык: %s\n\n", Text(a.Language, LanguageName))
	b.WriteString("👤 *Клиент:*\n")
	fmt.Fprintf(&b, "Имя: %s %s\n", format.MD(a.FirstName), format.MD(a.LastName))
	fmt.Fprintf(&b, "Telegram: @%s\n\n", format.MD(a.Handle))
	b.WriteString("📞 *Контакты:*\n")
	fmt.Fprintf(&b, "Телефон: %s\n", format.MD(a.Phone))
	fmt.Fprintf(&b, "Email: %s\n\n", format.MD(a.Email))
	b.WriteString("📍 *Адрес доставки:*\n")
	fmt.Fprintf(&b, "%s\n\n", format.MD(a.Address))
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "⏰ %s\n", format.MD(a.Timestamp))
	fmt.Fprintf(&b, "🆔 User ID: %d", a.UserID)
	return b.String()
}
