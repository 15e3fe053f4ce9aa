package i18n

// Key names a localized text.
type Key int

const (
	Welcome Key = iota
	ChooseLanguage
	Conditions
	Agree
	Think
	Agreed
	Thinking
	AskSurname
	AskPhone
	AskEmail
	AskAddress
	ThankYou
	Cancelled
	// UnspecifiedHandle stands in for a missing Telegram username.
	UnspecifiedHandle
	// StatusNew is the status written into every new order record.
	StatusNew
	LanguageName
	ButtonRussian
	ButtonEnglish
)

// Texts of the secondary language may omit keys; Text falls back to the primary table.
var catalog = map[Language]map[Key]string{
	Russian: {
		Welcome: "Привет! 👋\n\n" +
			"Добро пожаловать в *Magnitron Lab*.\n\n" +
			"Мы создаём экспериментальные кассетные музыкальные инструменты ручной сборки.",
		ChooseLanguage: "Выберите язык / Choose language:",
		Conditions: "📋 *Условия заказа Magnitron-2:*\n\n" +
			"💰 Цена: 1500 EUR + доставка (рассчитывается индивидуально)\n" +
			"💳 Предоплата: 50% (750 EUR)\n" +
			"🧾 Способы оплаты: RUB / EUR / USD наличными, банковский перевод, PayPal, crypto\n" +
			"📦 Производство: 3 месяца (производство запускается после набора 10 заказов, мы проинформируем вас о старте)\n" +
			"🌍 Доставка: по всему миру из Екатеринбурга\n\n" +
			"Готовы оформить предзаказ?",
		Agree:      "✅ Да, готов оформить",
		Think:      "🤔 Нужно подумать",
		Agreed:     "Отлично! 🎉\n\nМне нужно собрать несколько данных для оформления заказа.\n\nПожалуйста, укажите ваше *имя*:",
		Thinking:   "Конечно, не торопитесь! 🙂\n\nКогда будете готовы, просто напишите /start снова.\n\nЕсли есть вопросы — пишите!",
		AskSurname: "Спасибо! Теперь укажите вашу *фамилию*:",
		AskPhone:   "Отлично! Укажите ваш *номер телефона* (с кодом страны):",
		AskEmail:   "Хорошо! Теперь укажите ваш *email*:",
		AskAddress: "Отлично! И последнее — укажите *полный адрес доставки*\n(страна, город, улица, дом, квартира, индекс):",
		ThankYou: "✅ *Спасибо большое!*\n\nВаша заявка принята. Мы свяжемся с вами в ближайшее время для подтверждения деталей заказа.\n\n" +
			"Если возникнут вопросы — смело пишите!",
		Cancelled:         "❌ Заказ отменён.\n\nНапишите /start, когда будете готовы!",
		UnspecifiedHandle: "Не указан",
		StatusNew:         "Новый",
		LanguageName:      "Русский",
		ButtonRussian:     "🇷🇺 Русский",
		ButtonEnglish:     "🇬🇧 English",
	},
	English: {
		Welcome: "Hello! 👋\n\n" +
			"Welcome to *Magnitron Lab*.\n\n" +
			"We create experimental handcrafted cassette-based musical instruments.",
		ChooseLanguage: "Choose language / Выберите язык:",
		Conditions: "📋 *Magnitron-2 Order Terms:*\n\n" +
			"💰 Price: 1500 EUR + shipping (calculated individually)\n" +
			"💳 Prepayment: 50% (750 EUR)\n" +
			"🧾 Payment methods: RUB / EUR / USD cash, bank transfer, PayPal, crypto\n" +
			"📦 Production: 3 months (production starts after receiving 10 orders, we will inform you when it begins)\n" +
			"🌍 Shipping: worldwide from Yekaterinburg\n\n" +
			"Ready to place a pre-order?",
		Agree:      "✅ Yes, ready to order",
		Think:      "🤔 Need to think",
		Agreed:     "Great! 🎉\n\nI need to collect some information to process your order.\n\nPlease provide your *first name*:",
		Thinking:   "Of course, take your time! 🙂\n\nWhen you're ready, just type /start again.\n\nIf you have questions — feel free to ask!",
		AskSurname: "Thank you! Now please provide your *last name*:",
		AskPhone:   "Perfect! Please provide your *phone number* (with country code):",
		AskEmail:   "Good! Now please provide your *email*:",
		AskAddress: "Excellent! And finally — please provide your *full shipping address*\n(country, city, street, building, apartment, postal code):",
		ThankYou: "✅ *Thank you very much!*\n\nYour request has been received. We will contact you shortly to confirm order details.\n\n" +
			"If you have any questions — feel free to reach out!",
		Cancelled:     "❌ Order cancelled.\n\nType /start when you're ready!",
		LanguageName:  "English",
		ButtonRussian: "🇷🇺 Русский",
		ButtonEnglish: "🇬🇧 English",
	},
}

// Text returns the text for key in lang. An unsupported language or a key
// missing from its table resolves to the primary language.
func Text(lang Language, key Key) string {
	if s, ok := catalog[lang.OrDefault()][key]; ok {
		return s
	}
	return catalog[Primary][key]
}
