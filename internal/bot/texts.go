package bot

// メインメニューのボタンラベル。
const (
	LabelOutsourcing = "🚨 IT-Аутсорсинг"
	LabelContacts    = "📞 Контакты"
	LabelFAQ         = "❓ Частые вопросы"
	LabelNewRequest  = "📨 Оставить заявку"
	LabelBack        = "🔙 Назад"

	// 初期データのサービス名と同じカテゴリ選択ボタン。
	// 該当サービスが削除されていてもメニューとして扱う。
	LabelWebDevelopment = "🌐 Веб-разработка"
	LabelMobileApps     = "📱 Мобильные приложения"

	// LabelHowToOrder はFAQメニューに常に表示する質問ボタン。
	LabelHowToOrder = "Как оформить заказ?"
)

const (
	startCaption = "🛠 <b>IT-Аутсорсинг PRO</b>\n\n" +
		"Профессиональная разработка веб и мобильных решений\n\n" +
		"Выберите нужный вариант:"

	startFallbackText = "🛠 <b>Добро пожаловать в IT-Аутсорсинг PRO</b>\n\n" +
		"Выберите действие:"

	categoryMenuText = "🖥 <b>Направления разработки:</b>\n\n" +
		"Выберите интересующее вас направление:"

	faqMenuText = "❓ <b>Часто задаваемые вопросы:</b>\n" +
		"Выберите интересующий вас вопрос:"

	contactsText = "📞 <b>Наши контакты:</b>\n\n" +
		"Телефон: +7 (912) 345-67-89\n" +
		"Email: it-aytsors@gmail.com\n" +
		"Telegram: @it_outsourcing_support\n\n" +
		"Работаем с 9:00 до 18:00 по МСК"

	newRequestText = "✍️ <b>Опишите ваш проект:</b>\n\n" +
		"Укажите следующую информацию:\n" +
		"1. Тип проекта (веб/мобильное)\n" +
		"2. Основные требования\n" +
		"3. Желаемые сроки\n" +
		"4. Бюджет (если есть)\n\n" +
		"Наш менеджер свяжется с вами для уточнения деталей."

	mainMenuText = "Главное меню:"

	serviceNotFoundText = "Услуга не найдена"

	serviceTextFormat = "<b>%s</b>\n\n%s\n\nВыберите тип проекта:"

	faqAnswerFormat = "<b>%s</b>\n\n%s"

	optionTextFormat = "<b>%s</b>\n\n" +
		"%s\n\n" +
		"<b>Стоимость:</b> %s\n\n" +
		"✍️ Для заказа нажмите кнопку 'Оставить заявку' или напишите:\n" +
		"1. Описание проекта\n2. Желаемые сроки\n3. Бюджет (если есть)"

	requestAcceptedFormat = "✅ <b>Ваше сообщение принято как заявка!</b>\n\n" +
		"Номер заявки: #%d\n" +
		"Мы свяжемся с вами в ближайшее время для уточнения деталей."

	// ErrorText は処理に失敗したターンで返す汎用メッセージ。
	ErrorText = "⚠️ Не удалось обработать сообщение. Попробуйте позже."
)
