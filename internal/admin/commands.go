// Package admin は管理者許可リストで保護された管理コマンドを提供する。
//
// 全てのコマンドは最初に送信者IDを許可リストと照合し、許可されていない場合は
// 権限エラーの返信のみを行い、ストレージには一切触れない。
package admin

// 管理コマンド名（スラッシュなし）。
const (
	CommandPanel         = "admin"
	CommandRequests      = "requests"
	CommandUsers         = "users"
	CommandServices      = "services"
	CommandFAQ           = "faq"
	CommandDeleteRequest = "delete_request"
	CommandDeleteUser    = "delete_user"
	CommandDeleteService = "delete_service"
	CommandDeleteFAQ     = "delete_faq"
	CommandClearRequests = "clear_requests"
	CommandClearDB       = "clear_db"
)

var commands = map[string]struct{}{
	CommandPanel:         {},
	CommandRequests:      {},
	CommandUsers:         {},
	CommandServices:      {},
	CommandFAQ:           {},
	CommandDeleteRequest: {},
	CommandDeleteUser:    {},
	CommandDeleteService: {},
	CommandDeleteFAQ:     {},
	CommandClearRequests: {},
	CommandClearDB:       {},
}

// IsCommand は指定名が管理コマンドかどうかを返す。
func IsCommand(name string) bool {
	_, ok := commands[name]
	return ok
}

const panelText = "👨‍💻 <b>Панель администратора</b>\n\n" +
	"Доступные команды:\n" +
	"/requests - Просмотр всех заявок\n" +
	"/users - Просмотр всех пользователей\n" +
	"/services - Просмотр всех услуг\n" +
	"/faq - Просмотр всех вопросов FAQ\n\n" +
	"Для удаления используйте:\n" +
	"/delete_request [id] - Удалить заявку\n" +
	"/delete_user [id] - Удалить пользователя\n" +
	"/delete_service [id] - Удалить услугу\n" +
	"/delete_faq [id] - Удалить вопрос FAQ\n\n" +
	"/clear_requests - Очистить все заявки"

const clearedText = "✅ Все заявки удалены"

// deleteTarget は削除コマンドごとの返信文言とIDの範囲。
type deleteTarget struct {
	deletedFormat string
	notFound      string
	// idBits は主キー列のビット幅。SERIALは32、利用者のTelegram IDはBIGINTで64。
	idBits int
}

var deleteTargets = map[string]deleteTarget{
	CommandDeleteRequest: {deletedFormat: "✅ Заявка #%d удалена", notFound: "❌ Заявка не найдена", idBits: 32},
	CommandDeleteUser:    {deletedFormat: "✅ Пользователь #%d удален", notFound: "❌ Пользователь не найден", idBits: 64},
	CommandDeleteService: {deletedFormat: "✅ Услуга #%d удалена", notFound: "❌ Услуга не найдена", idBits: 32},
	CommandDeleteFAQ:     {deletedFormat: "✅ Вопрос FAQ #%d удален", notFound: "❌ Вопрос не найден", idBits: 32},
}
