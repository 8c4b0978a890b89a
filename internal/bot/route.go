package bot

import (
	"strings"

	"github.com/hitoshi/outsourcebot/internal/admin"
)

// Route はメッセージの分類結果。
// 分類はCommand → Menu → Service → FAQ → Option → Fallback の順に評価し、最初に一致したものを採用する。
type Route int

const (
	RouteNone Route = iota
	RouteCommand
	RouteMenu
	RouteService
	RouteFAQ
	RouteOption
	RouteFallback
)

// String はメトリクスとログで使うラベルを返す。
func (r Route) String() string {
	switch r {
	case RouteCommand:
		return "command"
	case RouteMenu:
		return "menu"
	case RouteService:
		return "service"
	case RouteFAQ:
		return "faq"
	case RouteOption:
		return "option"
	case RouteFallback:
		return "fallback"
	default:
		return "none"
	}
}

// CommandStart は利用者登録とウェルカムメッセージを行うコマンド。
const CommandStart = "start"

// Command は解析済みのスラッシュコマンド。
type Command struct {
	Name string
	Args []string
}

// ParseCommand はtextを既知のスラッシュコマンドとして解析する。
// "/delete_request@my_bot 5" のようなボット名付きの形式も受け付け、
// コマンド名の'-'は'_'として扱う。
// 未知のコマンドはfalseを返し、通常のテキストとして扱われる。
func ParseCommand(text string) (Command, bool) {
	if !strings.HasPrefix(text, "/") {
		return Command{}, false
	}

	fields := strings.Fields(text)
	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	name = strings.ReplaceAll(name, "-", "_")

	if name != CommandStart && !admin.IsCommand(name) {
		return Command{}, false
	}
	return Command{Name: name, Args: fields[1:]}, true
}

func isMenuLabel(text string) bool {
	switch text {
	case LabelOutsourcing, LabelContacts, LabelFAQ, LabelNewRequest, LabelBack,
		LabelWebDevelopment, LabelMobileApps:
		return true
	}
	return false
}
