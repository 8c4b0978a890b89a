package admin

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hitoshi/outsourcebot/internal/model"
	"github.com/hitoshi/outsourcebot/internal/security"
)

const (
	// MaxMessageRunes はBot APIが1メッセージで受け付ける最大文字数。
	MaxMessageRunes = 4096

	summaryRunes = 50

	requestDateLayout = "2006-01-02 15:04"
	userDateLayout    = "2006-01-02"
)

// truncate はtextを先頭maxRunes文字に切り詰め、切り詰めた場合は"..."を付ける。
func truncate(text string, maxRunes int) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes]) + "..."
}

// renderer は一覧の各行をHTML返信用のブロックに整形する。
// 利用者が入力した文字列は必ずsanitizerを通す。
type renderer struct {
	sanitizer security.TextSanitizer
}

func (r renderer) request(req *model.Request) string {
	return fmt.Sprintf("ID: %d\nПользователь: %d\nДата: %s\nСтатус: %s\nТекст: %s\n\n",
		req.ID,
		req.UserID,
		req.CreatedAt.Format(requestDateLayout),
		req.Status,
		r.sanitizer.Sanitize(truncate(req.Text, summaryRunes)),
	)
}

func (r renderer) user(u *model.User) string {
	username := "-"
	if u.Username != "" {
		username = "@" + r.sanitizer.Sanitize(u.Username)
	}
	return fmt.Sprintf("ID: %d\nИмя: %s\nUsername: %s\nДата регистрации: %s\n\n",
		u.ID,
		r.sanitizer.Sanitize(u.FullName),
		username,
		u.RegistrationDate.Format(userDateLayout),
	)
}

func (r renderer) service(s *model.Service) string {
	return fmt.Sprintf("ID: %d\nНазвание: %s\nОписание: %s\n\n",
		s.ID,
		r.sanitizer.Sanitize(s.Name),
		r.sanitizer.Sanitize(truncate(s.Description, summaryRunes)),
	)
}

func (r renderer) faq(f *model.FaqEntry) string {
	return fmt.Sprintf("ID: %d\nВопрос: %s\nОтвет: %s\n\n",
		f.ID,
		r.sanitizer.Sanitize(f.Question),
		r.sanitizer.Sanitize(truncate(f.Answer, summaryRunes)),
	)
}

// splitMessage はヘッダーとブロック列を、limit文字以内のメッセージに分割する。
// 分割はブロックの境界で行い、単独でlimitを超えるブロックのみ文字単位で分割する。
func splitMessage(header string, blocks []string, limit int) []string {
	var (
		messages []string
		current  strings.Builder
		size     int
	)

	flush := func() {
		if size == 0 {
			return
		}
		messages = append(messages, strings.TrimRight(current.String(), "\n"))
		current.Reset()
		size = 0
	}

	add := func(s string) {
		n := utf8.RuneCountInString(s)
		if size > 0 && size+n > limit {
			flush()
		}
		for n > limit {
			runes := []rune(s)
			messages = append(messages, string(runes[:limit]))
			s = string(runes[limit:])
			n -= limit
		}
		current.WriteString(s)
		size += n
	}

	add(header)
	for _, b := range blocks {
		add(b)
	}
	flush()

	return messages
}

// htmlReplies は分割済みメッセージをHTML返信の列に変換する。
func htmlReplies(messages []string) []model.Reply {
	replies := make([]model.Reply, 0, len(messages))
	for _, m := range messages {
		replies = append(replies, model.Reply{Text: m, HTML: true})
	}
	return replies
}
