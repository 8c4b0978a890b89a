package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/hitoshi/outsourcebot/internal/metrics"
	"github.com/hitoshi/outsourcebot/internal/model"
	"github.com/hitoshi/outsourcebot/internal/repository"
	"github.com/hitoshi/outsourcebot/internal/security"
)

// Allowlist は管理者許可リストのインターフェース。
// config.Config がこれを満たす。
type Allowlist interface {
	IsAdmin(id int64) bool
}

// RequestManager は管理コマンドが利用するリクエスト操作のインターフェース。
// request.Service がこれを満たす。
type RequestManager interface {
	List(ctx context.Context) ([]*model.Request, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Clear(ctx context.Context) (int64, error)
}

// 管理コマンドの結果ラベル。
const (
	outcomeOK        = "ok"
	outcomeDenied    = "denied"
	outcomeNotFound  = "not_found"
	outcomeMalformed = "malformed"
	outcomeError     = "error"
)

// Handler は管理コマンドを処理する。
type Handler struct {
	admins    Allowlist
	requests  RequestManager
	users     repository.UserRepository
	services  repository.ServiceRepository
	faq       repository.FaqRepository
	render    renderer
	collector metrics.MetricsCollector
}

// NewHandler は新しいHandlerを生成する。collectorがnilの場合はメトリクスを記録しない。
func NewHandler(
	admins Allowlist,
	requests RequestManager,
	users repository.UserRepository,
	services repository.ServiceRepository,
	faq repository.FaqRepository,
	sanitizer security.TextSanitizer,
	collector metrics.MetricsCollector,
) *Handler {
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return &Handler{
		admins:    admins,
		requests:  requests,
		users:     users,
		services:  services,
		faq:       faq,
		render:    renderer{sanitizer: sanitizer},
		collector: collector,
	}
}

// Handle は管理コマンドを実行し、送信すべき返信を返す。
//
// 権限エラー・対象なし・引数不正は返信に変換して返す。
// ストレージ障害はエラーとしてそのまま返し、リトライしない。
func (h *Handler) Handle(ctx context.Context, senderID int64, command string, args []string) ([]model.Reply, error) {
	replies, err := h.dispatch(ctx, senderID, command, args)

	outcome := outcomeOK
	var botErr *model.BotError
	switch {
	case err == nil:
	case errors.As(err, &botErr):
		outcome = outcomeFor(botErr)
		replies = []model.Reply{{Text: botErr.Message}}
		err = nil
	default:
		outcome = outcomeError
	}

	h.collector.RecordAdminCommand(command, outcome)
	slog.Info("admin command handled",
		slog.String("command", command),
		slog.Int64("user_id", senderID),
		slog.String("outcome", outcome),
	)

	if err != nil {
		return nil, err
	}
	return replies, nil
}

func outcomeFor(err *model.BotError) string {
	switch err.Code {
	case model.ErrCodePermissionDenied:
		return outcomeDenied
	case model.ErrCodeNotFound:
		return outcomeNotFound
	case model.ErrCodeMalformedArgument:
		return outcomeMalformed
	default:
		return outcomeError
	}
}

func (h *Handler) dispatch(ctx context.Context, senderID int64, command string, args []string) ([]model.Reply, error) {
	if !IsCommand(command) {
		return nil, fmt.Errorf("unknown admin command %q", command)
	}
	if !h.admins.IsAdmin(senderID) {
		return nil, model.NewPermissionDeniedError()
	}

	switch command {
	case CommandPanel:
		return []model.Reply{{Text: panelText, HTML: true}}, nil
	case CommandRequests:
		return h.listRequests(ctx)
	case CommandUsers:
		return h.listUsers(ctx)
	case CommandServices:
		return h.listServices(ctx)
	case CommandFAQ:
		return h.listFAQ(ctx)
	case CommandClearRequests, CommandClearDB:
		if _, err := h.requests.Clear(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear requests: %w", err)
		}
		return []model.Reply{{Text: clearedText}}, nil
	default:
		return h.deleteByID(ctx, command, args)
	}
}

func (h *Handler) listRequests(ctx context.Context) ([]model.Reply, error) {
	requests, err := h.requests.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	if len(requests) == 0 {
		return []model.Reply{{Text: "Нет заявок в базе данных"}}, nil
	}

	blocks := make([]string, 0, len(requests))
	for _, req := range requests {
		blocks = append(blocks, h.render.request(req))
	}
	return htmlReplies(splitMessage("📋 <b>Список заявок:</b>\n\n", blocks, MaxMessageRunes)), nil
}

func (h *Handler) listUsers(ctx context.Context) ([]model.Reply, error) {
	users, err := h.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if len(users) == 0 {
		return []model.Reply{{Text: "Нет пользователей в базе данных"}}, nil
	}

	blocks := make([]string, 0, len(users))
	for _, u := range users {
		blocks = append(blocks, h.render.user(u))
	}
	return htmlReplies(splitMessage("👥 <b>Список пользователей:</b>\n\n", blocks, MaxMessageRunes)), nil
}

func (h *Handler) listServices(ctx context.Context) ([]model.Reply, error) {
	services, err := h.services.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	if len(services) == 0 {
		return []model.Reply{{Text: "Нет услуг в базе данных"}}, nil
	}

	blocks := make([]string, 0, len(services))
	for _, s := range services {
		blocks = append(blocks, h.render.service(s))
	}
	return htmlReplies(splitMessage("🛠 <b>Список услуг:</b>\n\n", blocks, MaxMessageRunes)), nil
}

func (h *Handler) listFAQ(ctx context.Context) ([]model.Reply, error) {
	entries, err := h.faq.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list faq: %w", err)
	}
	if len(entries) == 0 {
		return []model.Reply{{Text: "Нет вопросов в FAQ"}}, nil
	}

	blocks := make([]string, 0, len(entries))
	for _, f := range entries {
		blocks = append(blocks, h.render.faq(f))
	}
	return htmlReplies(splitMessage("❓ <b>Список вопросов FAQ:</b>\n\n", blocks, MaxMessageRunes)), nil
}

// deleteByID は削除コマンドを実行する。
// カスケード削除とNULL化はストレージの外部キー制約に任せる。
func (h *Handler) deleteByID(ctx context.Context, command string, args []string) ([]model.Reply, error) {
	target := deleteTargets[command]

	id, err := parseID(args)
	if err != nil {
		return nil, model.NewMalformedArgumentError(command)
	}
	// 列の型に収まらないIDは該当行がないものとして扱う
	if !fitsBits(id, target.idBits) {
		return nil, model.NewNotFoundError(target.notFound)
	}

	var deleted bool
	switch command {
	case CommandDeleteRequest:
		deleted, err = h.requests.Delete(ctx, id)
	case CommandDeleteUser:
		deleted, err = affected(h.users.DeleteByID(ctx, id))
	case CommandDeleteService:
		deleted, err = affected(h.services.DeleteByID(ctx, id))
	case CommandDeleteFAQ:
		deleted, err = affected(h.faq.DeleteByID(ctx, id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to %s %d: %w", command, id, err)
	}
	if !deleted {
		return nil, model.NewNotFoundError(target.notFound)
	}

	return []model.Reply{{Text: fmt.Sprintf(target.deletedFormat, id)}}, nil
}

// parseID はコマンド引数の先頭をIDとして解釈する。
func parseID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, errors.New("missing id argument")
	}
	return strconv.ParseInt(args[0], 10, 64)
}

func fitsBits(id int64, bits int) bool {
	if bits >= 64 {
		return true
	}
	limit := int64(1) << (bits - 1)
	return id >= -limit && id < limit
}

func affected(n int64, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
