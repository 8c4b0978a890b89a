package bot

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/outsourcebot/internal/metrics"
	"github.com/hitoshi/outsourcebot/internal/model"
	"github.com/hitoshi/outsourcebot/internal/telegram"
)

// MessageSender はBot APIへの送信インターフェース。telegram.Client がこれを満たす。
type MessageSender interface {
	SendMessage(ctx context.Context, msg telegram.OutgoingMessage) error
	SendPhoto(ctx context.Context, photo telegram.OutgoingPhoto) error
}

// MessageHandler はメッセージ1件を処理するインターフェース。Router がこれを満たす。
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg model.IncomingMessage) (Response, error)
}

// Dispatcher はアップデートを1件ずつRouterに渡し、返信を送信する。
// 1件の処理失敗やpanicは他のアップデートに影響しない。
type Dispatcher struct {
	router    MessageHandler
	sender    MessageSender
	logger    *slog.Logger
	collector metrics.MetricsCollector
}

// NewDispatcher は新しいDispatcherを生成する。
func NewDispatcher(router MessageHandler, sender MessageSender, logger *slog.Logger, collector metrics.MetricsCollector) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return &Dispatcher{
		router:    router,
		sender:    sender,
		logger:    logger,
		collector: collector,
	}
}

var _ telegram.UpdateHandler = (*Dispatcher)(nil)

// HandleUpdate はtelegram.UpdateHandlerを実装する。
// テキストメッセージ以外のアップデートは無視する。
func (d *Dispatcher) HandleUpdate(ctx context.Context, update telegram.Update) {
	m := update.Message
	if m == nil || m.From == nil || m.Text == "" {
		d.logger.Debug("non-text update ignored", slog.Int64("update_id", update.UpdateID))
		return
	}

	logger := d.logger.With(
		slog.String("trace_id", uuid.NewString()),
		slog.Int64("update_id", update.UpdateID),
		slog.Int64("user_id", m.From.ID),
	)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("panic recovered",
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	msg := model.IncomingMessage{
		ChatID: m.Chat.ID,
		Sender: model.Sender{
			ID:       m.From.ID,
			Username: m.From.Username,
			FullName: m.From.FullName(),
		},
		Text: m.Text,
	}

	start := time.Now()
	resp, err := d.router.HandleMessage(ctx, msg)
	duration := time.Since(start)

	d.collector.RecordMessage(resp.Route.String())
	d.collector.RecordHandleLatency(duration)

	if err != nil {
		logger.Error("update failed",
			slog.String("route", resp.Route.String()),
			slog.Float64("duration_ms", float64(duration.Milliseconds())),
			slog.String("error", err.Error()),
		)
		d.send(ctx, logger, msg.ChatID, model.Reply{Text: ErrorText})
		return
	}

	if resp.Route == RouteFallback {
		d.collector.RecordRequestCreated()
	}

	for _, reply := range resp.Replies {
		if !d.send(ctx, logger, msg.ChatID, reply) {
			break
		}
	}

	logger.Info("update handled",
		slog.String("route", resp.Route.String()),
		slog.Int("replies", len(resp.Replies)),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)
}

// send は返信を1件送信し、成功したかを返す。
// 画像の送信に失敗した場合はFallbackの送信を試みる。
func (d *Dispatcher) send(ctx context.Context, logger *slog.Logger, chatID int64, reply model.Reply) bool {
	if reply.PhotoURL != "" {
		err := d.sender.SendPhoto(ctx, toOutgoingPhoto(chatID, reply))
		if err == nil {
			return true
		}
		d.collector.RecordSendFailure("sendPhoto")
		logger.Error("failed to send photo",
			slog.String("photo_url", reply.PhotoURL),
			slog.String("error", err.Error()),
		)
		if reply.Fallback == nil {
			return false
		}
		reply = *reply.Fallback
	}

	if err := d.sender.SendMessage(ctx, toOutgoingMessage(chatID, reply)); err != nil {
		d.collector.RecordSendFailure("sendMessage")
		logger.Error("failed to send message", slog.String("error", err.Error()))
		return false
	}
	return true
}

func toOutgoingMessage(chatID int64, reply model.Reply) telegram.OutgoingMessage {
	return telegram.OutgoingMessage{
		ChatID:      chatID,
		Text:        reply.Text,
		ParseMode:   parseMode(reply),
		ReplyMarkup: toMarkup(reply.Keyboard),
	}
}

func toOutgoingPhoto(chatID int64, reply model.Reply) telegram.OutgoingPhoto {
	return telegram.OutgoingPhoto{
		ChatID:      chatID,
		Photo:       reply.PhotoURL,
		Caption:     reply.Text,
		ParseMode:   parseMode(reply),
		ReplyMarkup: toMarkup(reply.Keyboard),
	}
}

func parseMode(reply model.Reply) string {
	if reply.HTML {
		return telegram.ParseModeHTML
	}
	return ""
}

func toMarkup(kb model.Keyboard) *telegram.ReplyKeyboardMarkup {
	if len(kb) == 0 {
		return nil
	}
	rows := make([][]telegram.KeyboardButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]telegram.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, telegram.KeyboardButton{Text: label})
		}
		rows = append(rows, buttons)
	}
	return &telegram.ReplyKeyboardMarkup{Keyboard: rows, ResizeKeyboard: true}
}

