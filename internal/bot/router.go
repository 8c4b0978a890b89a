// Package bot はメッセージの分類と返信の組み立て、アップデートのディスパッチを提供する。
package bot

import (
	"context"
	"fmt"

	"github.com/hitoshi/outsourcebot/internal/catalog"
	"github.com/hitoshi/outsourcebot/internal/model"
)

// Catalog はカタログ参照のインターフェース。catalog.Service がこれを満たす。
type Catalog interface {
	Services(ctx context.Context) ([]*model.Service, error)
	FindService(ctx context.Context, name string) (*catalog.ServiceWithOptions, error)
	FindOption(ctx context.Context, name string) (*model.ServiceOptionWithService, error)
	FindFAQ(ctx context.Context, question string) (*model.FaqEntry, error)
	FAQQuestions(ctx context.Context) ([]string, error)
}

// RequestCreator はリクエスト作成のインターフェース。request.Service がこれを満たす。
type RequestCreator interface {
	Create(ctx context.Context, userID int64, text string, optionID *int64) (int64, error)
}

// UserRegistrar は利用者登録のインターフェース。repository.UserRepository がこれを満たす。
type UserRegistrar interface {
	Upsert(ctx context.Context, sender model.Sender) error
}

// AdminHandler は管理コマンドのインターフェース。admin.Handler がこれを満たす。
type AdminHandler interface {
	Handle(ctx context.Context, senderID int64, command string, args []string) ([]model.Reply, error)
}

// Response はメッセージ1件に対する分類結果と返信。
type Response struct {
	Route   Route
	Replies []model.Reply
}

// Router は受信テキストを分類し、対応する返信を組み立てる。
// 状態は持たず、全ての参照はその都度ストレージから読み込む。
type Router struct {
	catalog       Catalog
	requests      RequestCreator
	users         UserRegistrar
	admin         AdminHandler
	startImageURL string
}

// NewRouter は新しいRouterを生成する。
func NewRouter(catalog Catalog, requests RequestCreator, users UserRegistrar, admin AdminHandler, startImageURL string) *Router {
	return &Router{
		catalog:       catalog,
		requests:      requests,
		users:         users,
		admin:         admin,
		startImageURL: startImageURL,
	}
}

// HandleMessage はメッセージを分類して返信を返す。
// ストレージ障害はエラーとして返す。エラー時もResponse.Routeには到達した分類が入る。
func (r *Router) HandleMessage(ctx context.Context, msg model.IncomingMessage) (Response, error) {
	text := msg.Text

	if cmd, ok := ParseCommand(text); ok {
		replies, err := r.handleCommand(ctx, msg.Sender, cmd)
		return Response{Route: RouteCommand, Replies: replies}, err
	}

	if isMenuLabel(text) {
		replies, err := r.handleMenu(ctx, text)
		return Response{Route: RouteMenu, Replies: replies}, err
	}

	svc, err := r.catalog.FindService(ctx, text)
	if err != nil {
		return Response{Route: RouteService}, fmt.Errorf("failed to look up service: %w", err)
	}
	if svc != nil {
		return Response{Route: RouteService, Replies: []model.Reply{serviceReply(svc)}}, nil
	}

	faq, err := r.catalog.FindFAQ(ctx, text)
	if err != nil {
		return Response{Route: RouteFAQ}, fmt.Errorf("failed to look up faq: %w", err)
	}
	if faq != nil {
		reply, err := r.faqAnswerReply(ctx, faq)
		return Response{Route: RouteFAQ, Replies: []model.Reply{reply}}, err
	}

	option, err := r.catalog.FindOption(ctx, text)
	if err != nil {
		return Response{Route: RouteOption}, fmt.Errorf("failed to look up option: %w", err)
	}
	if option != nil {
		return Response{Route: RouteOption, Replies: []model.Reply{optionReply(option)}}, nil
	}

	replies, err := r.createRequest(ctx, msg)
	return Response{Route: RouteFallback, Replies: replies}, err
}

func (r *Router) handleCommand(ctx context.Context, sender model.Sender, cmd Command) ([]model.Reply, error) {
	if cmd.Name != CommandStart {
		return r.admin.Handle(ctx, sender.ID, cmd.Name, cmd.Args)
	}

	if err := r.users.Upsert(ctx, sender); err != nil {
		return nil, fmt.Errorf("failed to register user %d: %w", sender.ID, err)
	}

	return []model.Reply{{
		Text:     startCaption,
		HTML:     true,
		Keyboard: mainKeyboard(),
		PhotoURL: r.startImageURL,
		Fallback: &model.Reply{
			Text:     startFallbackText,
			HTML:     true,
			Keyboard: mainKeyboard(),
		},
	}}, nil
}

func (r *Router) handleMenu(ctx context.Context, label string) ([]model.Reply, error) {
	switch label {
	case LabelOutsourcing:
		services, err := r.catalog.Services(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list services: %w", err)
		}
		names := make([]string, 0, len(services))
		for _, s := range services {
			names = append(names, s.Name)
		}
		return []model.Reply{{Text: categoryMenuText, HTML: true, Keyboard: categoryKeyboard(names)}}, nil

	case LabelContacts:
		return []model.Reply{{Text: contactsText, HTML: true, Keyboard: backKeyboard()}}, nil

	case LabelFAQ:
		kb, err := r.faqMenu(ctx)
		if err != nil {
			return nil, err
		}
		return []model.Reply{{Text: faqMenuText, HTML: true, Keyboard: kb}}, nil

	case LabelNewRequest:
		return []model.Reply{{Text: newRequestText, HTML: true, Keyboard: backKeyboard()}}, nil

	case LabelWebDevelopment, LabelMobileApps:
		svc, err := r.catalog.FindService(ctx, label)
		if err != nil {
			return nil, fmt.Errorf("failed to look up service: %w", err)
		}
		if svc == nil {
			return []model.Reply{{Text: serviceNotFoundText, Keyboard: backKeyboard()}}, nil
		}
		return []model.Reply{serviceReply(svc)}, nil

	default:
		return []model.Reply{{Text: mainMenuText, Keyboard: mainKeyboard()}}, nil
	}
}

// faqMenu はFAQメニューのキーボードを現在の登録内容から組み立てる。
func (r *Router) faqMenu(ctx context.Context) (model.Keyboard, error) {
	questions, err := r.catalog.FAQQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list faq questions: %w", err)
	}
	return faqKeyboard(questions), nil
}

func (r *Router) faqAnswerReply(ctx context.Context, faq *model.FaqEntry) (model.Reply, error) {
	kb, err := r.faqMenu(ctx)
	if err != nil {
		return model.Reply{}, err
	}
	return model.Reply{
		Text:     fmt.Sprintf(faqAnswerFormat, faq.Question, faq.Answer),
		HTML:     true,
		Keyboard: kb,
	}, nil
}

func serviceReply(svc *catalog.ServiceWithOptions) model.Reply {
	names := make([]string, 0, len(svc.Options))
	for _, o := range svc.Options {
		names = append(names, o.Name)
	}
	return model.Reply{
		Text:     fmt.Sprintf(serviceTextFormat, svc.Service.Name, svc.Service.Description),
		HTML:     true,
		Keyboard: optionKeyboard(names),
	}
}

func optionReply(option *model.ServiceOptionWithService) model.Reply {
	return model.Reply{
		Text:     fmt.Sprintf(optionTextFormat, option.Name, option.Description, option.Price),
		HTML:     true,
		Keyboard: backKeyboard(),
	}
}

// createRequest はどの分類にも一致しないテキストをリクエストとして保存する。
// 外部キーを満たすため、作成前に利用者を登録する。
func (r *Router) createRequest(ctx context.Context, msg model.IncomingMessage) ([]model.Reply, error) {
	if err := r.users.Upsert(ctx, msg.Sender); err != nil {
		return nil, fmt.Errorf("failed to register user %d: %w", msg.Sender.ID, err)
	}

	id, err := r.requests.Create(ctx, msg.Sender.ID, msg.Text, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return []model.Reply{{
		Text:     fmt.Sprintf(requestAcceptedFormat, id),
		HTML:     true,
		Keyboard: mainKeyboard(),
	}}, nil
}
