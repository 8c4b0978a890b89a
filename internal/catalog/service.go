// Package catalog はサービス・バリエーション・FAQの参照系操作を提供する。
// データは毎回リポジトリから取得し、プロセス内にキャッシュしない。
package catalog

import (
	"context"
	"fmt"

	"github.com/hitoshi/outsourcebot/internal/model"
	"github.com/hitoshi/outsourcebot/internal/repository"
)

// Service はカタログ参照を行うサービス。
type Service struct {
	services repository.ServiceRepository
	options  repository.ServiceOptionRepository
	faq      repository.FaqRepository
}

// NewService は新しいカタログServiceを生成する。
func NewService(
	services repository.ServiceRepository,
	options repository.ServiceOptionRepository,
	faq repository.FaqRepository,
) *Service {
	return &Service{
		services: services,
		options:  options,
		faq:      faq,
	}
}

// ServiceWithOptions はサービスとそのバリエーション一覧。
type ServiceWithOptions struct {
	Service *model.Service
	Options []*model.ServiceOption
}

// Services は全サービスを返す。
func (s *Service) Services(ctx context.Context) ([]*model.Service, error) {
	return s.services.List(ctx)
}

// FindService は名前が完全一致するサービスとそのバリエーションを返す。
// 一致するサービスがない場合はnilを返す。
func (s *Service) FindService(ctx context.Context, name string) (*ServiceWithOptions, error) {
	svc, err := s.services.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, nil
	}

	options, err := s.options.ListByServiceID(ctx, svc.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load options of service %d: %w", svc.ID, err)
	}

	return &ServiceWithOptions{Service: svc, Options: options}, nil
}

// FindOption は名前が完全一致するバリエーションを返す。一致しない場合はnilを返す。
func (s *Service) FindOption(ctx context.Context, name string) (*model.ServiceOptionWithService, error) {
	return s.options.FindByName(ctx, name)
}

// FindFAQ は質問文が完全一致するFAQを返す。一致しない場合はnilを返す。
func (s *Service) FindFAQ(ctx context.Context, question string) (*model.FaqEntry, error) {
	return s.faq.FindByQuestion(ctx, question)
}

// FAQQuestions は登録済みの全質問文をID順で返す。
func (s *Service) FAQQuestions(ctx context.Context) ([]string, error) {
	entries, err := s.faq.List(ctx)
	if err != nil {
		return nil, err
	}

	questions := make([]string, 0, len(entries))
	for _, e := range entries {
		questions = append(questions, e.Question)
	}
	return questions, nil
}
