package feedback

import (
	"context"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/application"
	domfeedback "github.com/Sai-Karthik-Manam/ShopSmart-App/internal/domain/feedback"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability"
)

type Service struct {
	repo domfeedback.Repository
	ids  application.IDGenerator
	inst *application.Instrument
}

func NewService(repo domfeedback.Repository, ids application.IDGenerator, tel observability.Observability) *Service {
	return &Service{repo: repo, ids: ids, inst: application.NewInstrument(tel, "feedback-service")}
}

func (s *Service) Submit(ctx context.Context, name, email, message string) (_ *domfeedback.Feedback, err error) {
	ctx, run := s.inst.Start(ctx, "feedback.submit", "SubmitFeedback")
	defer func() { run.End(err) }()

	f, err := domfeedback.New(s.ids.NewID(), name, email, message)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) List(ctx context.Context) (_ []*domfeedback.Feedback, err error) {
	ctx, run := s.inst.Start(ctx, "feedback.list", "ListFeedback")
	defer func() { run.End(err) }()
	return s.repo.List(ctx)
}
