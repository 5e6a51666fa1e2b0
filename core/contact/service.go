package contact

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core"
)

var ErrNotFound = errors.New("message not found")

type (
	Repository interface {
		CreateMessage(ctx context.Context, msg Message) (Message, error)
		QueryMessages(ctx context.Context, ordering []core.DBOrdering) ([]Message, error)
		DeleteMessagesByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		// Submit stores the message and notifies the staff contact address.
		Submit(ctx context.Context, nm NewMessage) (Message, error)
		Query(ctx context.Context, ordering []core.DBOrdering) ([]Message, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) Service {
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

func (svc *service) Submit(ctx context.Context, nm NewMessage) (Message, error) {
	msg := Message{
		Name:      nm.Name,
		Email:     nm.Email,
		Subject:   nm.Subject,
		Body:      nm.Body,
		CreatedAt: time.Now().UTC(),
	}
	msg, err := svc.repo.CreateMessage(ctx, msg)
	if err != nil {
		return Message{}, errors.Wrap(err, "creating contact message")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{svc.conf.ContactEmail},
		Subject:      "New contact message",
		TemplateName: "contact-message",
		TemplateData: msg,
	})
	return msg, nil
}

func (svc *service) Query(ctx context.Context, ordering []core.DBOrdering) ([]Message, error) {
	return svc.repo.QueryMessages(ctx, ordering)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteMessagesByID(ctx, ids...)
}
