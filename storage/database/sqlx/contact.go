package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/contact"
)

type contactRepository struct {
	db *sqlx.DB
}

var _ contact.Repository = (*contactRepository)(nil) // interface compliance check

func NewContactRepository(db *sqlx.DB) *contactRepository {
	return &contactRepository{db: db}
}

type messageRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Subject   string    `db:"subject"`
	Body      string    `db:"body"`
	CreatedAt time.Time `db:"created_at"`
}

func (repo contactRepository) fromRow(row messageRow) contact.Message {
	return contact.Message(row)
}

func (repo contactRepository) CreateMessage(ctx context.Context, msg contact.Message) (contact.Message, error) {
	msg.ID = uuid.New().String()
	row := messageRow(msg)
	row.CreatedAt = row.CreatedAt.UTC()
	q := `INSERT INTO contact_message (id, name, email, subject, body, created_at)
	      VALUES (:id, :name, :email, :subject, :body, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return contact.Message{}, errors.Wrap(err, "inserting contact message")
	}
	return msg, nil
}

func (repo contactRepository) QueryMessages(ctx context.Context, ordering []core.DBOrdering) ([]contact.Message, error) {
	q := `SELECT * FROM contact_message` + orderingClause(ordering, "created_at DESC")
	var rows []messageRow
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying contact messages")
	}
	msgs := make([]contact.Message, 0, len(rows))
	for _, row := range rows {
		msgs = append(msgs, repo.fromRow(row))
	}
	return msgs, nil
}

func (repo contactRepository) DeleteMessagesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM contact_message WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "expanding query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting contact messages")
	}
	return nil
}
