package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core/enroll"
)

type enrollmentRepository struct {
	db *sqlx.DB
}

var _ enroll.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *sqlx.DB) *enrollmentRepository {
	return &enrollmentRepository{db: db}
}

type enrollmentRow struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	CourseID   string    `db:"course_id"`
	Status     string    `db:"status"`
	Progress   int       `db:"progress"`
	EnrolledAt time.Time `db:"enrolled_at"`
}

func (repo enrollmentRepository) fromRow(row enrollmentRow) enroll.Enrollment {
	return enroll.Enrollment{
		ID:         row.ID,
		UserID:     row.UserID,
		CourseID:   row.CourseID,
		Status:     row.Status,
		Progress:   row.Progress,
		EnrolledAt: row.EnrolledAt,
	}
}

func (repo enrollmentRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return enroll.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo enrollmentRepository) CreateEnrollment(ctx context.Context, enr enroll.Enrollment) (enroll.Enrollment, error) {
	enr.ID = uuid.New().String()
	row := enrollmentRow{
		ID:         enr.ID,
		UserID:     enr.UserID,
		CourseID:   enr.CourseID,
		Status:     enr.Status,
		Progress:   enr.Progress,
		EnrolledAt: enr.EnrolledAt.UTC(),
	}
	// the (user_id, course_id) unique index keeps concurrent reconciliations
	// from creating duplicates; the conflict no-op makes re-runs idempotent.
	q := `INSERT INTO enrollment (id, user_id, course_id, status, progress, enrolled_at)
	      VALUES (:id, :user_id, :course_id, :status, :progress, :enrolled_at)
	      ON CONFLICT (user_id, course_id) DO NOTHING`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return enroll.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return repo.fromRow(row), nil
}

func (repo enrollmentRepository) GetEnrollment(ctx context.Context, userID, courseID string) (enroll.Enrollment, error) {
	var row enrollmentRow
	q := `SELECT * FROM enrollment WHERE user_id = $1 AND course_id = $2`
	if err := repo.db.GetContext(ctx, &row, q, userID, courseID); err != nil {
		return enroll.Enrollment{}, repo.trapNoRowsErr(err, "finding enrollment")
	}
	return repo.fromRow(row), nil
}

func (repo enrollmentRepository) ListEnrollments(ctx context.Context, userID string) ([]enroll.Enrollment, error) {
	var rows []enrollmentRow
	q := `SELECT * FROM enrollment WHERE user_id = $1 ORDER BY enrolled_at DESC`
	if err := repo.db.SelectContext(ctx, &rows, q, userID); err != nil {
		return nil, errors.Wrap(err, "listing enrollments")
	}
	enrs := make([]enroll.Enrollment, 0, len(rows))
	for _, row := range rows {
		enrs = append(enrs, repo.fromRow(row))
	}
	return enrs, nil
}

func (repo enrollmentRepository) UpdateEnrollment(ctx context.Context, enr enroll.Enrollment) (enroll.Enrollment, error) {
	q := `UPDATE enrollment SET status = $1, progress = $2 WHERE user_id = $3 AND course_id = $4`
	res, err := repo.db.ExecContext(ctx, q, enr.Status, enr.Progress, enr.UserID, enr.CourseID)
	if err != nil {
		return enroll.Enrollment{}, errors.Wrap(err, "updating enrollment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return enroll.Enrollment{}, enroll.ErrNotFound
	}
	return repo.GetEnrollment(ctx, enr.UserID, enr.CourseID)
}

func (repo enrollmentRepository) DeleteEnrollment(ctx context.Context, userID, courseID string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM enrollment WHERE user_id = $1 AND course_id = $2`, userID, courseID)
	if err != nil {
		return errors.Wrap(err, "deleting enrollment")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return enroll.ErrNotFound
	}
	return nil
}
