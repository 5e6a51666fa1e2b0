package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/course"
)

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

type courseRow struct {
	ID                 string      `db:"id"`
	Title              string      `db:"title"`
	Description        null.String `db:"description"`
	Price              null.Float64 `db:"price"`
	Duration           null.String `db:"duration"`
	Category           null.String `db:"category"`
	Level              null.String `db:"level"`
	About              null.String `db:"about"`
	LearningObjectives null.String `db:"learning_objectives"`
	Videos             []byte      `db:"videos"`
	Syllabus           []byte      `db:"syllabus"`
	Assignments        []byte      `db:"assignments"`
	Resources          []byte      `db:"resources"`
	CreatedAt          time.Time   `db:"created_at"`
	UpdatedAt          time.Time   `db:"updated_at"`
}

func (repo courseRepository) toRow(crs course.Course) (courseRow, error) {
	row := courseRow{
		ID:                 crs.ID,
		Title:              crs.Title,
		Description:        null.NewString(crs.Description, crs.Description != ""),
		Price:              null.Float64From(crs.Price),
		Duration:           null.NewString(crs.Duration, crs.Duration != ""),
		Category:           null.NewString(crs.Category, crs.Category != ""),
		Level:              null.NewString(crs.Level, crs.Level != ""),
		About:              null.NewString(crs.About, crs.About != ""),
		LearningObjectives: null.NewString(crs.LearningObjectives, crs.LearningObjectives != ""),
		CreatedAt:          crs.CreatedAt.UTC(),
		UpdatedAt:          crs.UpdatedAt.UTC(),
	}

	// the nested payloads are stored as jsonb documents
	var err error
	if row.Videos, err = marshalPayload(crs.Videos); err != nil {
		return courseRow{}, err
	}
	if row.Syllabus, err = marshalPayload(crs.Syllabus); err != nil {
		return courseRow{}, err
	}
	if row.Assignments, err = marshalPayload(crs.Assignments); err != nil {
		return courseRow{}, err
	}
	if row.Resources, err = marshalPayload(crs.Resources); err != nil {
		return courseRow{}, err
	}
	return row, nil
}

func marshalPayload(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "marshalling course payload")
	}
	return data, nil
}

func (repo courseRepository) fromRow(row courseRow) (course.Course, error) {
	crs := course.Course{
		ID:                 row.ID,
		Title:              row.Title,
		Description:        row.Description.String,
		Price:              row.Price.Float64,
		Duration:           row.Duration.String,
		Category:           row.Category.String,
		Level:              row.Level.String,
		About:              row.About.String,
		LearningObjectives: row.LearningObjectives.String,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
	for _, pl := range []struct {
		data []byte
		dst  interface{}
	}{
		{row.Videos, &crs.Videos},
		{row.Syllabus, &crs.Syllabus},
		{row.Assignments, &crs.Assignments},
		{row.Resources, &crs.Resources},
	} {
		if len(pl.data) == 0 {
			continue
		}
		if err := json.Unmarshal(pl.data, pl.dst); err != nil {
			return course.Course{}, errors.Wrap(err, "unmarshalling course payload")
		}
	}
	return crs, nil
}

func (repo courseRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return course.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	crs.ID = uuid.New().String()
	row, err := repo.toRow(crs)
	if err != nil {
		return course.Course{}, err
	}
	q := `INSERT INTO course (id, title, description, price, duration, category, level, about, learning_objectives,
	                          videos, syllabus, assignments, resources, created_at, updated_at)
	      VALUES (:id, :title, :description, :price, :duration, :category, :level, :about, :learning_objectives,
	              :videos, :syllabus, :assignments, :resources, :created_at, :updated_at)`
	if _, err = repo.db.NamedExecContext(ctx, q, row); err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return crs, nil
}

func (repo courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	var row courseRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM course WHERE id = $1`, id); err != nil {
		return course.Course{}, repo.trapNoRowsErr(err, "finding course by ID")
	}
	return repo.fromRow(row)
}

func (repo courseRepository) QueryCourses(ctx context.Context, filter *course.QueryFilter, ordering []core.DBOrdering) ([]course.Course, error) {
	q := `SELECT * FROM course`
	var conds []string
	var args []interface{}

	if filter != nil {
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			conds = append(conds, `(title ILIKE ? OR description ILIKE ?)`)
			args = append(args, val, val)
		}
		if filter.Category != "" {
			conds = append(conds, `category = ?`)
			args = append(args, filter.Category)
		}
		if filter.Level != "" {
			conds = append(conds, `level = ?`)
			args = append(args, filter.Level)
		}
	}
	for i, cond := range conds {
		if i == 0 {
			q += ` WHERE ` + cond
		} else {
			q += ` AND ` + cond
		}
	}
	q += orderingClause(ordering, "created_at DESC")

	var rows []courseRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		crs, err := repo.fromRow(row)
		if err != nil {
			return nil, err
		}
		courses = append(courses, crs)
	}
	return courses, nil
}

func (repo courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	row, err := repo.toRow(crs)
	if err != nil {
		return course.Course{}, err
	}
	q := `UPDATE course SET title = :title, description = :description, price = :price, duration = :duration,
	                        category = :category, level = :level, about = :about,
	                        learning_objectives = :learning_objectives, videos = :videos, syllabus = :syllabus,
	                        assignments = :assignments, resources = :resources, updated_at = :updated_at
	      WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, row)
	if err != nil {
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return course.Course{}, course.ErrNotFound
	}
	return crs, nil
}

func (repo courseRepository) DeleteCoursesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM course WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "expanding query")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting courses")
	}
	return nil
}

// Ratings

type ratingRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	CourseID  string    `db:"course_id"`
	Stars     int       `db:"stars"`
	CreatedAt time.Time `db:"created_at"`
}

func (repo courseRepository) CreateRating(ctx context.Context, r course.Rating) (course.Rating, error) {
	r.ID = uuid.New().String()
	row := ratingRow{
		ID:        r.ID,
		UserID:    r.UserID,
		CourseID:  r.CourseID,
		Stars:     r.Stars,
		CreatedAt: r.CreatedAt.UTC(),
	}
	q := `INSERT INTO rating (id, user_id, course_id, stars, created_at)
	      VALUES (:id, :user_id, :course_id, :stars, :created_at)
	      ON CONFLICT (user_id, course_id) DO NOTHING`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return course.Rating{}, errors.Wrap(err, "inserting rating")
	}
	return r, nil
}

func (repo courseRepository) GetRating(ctx context.Context, userID, courseID string) (course.Rating, error) {
	var row ratingRow
	q := `SELECT * FROM rating WHERE user_id = $1 AND course_id = $2`
	if err := repo.db.GetContext(ctx, &row, q, userID, courseID); err != nil {
		return course.Rating{}, repo.trapNoRowsErr(err, "finding rating")
	}
	return course.Rating{
		ID:        row.ID,
		UserID:    row.UserID,
		CourseID:  row.CourseID,
		Stars:     row.Stars,
		CreatedAt: row.CreatedAt,
	}, nil
}

func (repo courseRepository) GetRatingSummary(ctx context.Context, courseID string) (course.RatingSummary, error) {
	var row struct {
		Count   int     `db:"count"`
		Average float64 `db:"average"`
	}
	q := `SELECT COUNT(*) AS count, COALESCE(AVG(stars), 0) AS average FROM rating WHERE course_id = $1`
	if err := repo.db.GetContext(ctx, &row, q, courseID); err != nil {
		return course.RatingSummary{}, errors.Wrap(err, "aggregating ratings")
	}
	return course.RatingSummary{CourseID: courseID, Count: row.Count, Average: row.Average}, nil
}
