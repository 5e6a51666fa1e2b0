package course

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core"
)

var (
	// errors
	ErrNotFound     = errors.New("course not found")
	ErrAlreadyRated = errors.New("course already rated")
	ErrInvalidStars = errors.New("stars must be between 1 and 5")
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		QueryCourses(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Course, error)
		UpdateCourse(ctx context.Context, crs Course) (Course, error)
		DeleteCoursesByID(ctx context.Context, ids ...string) error

		CreateRating(ctx context.Context, r Rating) (Rating, error)
		GetRating(ctx context.Context, userID, courseID string) (Rating, error)
		GetRatingSummary(ctx context.Context, courseID string) (RatingSummary, error)
	}

	Service interface {
		Create(ctx context.Context, nc NewCourse) (Course, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Course, error)
		GetByID(ctx context.Context, id string) (Course, error)
		Update(ctx context.Context, id string, uc UpdateCourse) (Course, error)
		UpdateContent(ctx context.Context, id string, op ContentOp) (Course, error)
		Delete(ctx context.Context, ids ...string) error
		Rate(ctx context.Context, userID, courseID string, stars int) (Rating, error)
		RatingSummary(ctx context.Context, courseID string) (RatingSummary, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	crs := Course{
		Title:              nc.Title,
		Description:        nc.Description,
		Price:              nc.Price,
		Duration:           nc.Duration,
		Category:           nc.Category,
		Level:              nc.Level,
		About:              nc.About,
		LearningObjectives: nc.LearningObjectives,
		Videos:             nc.Videos,
		Syllabus:           nc.Syllabus,
		Assignments:        nc.Assignments,
		Resources:          nc.Resources,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if crs.Level == "" {
		crs.Level = LevelBeginner
	}
	return svc.repo.CreateCourse(ctx, crs)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]Course, error) {
	return svc.repo.QueryCourses(ctx, filter, ordering)
}

func (svc *service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *service) Update(ctx context.Context, id string, uc UpdateCourse) (Course, error) {
	crs, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return Course{}, err
	}

	if uc.Title != "" {
		crs.Title = uc.Title
	}
	if uc.Description != nil {
		crs.Description = *uc.Description
	}
	if uc.Price != nil {
		crs.Price = *uc.Price
	}
	if uc.Duration != nil {
		crs.Duration = *uc.Duration
	}
	if uc.Category != nil {
		crs.Category = core.CleanString(*uc.Category, true /* lower */)
	}
	if uc.Level != "" {
		crs.Level = uc.Level
	}
	if uc.About != nil {
		crs.About = *uc.About
	}
	if uc.LearningObjectives != nil {
		crs.LearningObjectives = *uc.LearningObjectives
	}
	if uc.Videos != nil {
		crs.Videos = uc.Videos
	}
	if uc.Syllabus != nil {
		crs.Syllabus = uc.Syllabus
	}
	if uc.Assignments != nil {
		crs.Assignments = uc.Assignments
	}
	if uc.Resources != nil {
		crs.Resources = uc.Resources
	}
	crs.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateCourse(ctx, crs)
}

// UpdateContent applies one item-level edit to a course's content collections.
func (svc *service) UpdateContent(ctx context.Context, id string, op ContentOp) (Course, error) {
	crs, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return Course{}, err
	}

	if err := op.apply(&crs); err != nil {
		switch errors.Cause(err) {
		case ErrIndexOutOfRange:
			return Course{}, core.NewValidationError(err, core.FieldError{Field: "index", Error: ErrIndexOutOfRange.Error()})
		case ErrInvalidItem:
			return Course{}, core.NewValidationError(err, core.FieldError{Field: "item", Error: ErrInvalidItem.Error()})
		}
		return Course{}, errors.Wrap(err, "applying content edit")
	}
	crs.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateCourse(ctx, crs)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteCoursesByID(ctx, ids...)
}

// Rate records a user's rating of a course; one rating per (user, course).
func (svc *service) Rate(ctx context.Context, userID, courseID string, stars int) (Rating, error) {
	if stars < 1 || stars > 5 {
		return Rating{}, core.NewValidationError(ErrInvalidStars, core.FieldError{Field: "stars", Error: ErrInvalidStars.Error()})
	}
	if _, err := svc.repo.GetCourseByID(ctx, courseID); err != nil {
		return Rating{}, err
	}
	if _, err := svc.repo.GetRating(ctx, userID, courseID); err == nil {
		return Rating{}, ErrAlreadyRated
	} else if errors.Cause(err) != ErrNotFound {
		return Rating{}, errors.Wrap(err, "checking existing rating")
	}

	r := Rating{
		UserID:    userID,
		CourseID:  courseID,
		Stars:     stars,
		CreatedAt: time.Now().UTC(),
	}
	return svc.repo.CreateRating(ctx, r)
}

func (svc *service) RatingSummary(ctx context.Context, courseID string) (RatingSummary, error) {
	return svc.repo.GetRatingSummary(ctx, courseID)
}
