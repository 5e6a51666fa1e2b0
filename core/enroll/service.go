package enroll

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound        = errors.New("enrollment not found")
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
)

type (
	Repository interface {
		CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		GetEnrollment(ctx context.Context, userID, courseID string) (Enrollment, error)
		// ListEnrollments returns all of a user's enrollments, most recent first.
		ListEnrollments(ctx context.Context, userID string) ([]Enrollment, error)
		UpdateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		DeleteEnrollment(ctx context.Context, userID, courseID string) error
	}

	Service interface {
		List(ctx context.Context, userID string) ([]Enrollment, error)
		// ListCourseIDs returns the set of course IDs the user is enrolled
		// in: their access-control list.
		ListCourseIDs(ctx context.Context, userID string) (CourseSet, error)
		Enroll(ctx context.Context, userID, courseID string) (Enrollment, error)
		Reconcile(ctx context.Context, userID string, desired []string) error
		SetProgress(ctx context.Context, userID, courseID string, progress int) (Enrollment, error)
		Revoke(ctx context.Context, userID, courseID string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) List(ctx context.Context, userID string) ([]Enrollment, error) {
	return svc.repo.ListEnrollments(ctx, userID)
}

func (svc *service) ListCourseIDs(ctx context.Context, userID string) (CourseSet, error) {
	enrs, err := svc.repo.ListEnrollments(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "listing enrollments")
	}
	// revocation deletes the row, so every remaining enrollment grants
	// access; completed courses stay accessible.
	set := make(CourseSet, len(enrs))
	for _, enr := range enrs {
		set.Add(enr.CourseID)
	}
	return set, nil
}

// Enroll enrolls a user into a course; duplicates are rejected.
func (svc *service) Enroll(ctx context.Context, userID, courseID string) (Enrollment, error) {
	if _, err := svc.repo.GetEnrollment(ctx, userID, courseID); err == nil {
		return Enrollment{}, ErrAlreadyEnrolled
	} else if errors.Cause(err) != ErrNotFound {
		return Enrollment{}, errors.Wrap(err, "checking existing enrollment")
	}

	enr := Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		Status:     StatusActive,
		EnrolledAt: time.Now().UTC(),
	}
	return svc.repo.CreateEnrollment(ctx, enr)
}

// Reconcile replaces a user's enrollment set with the desired course IDs:
// missing enrollments are created, enrollments not in the desired set are
// removed. The individual add/remove operations are not transactional;
// a failed run may leave a partial state and is safe to re-run.
func (svc *service) Reconcile(ctx context.Context, userID string, desired []string) error {
	current, err := svc.repo.ListEnrollments(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "listing enrollments")
	}

	currentSet := make(CourseSet, len(current))
	for _, enr := range current {
		currentSet.Add(enr.CourseID)
	}
	desiredSet := NewCourseSet(desired...)

	now := time.Now().UTC()
	for courseID := range desiredSet {
		if currentSet.Has(courseID) {
			continue
		}
		enr := Enrollment{
			UserID:     userID,
			CourseID:   courseID,
			Status:     StatusActive,
			EnrolledAt: now,
		}
		if _, err := svc.repo.CreateEnrollment(ctx, enr); err != nil {
			return errors.Wrap(err, "creating enrollment")
		}
	}
	for courseID := range currentSet {
		if desiredSet.Has(courseID) {
			continue
		}
		if err := svc.repo.DeleteEnrollment(ctx, userID, courseID); err != nil && errors.Cause(err) != ErrNotFound {
			return errors.Wrap(err, "deleting enrollment")
		}
	}
	return nil
}

func (svc *service) SetProgress(ctx context.Context, userID, courseID string, progress int) (Enrollment, error) {
	if progress < 0 {
		progress = 0
	} else if progress > 100 {
		progress = 100
	}

	enr, err := svc.repo.GetEnrollment(ctx, userID, courseID)
	if err != nil {
		return Enrollment{}, err
	}
	enr.Progress = progress
	if progress == 100 {
		enr.Status = StatusCompleted
	}
	return svc.repo.UpdateEnrollment(ctx, enr)
}

func (svc *service) Revoke(ctx context.Context, userID, courseID string) error {
	return svc.repo.DeleteEnrollment(ctx, userID, courseID)
}
