package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/elimu/core/enroll"
)

type enrollmentRepository struct {
	db *enrollTable
}

var _ enroll.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(db *DB) enroll.Repository {
	return &enrollmentRepository{db: db.enroll}
}

func (repo *enrollmentRepository) CreateEnrollment(ctx context.Context, enr enroll.Enrollment) (enroll.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	// insert is a no-op when the pair already exists; re-runs are idempotent.
	key := pairKey(enr.UserID, enr.CourseID)
	if existing, ok := repo.db.table[key]; ok {
		return *existing, nil
	}
	enr.ID = uuid.New().String()
	repo.db.table[key] = &enr
	return enr, nil
}

func (repo *enrollmentRepository) GetEnrollment(ctx context.Context, userID, courseID string) (enroll.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if enr, ok := repo.db.table[pairKey(userID, courseID)]; ok {
		return *enr, nil
	}
	return enroll.Enrollment{}, enroll.ErrNotFound
}

func (repo *enrollmentRepository) ListEnrollments(ctx context.Context, userID string) ([]enroll.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	enrs := make([]enroll.Enrollment, 0)
	for _, enr := range repo.db.table {
		if enr.UserID == userID {
			enrs = append(enrs, *enr)
		}
	}
	sort.Slice(enrs, func(i, j int) bool { return enrs[i].EnrolledAt.After(enrs[j].EnrolledAt) })
	return enrs, nil
}

func (repo *enrollmentRepository) UpdateEnrollment(ctx context.Context, enr enroll.Enrollment) (enroll.Enrollment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := pairKey(enr.UserID, enr.CourseID)
	orig, ok := repo.db.table[key]
	if !ok {
		return enroll.Enrollment{}, enroll.ErrNotFound
	}
	orig.Status = enr.Status
	orig.Progress = enr.Progress
	return *orig, nil
}

func (repo *enrollmentRepository) DeleteEnrollment(ctx context.Context, userID, courseID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := pairKey(userID, courseID)
	if _, ok := repo.db.table[key]; !ok {
		return enroll.ErrNotFound
	}
	delete(repo.db.table, key)
	return nil
}
