package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/elimu/core"
	"github.com/trezcool/elimu/core/course"
)

type courseRepository struct {
	db *courseTable
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{db: db.course}
}

func (repo *courseRepository) query() []course.Course {
	courses := make([]course.Course, 0, len(repo.db.table))
	for _, crs := range repo.db.table {
		courses = append(courses, *crs)
	}
	return courses
}

func (repo *courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	crs.ID = uuid.New().String()
	repo.db.table[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if crs, ok := repo.db.table[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) QueryCourses(ctx context.Context, filter *course.QueryFilter, ordering []core.DBOrdering) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := repo.query()

	if filter != nil {
		if filter.Search != "" {
			var filtered []course.Course
			for _, crs := range courses {
				if strings.Contains(strings.ToLower(crs.Title), strings.ToLower(filter.Search)) ||
					strings.Contains(strings.ToLower(crs.Description), strings.ToLower(filter.Search)) {
					filtered = append(filtered, crs)
				}
			}
			courses = filtered
		}
		if courses != nil && filter.Category != "" {
			var filtered []course.Course
			for _, crs := range courses {
				if crs.Category == filter.Category {
					filtered = append(filtered, crs)
				}
			}
			courses = filtered
		}
		if courses != nil && filter.Level != "" {
			var filtered []course.Course
			for _, crs := range courses {
				if crs.Level == filter.Level {
					filtered = append(filtered, crs)
				}
			}
			courses = filtered
		}
	}

	sort.Slice(courses, func(i, j int) bool { return courses[i].CreatedAt.After(courses[j].CreatedAt) })
	return courses, nil
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[crs.ID]; !ok {
		return course.Course{}, course.ErrNotFound
	}
	repo.db.table[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) DeleteCoursesByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func (repo *courseRepository) CreateRating(ctx context.Context, r course.Rating) (course.Rating, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	key := pairKey(r.UserID, r.CourseID)
	if existing, ok := repo.db.ratings[key]; ok {
		return *existing, nil
	}
	r.ID = uuid.New().String()
	repo.db.ratings[key] = &r
	return r, nil
}

func (repo *courseRepository) GetRating(ctx context.Context, userID, courseID string) (course.Rating, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if r, ok := repo.db.ratings[pairKey(userID, courseID)]; ok {
		return *r, nil
	}
	return course.Rating{}, course.ErrNotFound
}

func (repo *courseRepository) GetRatingSummary(ctx context.Context, courseID string) (course.RatingSummary, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	summary := course.RatingSummary{CourseID: courseID}
	var total int
	for _, r := range repo.db.ratings {
		if r.CourseID == courseID {
			summary.Count++
			total += r.Stars
		}
	}
	if summary.Count > 0 {
		summary.Average = float64(total) / float64(summary.Count)
	}
	return summary, nil
}
