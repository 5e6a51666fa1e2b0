package enroll

import "time"

// Enrollment statuses
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Enrollment grants a user access to a specific course.
// At most one enrollment exists per (user, course) pair; an active one is
// the sole access predicate for that course's content.
type Enrollment struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CourseID   string    `json:"course_id"`
	Status     string    `json:"status"`
	Progress   int       `json:"progress"` // 0 - 100
	EnrolledAt time.Time `json:"enrolled_at"` // UTC
}

func (e Enrollment) IsActive() bool {
	return e.Status == StatusActive
}

// CourseSet is the set of course IDs a user is actively enrolled in.
type CourseSet map[string]struct{}

func NewCourseSet(courseIDs ...string) CourseSet {
	set := make(CourseSet, len(courseIDs))
	for _, id := range courseIDs {
		set.Add(id)
	}
	return set
}

func (s CourseSet) Add(courseID string) {
	s[courseID] = struct{}{}
}

func (s CourseSet) Has(courseID string) bool {
	_, ok := s[courseID]
	return ok
}

func (s CourseSet) Slice() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}
