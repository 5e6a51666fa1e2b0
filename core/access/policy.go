// Package access holds the course access policy: a pure, I/O-free decision
// function consulted by the route-level gate before serving course content.
package access

import (
	"github.com/trezcool/elimu/core/enroll"
	"github.com/trezcool/elimu/core/user"
)

// Decision is the outcome of an access policy evaluation.
type Decision int

const (
	// Granted allows the principal to view the target course.
	Granted Decision = iota
	// DeniedNoPrincipal denies access because no authenticated principal exists.
	DeniedNoPrincipal
	// DeniedNotEnrolled denies access because the principal holds no active
	// enrollment for the target course.
	DeniedNotEnrolled
)

func (d Decision) String() string {
	switch d {
	case Granted:
		return "granted"
	case DeniedNoPrincipal:
		return "denied: no principal"
	case DeniedNotEnrolled:
		return "denied: not enrolled"
	}
	return "unknown"
}

// Evaluate decides whether a principal may view the target course given their
// active enrollment set. An empty courseID means no specific course is
// required and any authenticated principal passes. Existence of the course ID
// in the enrollment set is the sole predicate; progress and status nuances
// are resolved upstream when the set is built.
func Evaluate(principal *user.User, enrolled enroll.CourseSet, courseID string) Decision {
	if principal == nil {
		return DeniedNoPrincipal
	}
	if courseID == "" {
		return Granted
	}
	if enrolled.Has(courseID) {
		return Granted
	}
	return DeniedNotEnrolled
}
