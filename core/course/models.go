package course

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/elimu/core"
)

// Levels
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

var AllLevels = []string{LevelBeginner, LevelIntermediate, LevelAdvanced}

// Course is a catalog entry ("program"). Its nested payloads are ordered
// collections edited through the list types in content.go.
type Course struct {
	ID                 string       `json:"id"`
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	Price              float64      `json:"price"`
	Duration           string       `json:"duration"`
	Category           string       `json:"category"`
	Level              string       `json:"level"`
	About              string       `json:"about_course"`
	LearningObjectives string       `json:"learning_objectives"`
	Videos             VideoList    `json:"video_content"`
	Syllabus           SyllabusList `json:"syllabus"`
	Assignments        TaskList     `json:"assignments"`
	Resources          ResourceList `json:"resources"`
	CreatedAt          time.Time    `json:"created_at"` // UTC
	UpdatedAt          time.Time    `json:"updated_at"` // UTC
}

// Content is the enrollment-gated payload of a Course.
type Content struct {
	Videos      VideoList    `json:"video_content"`
	Syllabus    SyllabusList `json:"syllabus"`
	Assignments TaskList     `json:"assignments"`
	Resources   ResourceList `json:"resources"`
}

func (c Course) Content() Content {
	return Content{
		Videos:      c.Videos,
		Syllabus:    c.Syllabus,
		Assignments: c.Assignments,
		Resources:   c.Resources,
	}
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title              string       `json:"title" validate:"required"`
	Description        string       `json:"description"`
	Price              float64      `json:"price" validate:"gte=0"`
	Duration           string       `json:"duration"`
	Category           string       `json:"category"`
	Level              string       `json:"level" validate:"omitempty,courselevel"`
	About              string       `json:"about_course"`
	LearningObjectives string       `json:"learning_objectives"`
	Videos             VideoList    `json:"video_content" validate:"dive"`
	Syllabus           SyllabusList `json:"syllabus" validate:"dive"`
	Assignments        TaskList     `json:"assignments" validate:"dive"`
	Resources          ResourceList `json:"resources" validate:"dive"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Category = core.CleanString(nc.Category, true /* lower */)
	nc.Level = core.CleanString(nc.Level, true /* lower */)
	return validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
// Nil collections are left untouched; empty ones clear the payload.
type UpdateCourse struct {
	Title              string       `json:"title"`
	Description        *string      `json:"description"`
	Price              *float64     `json:"price" validate:"omitempty,gte=0"`
	Duration           *string      `json:"duration"`
	Category           *string      `json:"category"`
	Level              string       `json:"level" validate:"omitempty,courselevel"`
	About              *string      `json:"about_course"`
	LearningObjectives *string      `json:"learning_objectives"`
	Videos             VideoList    `json:"video_content" validate:"omitempty,dive"`
	Syllabus           SyllabusList `json:"syllabus" validate:"omitempty,dive"`
	Assignments        TaskList     `json:"assignments" validate:"omitempty,dive"`
	Resources          ResourceList `json:"resources" validate:"omitempty,dive"`
}

func (uc *UpdateCourse) Validate(validate *validator.Validate) error {
	uc.Title = core.CleanString(uc.Title)
	uc.Level = core.CleanString(uc.Level, true /* lower */)
	return validate.Struct(uc)
}

// Rating is a single user's 1..5 star rating of a course; one per (user, course).
type Rating struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	CourseID  string    `json:"course_id"`
	Stars     int       `json:"stars"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// RatingSummary is a course's rating aggregate.
type RatingSummary struct {
	CourseID string  `json:"course_id"`
	Count    int     `json:"count"`
	Average  float64 `json:"average"`
}

type QueryFilter struct {
	Search   string `query:"search"`
	Category string `query:"category"`
	Level    string `query:"level"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Category == "" && qf.Level == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Category = core.CleanString(qf.Category, true /* lower */)
	qf.Level = core.CleanString(qf.Level, true /* lower */)
}
