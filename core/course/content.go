package course

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core"
)

// The course payloads are explicit ordered collections: each list type below
// carries the same small builder api (Add, Insert, Update, Remove, Move) so
// editing stays independent of any rendering concern.

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrInvalidItem     = errors.New("invalid item payload")
)

type Video struct {
	Title       string `json:"title" validate:"required"`
	URL         string `json:"url" validate:"required,url"`
	Description string `json:"description"`
}

type SyllabusWeek struct {
	Week    string `json:"week" validate:"required"`
	Topic   string `json:"topic" validate:"required"`
	Content string `json:"content"`
}

type Task struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
}

type Resource struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"url" validate:"required,url"`
	Type  string `json:"type"`
}

type (
	VideoList    []Video
	SyllabusList []SyllabusWeek
	TaskList     []Task
	ResourceList []Resource
)

// VideoList

func (l VideoList) Add(v Video) VideoList { return append(l, v) }

func (l VideoList) Insert(i int, v Video) (VideoList, error) {
	if i < 0 || i > len(l) {
		return l, ErrIndexOutOfRange
	}
	l = append(l, Video{})
	copy(l[i+1:], l[i:])
	l[i] = v
	return l, nil
}

func (l VideoList) Update(i int, v Video) error {
	if i < 0 || i >= len(l) {
		return ErrIndexOutOfRange
	}
	l[i] = v
	return nil
}

func (l VideoList) Remove(i int) (VideoList, error) {
	if i < 0 || i >= len(l) {
		return l, ErrIndexOutOfRange
	}
	return append(l[:i], l[i+1:]...), nil
}

func (l VideoList) Move(from, to int) error {
	if from < 0 || from >= len(l) || to < 0 || to >= len(l) {
		return ErrIndexOutOfRange
	}
	v := l[from]
	if from < to {
		copy(l[from:], l[from+1:to+1])
	} else {
		copy(l[to+1:], l[to:from])
	}
	l[to] = v
	return nil
}

// SyllabusList

func (l SyllabusList) Add(w SyllabusWeek) SyllabusList { return append(l, w) }

func (l SyllabusList) Insert(i int, w SyllabusWeek) (SyllabusList, error) {
	if i < 0 || i > len(l) {
		return l, ErrIndexOutOfRange
	}
	l = append(l, SyllabusWeek{})
	copy(l[i+1:], l[i:])
	l[i] = w
	return l, nil
}

func (l SyllabusList) Update(i int, w SyllabusWeek) error {
	if i < 0 || i >= len(l) {
		return ErrIndexOutOfRange
	}
	l[i] = w
	return nil
}

func (l SyllabusList) Remove(i int) (SyllabusList, error) {
	if i < 0 || i >= len(l) {
		return l, ErrIndexOutOfRange
	}
	return append(l[:i], l[i+1:]...), nil
}

func (l SyllabusList) Move(from, to int) error {
	if from < 0 || from >= len(l) || to < 0 || to >= len(l) {
		return ErrIndexOutOfRange
	}
	w := l[from]
	if from < to {
		copy(l[from:], l[from+1:to+1])
	} else {
		copy(l[to+1:], l[to:from])
	}
	l[to] = w
	return nil
}

// TaskList

func (l TaskList) Add(t Task) TaskList { return append(l, t) }

func (l TaskList) Insert(i int, t Task) (TaskList, error) {
	if i < 0 || i > len(l) {
		return l, ErrIndexOutOfRange
	}
	l = append(l, Task{})
	copy(l[i+1:], l[i:])
	l[i] = t
	return l, nil
}

func (l TaskList) Update(i int, t Task) error {
	if i < 0 || i >= len(l) {
		return ErrIndexOutOfRange
	}
	l[i] = t
	return nil
}

func (l TaskList) Remove(i int) (TaskList, error) {
	if i < 0 || i >= len(l) {
		return l, ErrIndexOutOfRange
	}
	return append(l[:i], l[i+1:]...), nil
}

func (l TaskList) Move(from, to int) error {
	if from < 0 || from >= len(l) || to < 0 || to >= len(l) {
		return ErrIndexOutOfRange
	}
	t := l[from]
	if from < to {
		copy(l[from:], l[from+1:to+1])
	} else {
		copy(l[to+1:], l[to:from])
	}
	l[to] = t
	return nil
}

// ResourceList

func (l ResourceList) Add(r Resource) ResourceList { return append(l, r) }

func (l ResourceList) Insert(i int, r Resource) (ResourceList, error) {
	if i < 0 || i > len(l) {
		return l, ErrIndexOutOfRange
	}
	l = append(l, Resource{})
	copy(l[i+1:], l[i:])
	l[i] = r
	return l, nil
}

func (l ResourceList) Update(i int, r Resource) error {
	if i < 0 || i >= len(l) {
		return ErrIndexOutOfRange
	}
	l[i] = r
	return nil
}

func (l ResourceList) Remove(i int) (ResourceList, error) {
	if i < 0 || i >= len(l) {
		return l, ErrIndexOutOfRange
	}
	return append(l[:i], l[i+1:]...), nil
}

func (l ResourceList) Move(from, to int) error {
	if from < 0 || from >= len(l) || to < 0 || to >= len(l) {
		return ErrIndexOutOfRange
	}
	r := l[from]
	if from < to {
		copy(l[from:], l[from+1:to+1])
	} else {
		copy(l[to+1:], l[to:from])
	}
	l[to] = r
	return nil
}

// Content ops

const (
	OpAdd    = "add"
	OpInsert = "insert"
	OpUpdate = "update"
	OpRemove = "remove"
	OpMove   = "move"
)

// ContentOp is a single item-level edit on one of a course's ordered content
// collections. Collection values match the Course json keys. Item carries the
// new element for add/insert/update; Index addresses the element for
// insert/update/remove/move and To is the move target.
type ContentOp struct {
	Collection string          `json:"collection" validate:"required,oneof=video_content syllabus assignments resources"`
	Op         string          `json:"op" validate:"required,oneof=add insert update remove move"`
	Index      int             `json:"index" validate:"gte=0"`
	To         int             `json:"to" validate:"gte=0"`
	Item       json.RawMessage `json:"item,omitempty"`
}

func (op *ContentOp) Validate(validate *validator.Validate) error {
	op.Collection = core.CleanString(op.Collection, true /* lower */)
	op.Op = core.CleanString(op.Op, true /* lower */)
	if err := validate.Struct(op); err != nil {
		return err
	}
	// a JSON null binds as the literal "null"
	if op.needsItem() && (len(op.Item) == 0 || string(op.Item) == "null") {
		return core.NewValidationError(nil, core.FieldError{Field: "item", Error: "this field is required"})
	}
	return nil
}

func (op ContentOp) needsItem() bool {
	switch op.Op {
	case OpAdd, OpInsert, OpUpdate:
		return true
	}
	return false
}

func (op ContentOp) item(v interface{}) error {
	if err := json.Unmarshal(op.Item, v); err != nil {
		return ErrInvalidItem
	}
	return nil
}

// apply performs the edit on the course in place.
func (op ContentOp) apply(crs *Course) error {
	var err error
	switch op.Collection {
	case "video_content":
		var v Video
		if op.needsItem() {
			if err = op.item(&v); err != nil {
				return err
			}
		}
		switch op.Op {
		case OpAdd:
			crs.Videos = crs.Videos.Add(v)
		case OpInsert:
			crs.Videos, err = crs.Videos.Insert(op.Index, v)
		case OpUpdate:
			err = crs.Videos.Update(op.Index, v)
		case OpRemove:
			crs.Videos, err = crs.Videos.Remove(op.Index)
		case OpMove:
			err = crs.Videos.Move(op.Index, op.To)
		}
	case "syllabus":
		var w SyllabusWeek
		if op.needsItem() {
			if err = op.item(&w); err != nil {
				return err
			}
		}
		switch op.Op {
		case OpAdd:
			crs.Syllabus = crs.Syllabus.Add(w)
		case OpInsert:
			crs.Syllabus, err = crs.Syllabus.Insert(op.Index, w)
		case OpUpdate:
			err = crs.Syllabus.Update(op.Index, w)
		case OpRemove:
			crs.Syllabus, err = crs.Syllabus.Remove(op.Index)
		case OpMove:
			err = crs.Syllabus.Move(op.Index, op.To)
		}
	case "assignments":
		var t Task
		if op.needsItem() {
			if err = op.item(&t); err != nil {
				return err
			}
		}
		switch op.Op {
		case OpAdd:
			crs.Assignments = crs.Assignments.Add(t)
		case OpInsert:
			crs.Assignments, err = crs.Assignments.Insert(op.Index, t)
		case OpUpdate:
			err = crs.Assignments.Update(op.Index, t)
		case OpRemove:
			crs.Assignments, err = crs.Assignments.Remove(op.Index)
		case OpMove:
			err = crs.Assignments.Move(op.Index, op.To)
		}
	case "resources":
		var r Resource
		if op.needsItem() {
			if err = op.item(&r); err != nil {
				return err
			}
		}
		switch op.Op {
		case OpAdd:
			crs.Resources = crs.Resources.Add(r)
		case OpInsert:
			crs.Resources, err = crs.Resources.Insert(op.Index, r)
		case OpUpdate:
			err = crs.Resources.Update(op.Index, r)
		case OpRemove:
			crs.Resources, err = crs.Resources.Remove(op.Index)
		case OpMove:
			err = crs.Resources.Move(op.Index, op.To)
		}
	}
	return err
}
