package dummydb

import (
	"sync"

	"github.com/trezcool/elimu/core/blog"
	"github.com/trezcool/elimu/core/contact"
	"github.com/trezcool/elimu/core/course"
	"github.com/trezcool/elimu/core/enroll"
	"github.com/trezcool/elimu/core/user"
)

type (
	DB struct {
		user    *userTable
		course  *courseTable
		enroll  *enrollTable
		blog    *blogTable
		contact *contactTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	courseTable struct {
		sync.RWMutex
		table   map[string]*course.Course
		ratings map[string]*course.Rating // key: userID + "/" + courseID
	}

	enrollTable struct {
		sync.RWMutex
		table map[string]*enroll.Enrollment // key: userID + "/" + courseID
	}

	blogTable struct {
		sync.RWMutex
		table map[string]*blog.Post
	}

	contactTable struct {
		sync.RWMutex
		table map[string]*contact.Message
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:    &userTable{table: make(map[string]*user.User)},
		course:  &courseTable{table: make(map[string]*course.Course), ratings: make(map[string]*course.Rating)},
		enroll:  &enrollTable{table: make(map[string]*enroll.Enrollment)},
		blog:    &blogTable{table: make(map[string]*blog.Post)},
		contact: &contactTable{table: make(map[string]*contact.Message)},
	}
	return db, nil
}

func pairKey(userID, courseID string) string {
	return userID + "/" + courseID
}
