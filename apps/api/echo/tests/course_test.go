package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/elimu/apps/api/echo"
	"github.com/trezcool/elimu/core/course"
	"github.com/trezcool/elimu/core/enroll"
	"github.com/trezcool/elimu/core/user"
	"github.com/trezcool/elimu/tests"
)

var (
	loginDenial = map[string]string{
		"notice":   "please log in to access this course",
		"redirect": "/login",
	}
	catalogDenial = map[string]string{
		"notice":   "you do not have access to this course",
		"redirect": "/courses",
	}
	unavailableDenial = map[string]string{
		"notice":   "we could not verify your access, please try again",
		"redirect": "/",
	}
)

func contentPath(crs course.Course) string {
	return "/v1/courses/" + crs.ID + "/content"
}

func Test_courseApi_content(t *testing.T) {
	resetDB()

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent, true)
	enrolled := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "", user.RoleStudent, true)
	faculty := testutil.CreateUser(t, usrRepo, "Prof", "prof@test.cd", "", user.RoleFaculty, true)
	crs := testutil.CreateCourse(t, courseRepo, "Go 101")
	other := testutil.CreateCourse(t, courseRepo, "Rust 101")
	testutil.Enroll(t, enrollRepo, enrolled, crs)

	// a valid token whose user no longer exists
	ghost := user.User{ID: "ghost", Name: "Ghost", Email: "ghost@test.cd", Role: user.RoleStudent}

	tests := []httpTest{
		{name: "Anonymous is sent to login", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, loginDenial)},
		{name: "Unknown principal is sent to login", token: getToken(t, ghost), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, loginDenial)},
		{name: "Not enrolled is sent to the catalog", token: getToken(t, student), wantCode: http.StatusForbidden, wantData: marchallObj(t, catalogDenial)},
		{name: "Faculty is not exempt", token: getToken(t, faculty), wantCode: http.StatusForbidden, wantData: marchallObj(t, catalogDenial)},
		{name: "Enrolled gets the content", token: getToken(t, enrolled), wantCode: http.StatusOK, wantData: marchallObj(t, crs.Content())},
		{
			name: "Enrollment is per course", path: contentPath(other), token: getToken(t, enrolled),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, catalogDenial),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		if tt.path == "" {
			tt.path = contentPath(crs)
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

// Test_courseApi_content_lifecycle walks an enrollment through assignment,
// completion and revocation, checking the gate after each step.
func Test_courseApi_content_lifecycle(t *testing.T) {
	resetDB()

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent, true)
	crs := testutil.CreateCourse(t, courseRepo, "Go 101")
	token := getToken(t, student)
	svc := enroll.NewService(enrollRepo)
	ctx := context.Background()

	get := func(t *testing.T, wantCode int, wantData []byte) {
		req, rec := newAuthRequest(http.MethodGet, contentPath(crs), token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: wantCode, wantData: wantData}, rec)
	}

	t.Run("Not yet assigned", func(t *testing.T) {
		get(t, http.StatusForbidden, marchallObj(t, catalogDenial))
	})

	t.Run("Assigned", func(t *testing.T) {
		if err := svc.Reconcile(ctx, student.ID, []string{crs.ID}); err != nil {
			t.Fatalf("Reconcile(): %v", err)
		}
		get(t, http.StatusOK, marchallObj(t, crs.Content()))
	})

	t.Run("Completion keeps access", func(t *testing.T) {
		if _, err := svc.SetProgress(ctx, student.ID, crs.ID, 100); err != nil {
			t.Fatalf("SetProgress(): %v", err)
		}
		get(t, http.StatusOK, marchallObj(t, crs.Content()))
	})

	t.Run("Revoked", func(t *testing.T) {
		if err := svc.Reconcile(ctx, student.ID, []string{}); err != nil {
			t.Fatalf("Reconcile(): %v", err)
		}
		get(t, http.StatusForbidden, marchallObj(t, catalogDenial))
	})
}

type downEnrollRepo struct{}

var errStoreDown = errors.New("enrollment store down")

func (downEnrollRepo) CreateEnrollment(context.Context, enroll.Enrollment) (enroll.Enrollment, error) {
	return enroll.Enrollment{}, errStoreDown
}
func (downEnrollRepo) GetEnrollment(context.Context, string, string) (enroll.Enrollment, error) {
	return enroll.Enrollment{}, errStoreDown
}
func (downEnrollRepo) ListEnrollments(context.Context, string) ([]enroll.Enrollment, error) {
	return nil, errStoreDown
}
func (downEnrollRepo) UpdateEnrollment(context.Context, enroll.Enrollment) (enroll.Enrollment, error) {
	return enroll.Enrollment{}, errStoreDown
}
func (downEnrollRepo) DeleteEnrollment(context.Context, string, string) error {
	return errStoreDown
}

// A failing enrollment store must deny access, never grant it.
func Test_courseApi_content_storeFailure(t *testing.T) {
	resetDB()

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent, true)
	crs := testutil.CreateCourse(t, courseRepo, "Go 101")
	srv := newServer(enroll.NewService(downEnrollRepo{}))

	req, rec := newAuthRequest(http.MethodGet, contentPath(crs), getToken(t, student))
	srv.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusServiceUnavailable, wantData: marchallObj(t, unavailableDenial)}, rec)
}

func Test_courseApi_query(t *testing.T) {
	resetDB()

	golang := testutil.CreateCourse(t, courseRepo, "Go 101")
	rust := testutil.CreateCourse(t, courseRepo, "Advanced Rust")
	empty := marchallList(t, []interface{}{}...)

	tests := []httpTest{
		{name: "Catalog is public", path: "/v1/courses", wantData: marchallList(t, rust, golang)},
		{name: "search (unknown)", path: "/v1/courses?search=lol", wantData: empty},
		{name: "search=rust", path: "/v1/courses?search=rust", wantData: marchallList(t, rust)},
		{name: "level=beginner", path: "/v1/courses?level=beginner", wantData: marchallList(t, rust, golang)},
		{name: "level (unknown)", path: "/v1/courses?level=advanced", wantData: empty},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.wantCode = http.StatusOK

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_courseApi_retrieve(t *testing.T) {
	resetDB()

	crs := testutil.CreateCourse(t, courseRepo, "Go 101")

	tests := []httpTest{
		{name: "Detail is public", path: "/v1/courses/" + crs.ID, wantCode: http.StatusOK, wantData: marchallObj(t, crs)},
		{name: "Not found", path: "/v1/courses/lol", wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_courseApi_create(t *testing.T) {
	resetDB()

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent, true)
	faculty := testutil.CreateUser(t, usrRepo, "Prof", "prof@test.cd", "", user.RoleFaculty, true)

	body := marchallObj(t, course.NewCourse{Title: "Go 101", Category: "Programming", Level: "Beginner", Price: 49.99})

	tests := []httpTest{
		{name: "Auth required", body: body, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Faculty required", body: body, token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "required fields", body: marchallObj(t, course.NewCourse{}), token: getToken(t, faculty),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"title": "this field is required"}),
		},
		{name: "Course created", body: body, token: getToken(t, faculty), wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/courses"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			// cannot guess ID & timestamps.. check fields
			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var crs course.Course
				if err := json.Unmarshal(rec.Body.Bytes(), &crs); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if crs.ID == "" {
					t.Error("failed! empty course ID")
				}
				if crs.Title != "Go 101" {
					t.Errorf("failed! Title = %q; want %q", crs.Title, "Go 101")
				}
				if crs.Category != "programming" {
					t.Errorf("failed! Category = %q; want %q", crs.Category, "programming")
				}
				if crs.Level != course.LevelBeginner {
					t.Errorf("failed! Level = %q; want %q", crs.Level, course.LevelBeginner)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_courseApi_updateContent(t *testing.T) {
	resetDB()

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent, true)
	faculty := testutil.CreateUser(t, usrRepo, "Prof", "prof@test.cd", "", user.RoleFaculty, true)
	crs := testutil.CreateCourse(t, courseRepo, "Go 101")
	token := getToken(t, faculty)

	vidA := course.Video{Title: "a", URL: "https://vid.test.cd/a"}
	vidB := course.Video{Title: "b", URL: "https://vid.test.cd/b"}
	addB := marchallObj(t, course.ContentOp{Collection: "video_content", Op: course.OpAdd, Item: marchallObj(t, vidB)})
	insertA := marchallObj(t, course.ContentOp{Collection: "video_content", Op: course.OpInsert, Index: 0, Item: marchallObj(t, vidA)})

	content := func(vids ...course.Video) []byte {
		return marchallObj(t, course.Content{Videos: vids})
	}

	tests := []httpTest{
		{name: "Auth required", body: addB, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Faculty required", body: addB, token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Unknown course", path: "/v1/courses/lol/content", body: addB, token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "required fields", body: marchallObj(t, course.ContentOp{}), token: token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"collection": "this field is required", "op": "this field is required"}),
		},
		{
			name: "Item required", body: marchallObj(t, course.ContentOp{Collection: "video_content", Op: course.OpInsert}), token: token,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"item": "this field is required"}),
		},
		{name: "Video added", body: addB, token: token, wantCode: http.StatusOK, wantData: content(vidB)},
		{name: "Video inserted at front", body: insertA, token: token, wantCode: http.StatusOK, wantData: content(vidA, vidB)},
		{
			name: "Moved", body: marchallObj(t, course.ContentOp{Collection: "video_content", Op: course.OpMove, Index: 0, To: 1}), token: token,
			wantCode: http.StatusOK, wantData: content(vidB, vidA),
		},
		{
			name: "Move out of range", body: marchallObj(t, course.ContentOp{Collection: "video_content", Op: course.OpMove, Index: 0, To: 2}), token: token,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"index": "index out of range"}),
		},
		{
			name: "Removed", body: marchallObj(t, course.ContentOp{Collection: "video_content", Op: course.OpRemove, Index: 1}), token: token,
			wantCode: http.StatusOK, wantData: content(vidB),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPatch
		if tt.path == "" {
			tt.path = "/v1/courses/" + crs.ID + "/content"
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_courseApi_rate(t *testing.T) {
	resetDB()

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent, true)
	crs := testutil.CreateCourse(t, courseRepo, "Go 101")
	token := getToken(t, student)

	tests := []httpTest{
		{
			name: "Auth required", path: "/v1/courses/" + crs.ID + "/rating", body: marchallObj(t, echoapi.RateRequest{Stars: 5}),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Unknown course", path: "/v1/courses/lol/rating", body: marchallObj(t, echoapi.RateRequest{Stars: 5}), token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "Stars out of range", path: "/v1/courses/" + crs.ID + "/rating", body: marchallObj(t, echoapi.RateRequest{Stars: 6}), token: token,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"stars": "stars must be between 1 and 5"}),
		},
		{name: "Rated", path: "/v1/courses/" + crs.ID + "/rating", body: marchallObj(t, echoapi.RateRequest{Stars: 4}), token: token, wantCode: http.StatusCreated},
		{
			name: "One rating per user", path: "/v1/courses/" + crs.ID + "/rating", body: marchallObj(t, echoapi.RateRequest{Stars: 2}), token: token,
			wantCode: http.StatusConflict, wantData: marchallObj(t, httpErr{Error: "course already rated"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
				}
				var r course.Rating
				if err := json.Unmarshal(rec.Body.Bytes(), &r); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if r.Stars != 4 {
					t.Errorf("failed! Stars = %d; want 4", r.Stars)
				}
				if r.UserID != student.ID {
					t.Errorf("failed! UserID = %q; want %q", r.UserID, student.ID)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("Rating summary is public", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/courses/"+crs.ID+"/rating")
		app.ServeHTTP(rec, req)
		want := marchallObj(t, course.RatingSummary{CourseID: crs.ID, Count: 1, Average: 4})
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: want}, rec)
	})
}
