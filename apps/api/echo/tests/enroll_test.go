package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/elimu/apps/api/echo"
	"github.com/trezcool/elimu/core/enroll"
	"github.com/trezcool/elimu/core/user"
	"github.com/trezcool/elimu/tests"
)

func Test_enrollmentApi_list(t *testing.T) {
	resetDB()

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent, true)
	other := testutil.CreateUser(t, usrRepo, "King", "king@test.cd", "", user.RoleStudent, true)
	crs1 := testutil.CreateCourse(t, courseRepo, "Go 101")
	crs2 := testutil.CreateCourse(t, courseRepo, "Rust 101")
	enr1 := testutil.Enroll(t, enrollRepo, student, crs1)
	enr2 := testutil.Enroll(t, enrollRepo, student, crs2)
	testutil.Enroll(t, enrollRepo, other, crs1)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			// own enrollments only, newest first
			name: "Own enrollments", token: getToken(t, student),
			wantCode: http.StatusOK, wantData: marchallList(t, enr2, enr1),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.path = "/v1/enrollments"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_enrollmentApi_enroll(t *testing.T) {
	resetDB()

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent, true)
	crs := testutil.CreateCourse(t, courseRepo, "Go 101")
	token := getToken(t, student)
	body := marchallObj(t, echoapi.EnrollRequest{CourseID: crs.ID})

	tests := []httpTest{
		{name: "Auth required", body: body, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Enrolled", body: body, token: token, wantCode: http.StatusCreated},
		{
			name: "Already enrolled", body: body, token: token,
			wantCode: http.StatusConflict, wantData: marchallObj(t, httpErr{Error: "already enrolled in this course"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/enrollments"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %v", rec.Code, tt.wantCode, rec.Body.String())
				}
				var enr enroll.Enrollment
				if err := json.Unmarshal(rec.Body.Bytes(), &enr); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if enr.UserID != student.ID || enr.CourseID != crs.ID {
					t.Errorf("failed! enrollment = %v/%v; want %v/%v", enr.UserID, enr.CourseID, student.ID, crs.ID)
				}
				if enr.Status != enroll.StatusActive {
					t.Errorf("failed! Status = %q; want %q", enr.Status, enroll.StatusActive)
				}
				if enr.Progress != 0 {
					t.Errorf("failed! Progress = %d; want 0", enr.Progress)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_enrollmentApi_setProgress(t *testing.T) {
	resetDB()

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent, true)
	crs := testutil.CreateCourse(t, courseRepo, "Go 101")
	other := testutil.CreateCourse(t, courseRepo, "Rust 101")
	testutil.Enroll(t, enrollRepo, student, crs)
	token := getToken(t, student)

	type wantProgress struct {
		progress int
		status   string
	}
	tests := []httpTest{
		{
			name: "Not enrolled", path: "/v1/enrollments/" + other.ID + "/progress", body: marchallObj(t, echoapi.ProgressRequest{Progress: 10}), token: token,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "Progress saved", path: "/v1/enrollments/" + crs.ID + "/progress", body: marchallObj(t, echoapi.ProgressRequest{Progress: 40}), token: token,
			wantCode: http.StatusOK, extra: wantProgress{progress: 40, status: enroll.StatusActive},
		},
		{
			// 100% flips the status
			name: "Completed", path: "/v1/enrollments/" + crs.ID + "/progress", body: marchallObj(t, echoapi.ProgressRequest{Progress: 100}), token: token,
			wantCode: http.StatusOK, extra: wantProgress{progress: 100, status: enroll.StatusCompleted},
		},
		{
			// out-of-range values are clamped
			name: "Clamped", path: "/v1/enrollments/" + crs.ID + "/progress", body: marchallObj(t, echoapi.ProgressRequest{Progress: -10}), token: token,
			wantCode: http.StatusOK, extra: wantProgress{progress: 0, status: enroll.StatusCompleted},
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPut

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if want, ok := tt.extra.(wantProgress); ok {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %v", rec.Code, tt.wantCode, rec.Body.String())
				}
				var enr enroll.Enrollment
				if err := json.Unmarshal(rec.Body.Bytes(), &enr); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if enr.Progress != want.progress {
					t.Errorf("failed! Progress = %d; want %d", enr.Progress, want.progress)
				}
				if enr.Status != want.status {
					t.Errorf("failed! Status = %q; want %q", enr.Status, want.status)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}
