package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/trezcool/elimu/core/contact"
	"github.com/trezcool/elimu/core/user"
	emailsvc "github.com/trezcool/elimu/services/email"
	"github.com/trezcool/elimu/tests"
)

func submitMessage(t *testing.T, name, email, subject, body string) contact.Message {
	t.Helper()
	msg, err := contactRepo.CreateMessage(context.Background(), contact.Message{
		Name:      name,
		Email:     email,
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("submitMessage() failed: %v", err)
	}
	return msg
}

func Test_contactApi_submit(t *testing.T) {
	resetDB()

	reqMsg := "this field is required"
	tests := []httpTest{
		{
			name: "required fields", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"name": reqMsg, "email": reqMsg, "body": reqMsg}),
		},
		{
			name: "invalid email", wantCode: http.StatusBadRequest,
			body:     marchallObj(t, contact.NewMessage{Name: "Hero", Email: "lol", Body: "Hi there"}),
			wantData: marchallObj(t, map[string]string{"email": "email must be a valid email address"}),
		},
		{name: "Submitted", body: marchallObj(t, contact.NewMessage{Name: "Hero", Email: "hero@test.cd", Subject: "Hello", Body: "Hi there"}), wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/contact"

		t.Run(tt.name, func(t *testing.T) {
			emailsvc.SentMessages = nil // reset

			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusCreated {
				if rec.Code != tt.wantCode {
					t.Fatalf("failed! code = %v; wantCode %v; body %v", rec.Code, tt.wantCode, rec.Body.String())
				}
				var msg contact.Message
				if err := json.Unmarshal(rec.Body.Bytes(), &msg); err != nil {
					t.Fatalf("json.Unmarshal() failed! err %v", err)
				}
				if msg.ID == "" {
					t.Error("failed! empty message ID")
				}

				// the staff contact address gets notified
				if len(emailsvc.SentMessages) != 1 {
					t.Fatalf("failed! len(SentMessages) = %d; want 1", len(emailsvc.SentMessages))
				}
				if to := emailsvc.SentMessages[0].To[0]; to != conf.ContactEmail {
					t.Errorf("failed! To = %v; want %v", to, conf.ContactEmail)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_contactApi_query(t *testing.T) {
	resetDB()

	student := testutil.CreateUser(t, usrRepo, "Hero", "hero@test.cd", "", user.RoleStudent, true)
	faculty := testutil.CreateUser(t, usrRepo, "Prof", "prof@test.cd", "", user.RoleFaculty, true)
	msg1 := submitMessage(t, "Hero", "hero@test.cd", "Hello", "Hi there")
	msg2 := submitMessage(t, "King", "king@test.cd", "Question", "How much?")

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Faculty required", token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			// newest first
			name: "Get all", token: getToken(t, faculty),
			wantCode: http.StatusOK, wantData: marchallList(t, msg2, msg1),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.path = "/v1/contact"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_contactApi_destroy(t *testing.T) {
	resetDB()

	faculty := testutil.CreateUser(t, usrRepo, "Prof", "prof@test.cd", "", user.RoleFaculty, true)
	msg1 := submitMessage(t, "Hero", "hero@test.cd", "Hello", "Hi there")
	msg2 := submitMessage(t, "King", "king@test.cd", "Question", "How much?")
	msg3 := submitMessage(t, "Awe", "awe@test.cd", "Bye", "See ya")
	facultyToken := getToken(t, faculty)

	t.Run("Single", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/contact/"+msg1.ID, facultyToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; wantCode %v; body %v", rec.Code, http.StatusNoContent, rec.Body.String())
		}
	})

	t.Run("Multiple", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/contact?id="+msg2.ID+"&id="+msg3.ID, facultyToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; wantCode %v; body %v", rec.Code, http.StatusNoContent, rec.Body.String())
		}
		msgs, err := contactRepo.QueryMessages(context.Background(), nil)
		if err != nil {
			t.Fatalf("QueryMessages(): %v", err)
		}
		if len(msgs) != 0 {
			t.Errorf("failed! %d messages left; want 0", len(msgs))
		}
	})
}
