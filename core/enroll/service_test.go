package enroll

import (
	"context"
	"sort"
	"testing"

	"github.com/pkg/errors"
)

type fakeRepo struct {
	table map[string]Enrollment // key: userID + "/" + courseID

	listErr   error
	createErr error
	deleteErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{table: make(map[string]Enrollment)}
}

func (r *fakeRepo) key(userID, courseID string) string { return userID + "/" + courseID }

func (r *fakeRepo) CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error) {
	if r.createErr != nil {
		return Enrollment{}, r.createErr
	}
	key := r.key(enr.UserID, enr.CourseID)
	if existing, ok := r.table[key]; ok {
		return existing, nil
	}
	r.table[key] = enr
	return enr, nil
}

func (r *fakeRepo) GetEnrollment(ctx context.Context, userID, courseID string) (Enrollment, error) {
	if enr, ok := r.table[r.key(userID, courseID)]; ok {
		return enr, nil
	}
	return Enrollment{}, ErrNotFound
}

func (r *fakeRepo) ListEnrollments(ctx context.Context, userID string) ([]Enrollment, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var enrs []Enrollment
	for _, enr := range r.table {
		if enr.UserID == userID {
			enrs = append(enrs, enr)
		}
	}
	return enrs, nil
}

func (r *fakeRepo) UpdateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error) {
	key := r.key(enr.UserID, enr.CourseID)
	if _, ok := r.table[key]; !ok {
		return Enrollment{}, ErrNotFound
	}
	r.table[key] = enr
	return enr, nil
}

func (r *fakeRepo) DeleteEnrollment(ctx context.Context, userID, courseID string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	key := r.key(userID, courseID)
	if _, ok := r.table[key]; !ok {
		return ErrNotFound
	}
	delete(r.table, key)
	return nil
}

func courseIDs(t *testing.T, svc Service, userID string) []string {
	t.Helper()
	set, err := svc.ListCourseIDs(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListCourseIDs() error = %v", err)
	}
	ids := set.Slice()
	sort.Strings(ids)
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		initial []string
		desired []string
		want    []string
	}{
		{name: "from scratch", desired: []string{"c1", "c2"}, want: []string{"c1", "c2"}},
		{name: "add and remove", initial: []string{"c1", "c2"}, desired: []string{"c2", "c3"}, want: []string{"c2", "c3"}},
		{name: "no change", initial: []string{"c1", "c2"}, desired: []string{"c1", "c2"}, want: []string{"c1", "c2"}},
		{name: "revoke all", initial: []string{"c1", "c2"}, desired: []string{}, want: []string{}},
		{name: "duplicates in desired", desired: []string{"c1", "c1", "c2"}, want: []string{"c1", "c2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			svc := NewService(repo)
			for _, id := range tt.initial {
				if _, err := svc.Enroll(ctx, "u1", id); err != nil {
					t.Fatalf("Enroll() error = %v", err)
				}
			}

			if err := svc.Reconcile(ctx, "u1", tt.desired); err != nil {
				t.Fatalf("Reconcile() error = %v", err)
			}
			if got := courseIDs(t, svc, "u1"); !equalIDs(got, tt.want) {
				t.Errorf("after Reconcile() course IDs = %v, want %v", got, tt.want)
			}

			// a second run with the same desired set is a no-op
			if err := svc.Reconcile(ctx, "u1", tt.desired); err != nil {
				t.Fatalf("Reconcile() rerun error = %v", err)
			}
			if got := courseIDs(t, svc, "u1"); !equalIDs(got, tt.want) {
				t.Errorf("after Reconcile() rerun course IDs = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReconcileLeavesOtherUsersAlone(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)

	if _, err := svc.Enroll(ctx, "u2", "c9"); err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	if err := svc.Reconcile(ctx, "u1", []string{"c1"}); err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	if got := courseIDs(t, svc, "u2"); !equalIDs(got, []string{"c9"}) {
		t.Errorf("u2 course IDs = %v, want [c9]", got)
	}
}

func TestReconcileFailingStore(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	t.Run("list fails", func(t *testing.T) {
		repo := newFakeRepo()
		repo.listErr = boom
		if err := NewService(repo).Reconcile(ctx, "u1", []string{"c1"}); errors.Cause(err) != boom {
			t.Errorf("Reconcile() error = %v, want %v", err, boom)
		}
	})

	t.Run("create fails", func(t *testing.T) {
		repo := newFakeRepo()
		repo.createErr = boom
		if err := NewService(repo).Reconcile(ctx, "u1", []string{"c1"}); errors.Cause(err) != boom {
			t.Errorf("Reconcile() error = %v, want %v", err, boom)
		}
	})

	t.Run("delete fails", func(t *testing.T) {
		repo := newFakeRepo()
		svc := NewService(repo)
		if _, err := svc.Enroll(ctx, "u1", "c1"); err != nil {
			t.Fatalf("Enroll() error = %v", err)
		}
		repo.deleteErr = boom
		if err := svc.Reconcile(ctx, "u1", []string{}); errors.Cause(err) != boom {
			t.Errorf("Reconcile() error = %v, want %v", err, boom)
		}
	})
}

func TestEnroll(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)

	enr, err := svc.Enroll(ctx, "u1", "c1")
	if err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	if enr.Status != StatusActive {
		t.Errorf("Status = %q, want %q", enr.Status, StatusActive)
	}
	if enr.Progress != 0 {
		t.Errorf("Progress = %d, want 0", enr.Progress)
	}

	if _, err = svc.Enroll(ctx, "u1", "c1"); err != ErrAlreadyEnrolled {
		t.Errorf("Enroll() twice error = %v, want %v", err, ErrAlreadyEnrolled)
	}
}

func TestSetProgress(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)

	if _, err := svc.Enroll(ctx, "u1", "c1"); err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}

	tests := []struct {
		name         string
		progress     int
		wantProgress int
		wantStatus   string
	}{
		{name: "regular", progress: 40, wantProgress: 40, wantStatus: StatusActive},
		{name: "clamped low", progress: -10, wantProgress: 0, wantStatus: StatusActive},
		{name: "clamped high", progress: 150, wantProgress: 100, wantStatus: StatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enr, err := svc.SetProgress(ctx, "u1", "c1", tt.progress)
			if err != nil {
				t.Fatalf("SetProgress() error = %v", err)
			}
			if enr.Progress != tt.wantProgress {
				t.Errorf("Progress = %d, want %d", enr.Progress, tt.wantProgress)
			}
			if enr.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", enr.Status, tt.wantStatus)
			}
		})
	}

	t.Run("not enrolled", func(t *testing.T) {
		if _, err := svc.SetProgress(ctx, "u1", "nope", 10); errors.Cause(err) != ErrNotFound {
			t.Errorf("SetProgress() error = %v, want %v", err, ErrNotFound)
		}
	})

	// completing the course does not revoke access
	if got := courseIDs(t, svc, "u1"); !equalIDs(got, []string{"c1"}) {
		t.Errorf("course IDs after completion = %v, want [c1]", got)
	}
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc := NewService(repo)

	if _, err := svc.Enroll(ctx, "u1", "c1"); err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	if err := svc.Revoke(ctx, "u1", "c1"); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if got := courseIDs(t, svc, "u1"); len(got) != 0 {
		t.Errorf("course IDs after Revoke() = %v, want none", got)
	}

	if err := svc.Revoke(ctx, "u1", "c1"); errors.Cause(err) != ErrNotFound {
		t.Errorf("Revoke() twice error = %v, want %v", err, ErrNotFound)
	}
}
