package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"

	authmw "github.com/examforge/examforge/internal/auth/middleware"
	"github.com/examforge/examforge/internal/db"
	"github.com/examforge/examforge/internal/exam"
	"github.com/examforge/examforge/internal/rbac"
)

var handlerDBSeq atomic.Int64

func newTestStore(t *testing.T) *exam.SQLStore {
	t.Helper()
	dsn := fmt.Sprintf("file:apitest%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", handlerDBSeq.Add(1))
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })
	return exam.NewSQLStore(dbh, "sqlite")
}

// asCaller stamps an authenticated caller onto the request, standing in
// for JWTMiddleware.
func asCaller(r *http.Request, userID, role string) *http.Request {
	ctx := authmw.WithUserID(r.Context(), userID)
	ctx = rbac.WithRole(ctx, role)
	return r.WithContext(ctx)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func seedActiveExam(t *testing.T, store *exam.SQLStore) (exam.Exam, exam.StructureResult) {
	t.Helper()
	ctx := context.Background()
	e, err := store.CreateExam(ctx, exam.CreateExamInput{Title: "Mock", DurationMinutes: 30}, "admin-1")
	if err != nil {
		t.Fatal(err)
	}
	res, err := store.SaveStructure(ctx, e.ID, exam.ExamPatch{Title: "Mock"},
		[]exam.SectionInput{{Ref: "s1", Title: "Part 1"}},
		[]exam.QuestionInput{{Ref: "q1", SectionRef: "s1", Text: "Capital of France?", CorrectAnswer: "paris"}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.SetExamStatus(ctx, e.ID, exam.StatusPatch{Status: exam.StatusActive}); err != nil {
		t.Fatal(err)
	}
	return e, res
}

func TestCreateExamValidationStatus(t *testing.T) {
	store := newTestStore(t)
	h := CreateExamHandler(store)

	req := httptest.NewRequest("POST", "/exams", strings.NewReader(`{"description":"no title"}`))
	req = asCaller(req, "admin-1", "admin")
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["code"] != "validation" {
		t.Errorf("expected validation code, got %q", body["code"])
	}
}

func TestGetExamRoleFiltering(t *testing.T) {
	store := newTestStore(t)
	e, _ := seedActiveExam(t, store)
	h := GetExamHandler(store)

	req := httptest.NewRequest("GET", "/exams/"+e.ID, nil)
	req = asCaller(req, "student-1", "student")
	req = withURLParam(req, "examID", e.ID)
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if strings.Contains(rec.Body.String(), "correct_answer") {
		t.Error("answer key leaked into student response")
	}

	req = httptest.NewRequest("GET", "/exams/"+e.ID, nil)
	req = asCaller(req, "admin-1", "admin")
	req = withURLParam(req, "examID", e.ID)
	rec = httptest.NewRecorder()
	h(rec, req)
	if !strings.Contains(rec.Body.String(), `"correct_answer":"paris"`) {
		t.Error("admin response should include the answer key")
	}
}

func TestGetExamDraftForbidden(t *testing.T) {
	store := newTestStore(t)
	e, err := store.CreateExam(context.Background(), exam.CreateExamInput{Title: "Draft", DurationMinutes: 30}, "admin-1")
	if err != nil {
		t.Fatal(err)
	}
	h := GetExamHandler(store)

	req := httptest.NewRequest("GET", "/exams/"+e.ID, nil)
	req = asCaller(req, "student-1", "student")
	req = withURLParam(req, "examID", e.ID)
	rec := httptest.NewRecorder()
	h(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for draft exam, got %d", rec.Code)
	}
}

func TestSubmitConflictStatus(t *testing.T) {
	store := newTestStore(t)
	e, res := seedActiveExam(t, store)
	h := SubmitExamHandler(store)

	body := fmt.Sprintf(`{"answers":{%q:"Paris"}}`, res.QuestionIDs["q1"])
	submit := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/exams/"+e.ID+"/submit", strings.NewReader(body))
		req = asCaller(req, "student-1", "student")
		req = withURLParam(req, "examID", e.ID)
		rec := httptest.NewRecorder()
		h(rec, req)
		return rec
	}

	first := submit()
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", first.Code, first.Body)
	}
	var out struct {
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal(first.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Score != 9 {
		t.Errorf("expected band 9, got %v", out.Score)
	}

	second := submit()
	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate submit, got %d: %s", second.Code, second.Body)
	}
}

func TestRecordViolationStatus(t *testing.T) {
	store := newTestStore(t)
	e, _ := seedActiveExam(t, store)
	h := RecordViolationHandler(store)

	req := httptest.NewRequest("POST", "/exams/"+e.ID+"/violations", strings.NewReader(`{"metadata":{}}`))
	req = asCaller(req, "student-1", "student")
	req = withURLParam(req, "examID", e.ID)
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing type should 400, got %d", rec.Code)
	}

	req = httptest.NewRequest("POST", "/exams/"+e.ID+"/violations", strings.NewReader(`{"type":"tab_switch","metadata":{"count":1}}`))
	req = asCaller(req, "student-1", "student")
	req = withURLParam(req, "examID", e.ID)
	rec = httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}
}
