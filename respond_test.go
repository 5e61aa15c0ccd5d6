package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/RichardToddFidelis/reporting-backend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func performRequest(handler gin.HandlerFunc, method, target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Handle(method, "/t/:id", handler)
	r.Handle(method, "/t", handler)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func bodyMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body %q: %v", w.Body.String(), err)
	}
	msg, _ := body["message"].(string)
	return msg
}

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"typed not found", utils.NotFoundf("Modifier is not linked to this report"),
			http.StatusNotFound, "Modifier is not linked to this report"},
		{"sentinel not found", utils.ErrorRecordNotFound,
			http.StatusNotFound, "Resource not found"},
		{"gorm not found", gorm.ErrRecordNotFound,
			http.StatusNotFound, "Resource not found"},
		{"validation", utils.Validationf("Invalid page number: %d", 7),
			http.StatusUnprocessableEntity, "Invalid page number: 7"},
		{"unexpected", errors.New("mysql exploded"),
			http.StatusInternalServerError, "An unexpected error occurred. Please try again later."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := performRequest(func(c *gin.Context) {
				respondError(c, "test", tc.err)
			}, http.MethodGet, "/t")
			if w.Code != tc.wantStatus {
				t.Fatalf("status: got %d, want %d", w.Code, tc.wantStatus)
			}
			if got := bodyMessage(t, w); got != tc.wantMsg {
				t.Fatalf("message: got %q, want %q", got, tc.wantMsg)
			}
		})
	}
}

func TestPathIdNonNumericIs404(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		id, err := pathId(c, "id")
		if err != nil {
			respondError(c, "test", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	}, http.MethodGet, "/t/abc")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", w.Code)
	}
	if got := bodyMessage(t, w); got != "Resource not found" {
		t.Fatalf("message: got %q", got)
	}
}

func TestPageParams(t *testing.T) {
	handler := func(c *gin.Context) {
		page, perPage, err := pageParams(c)
		if err != nil {
			respondError(c, "test", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"page": page, "per_page": perPage})
	}

	w := performRequest(handler, http.MethodGet, "/t")
	if w.Code != http.StatusOK {
		t.Fatalf("defaults: status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"page":1`) || !strings.Contains(w.Body.String(), `"per_page":10`) {
		t.Fatalf("defaults not applied: %s", w.Body.String())
	}

	w = performRequest(handler, http.MethodGet, "/t?page=3&per_page=25")
	if !strings.Contains(w.Body.String(), `"page":3`) || !strings.Contains(w.Body.String(), `"per_page":25`) {
		t.Fatalf("explicit params lost: %s", w.Body.String())
	}

	w = performRequest(handler, http.MethodGet, "/t?page=abc")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("non-numeric page: status %d, want 422", w.Code)
	}
	if got := bodyMessage(t, w); got != "Invalid page number: abc" {
		t.Fatalf("non-numeric page message: %q", got)
	}
}

func TestCustomNotFoundHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.NoRoute(customNotFoundHandler)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want 404", w.Code)
	}
	if got := bodyMessage(t, w); got != "Resource not found" {
		t.Fatalf("message: got %q", got)
	}
}

func TestSplitAndTrim(t *testing.T) {
	got := splitAndTrim(" https://a.example , ,https://b.example")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("splitAndTrim: got %v", got)
	}
	if splitAndTrim("  ") != nil {
		t.Fatal("blank input should yield nil")
	}
}
