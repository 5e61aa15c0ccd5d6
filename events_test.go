package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func postJSON(handler gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/t", handler)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/t", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateRingEventCoordinateRanges(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"latitude above range", `{"name":"r","description":"d","latitude":95,"longitude":0,"radius":10}`},
		{"latitude below range", `{"name":"r","description":"d","latitude":-95,"longitude":0,"radius":10}`},
		{"longitude above range", `{"name":"r","description":"d","latitude":0,"longitude":200,"radius":10}`},
		{"longitude below range", `{"name":"r","description":"d","latitude":0,"longitude":-200,"radius":10}`},
		{"negative radius", `{"name":"r","description":"d","latitude":0,"longitude":0,"radius":-1}`},
		{"missing latitude", `{"name":"r","description":"d","longitude":0,"radius":10}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(createRingEventHandler(), tc.body)
			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status: got %d, want 422 (body %s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateBoxEventCoordinateRanges(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"max_lat above range", `{"name":"b","description":"d","max_lat":120,"min_lat":0,"max_lon":10,"min_lon":0}`},
		{"min_lat below range", `{"name":"b","description":"d","max_lat":10,"min_lat":-120,"max_lon":10,"min_lon":0}`},
		{"max_lon above range", `{"name":"b","description":"d","max_lat":10,"min_lat":0,"max_lon":190,"min_lon":0}`},
		{"min_lon below range", `{"name":"b","description":"d","max_lat":10,"min_lat":0,"max_lon":10,"min_lon":-190}`},
		{"missing max_lon", `{"name":"b","description":"d","max_lat":10,"min_lat":0,"min_lon":0}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(createBoxEventHandler(), tc.body)
			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status: got %d, want 422 (body %s)", w.Code, w.Body.String())
			}
		})
	}
}
