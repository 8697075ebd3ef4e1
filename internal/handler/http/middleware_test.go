package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentTypeJSON(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := ContentTypeJSON(ok)

	tests := []struct {
		name        string
		body        string
		contentType string
		want        int
	}{
		{"json body", `{}`, "application/json", http.StatusOK},
		{"json with charset", `{}`, "application/json; charset=utf-8", http.StatusOK},
		{"text body", `{}`, "text/plain", http.StatusUnsupportedMediaType},
		{"missing content type", `{}`, "", http.StatusUnsupportedMediaType},
		{"no body", "", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body == "" {
				req = httptest.NewRequest(http.MethodPost, "/", nil)
			} else {
				req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusUnsupportedMediaType {
				assert.Contains(t, rec.Body.String(), "UNSUPPORTED_MEDIA_TYPE")
			}
		})
	}
}
