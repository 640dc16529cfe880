package respond

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestContentDisposition(t *testing.T) {
	cases := map[string]string{
		"plans.xlsx":                   `attachment; filename="plans.xlsx"; filename*=UTF-8''plans.xlsx`,
		"맞춤_식단_20260302_093000.xlsx": `attachment; filename="download.xlsx"; filename*=UTF-8''%EB%A7%9E%EC%B6%A4_%EC%8B%9D%EB%8B%A8_20260302_093000.xlsx`,
		"식단":                           `attachment; filename="download"; filename*=UTF-8''%EC%8B%9D%EB%8B%A8`,
	}
	for in, want := range cases {
		if got := ContentDisposition(in); got != want {
			t.Fatalf("ContentDisposition(%q): expected %s, got %s", in, want, got)
		}
	}
}

func TestAttachmentStreamsBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/file", func(c *gin.Context) {
		Attachment(c, "a.xlsx", "application/octet-stream", 5, strings.NewReader("hello"))
	})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/file", nil))

	if resp.Code != http.StatusOK || resp.Body.String() != "hello" {
		t.Fatalf("unexpected response %d %q", resp.Code, resp.Body.String())
	}
	if resp.Header().Get("Content-Type") != "application/octet-stream" {
		t.Fatalf("unexpected content type %q", resp.Header().Get("Content-Type"))
	}
	if !strings.HasPrefix(resp.Header().Get("Content-Disposition"), "attachment;") {
		t.Fatalf("expected attachment, got %q", resp.Header().Get("Content-Disposition"))
	}
}
