package respond

import (
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK writes a 200 JSON response.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

// Created writes a 201 JSON response.
func Created(c *gin.Context, payload any) {
	JSON(c, http.StatusCreated, payload)
}

// NoContent writes an empty 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Attachment streams r as a download. Non-ASCII file names are sent through
// filename* with an ASCII fallback keeping only the extension.
func Attachment(c *gin.Context, fileName, contentType string, size int64, r io.Reader) {
	c.DataFromReader(http.StatusOK, size, contentType, r, map[string]string{
		"Content-Disposition": ContentDisposition(fileName),
	})
}

// ContentDisposition builds an attachment header value for fileName.
func ContentDisposition(fileName string) string {
	fallback := fileName
	if !plainASCII(fileName) {
		fallback = "download" + filepath.Ext(fileName)
		if !plainASCII(fallback) {
			fallback = "download"
		}
	}
	return "attachment; filename=" + strconv.Quote(fallback) + "; filename*=UTF-8''" + url.PathEscape(fileName)
}

func plainASCII(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' {
			return false
		}
	}
	return true
}
