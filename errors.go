package vrcsession

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxSummaryLen = 200

// StatusError is returned for responses outside the 2xx range. Body holds the
// full response body.
type StatusError struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

func (e *StatusError) Error() string {
	summary := e.Summary()
	if summary == "" {
		return "unexpected status " + e.Status
	}
	return fmt.Sprintf("unexpected status %s: %s", e.Status, summary)
}

// Summary extracts a short human readable message from the body: the API
// error message for JSON bodies, the page title for HTML bodies, otherwise the
// truncated body text.
func (e *StatusError) Summary() string {
	mediaType, _, _ := mime.ParseMediaType(e.Header.Get("Content-Type"))

	switch mediaType {
	case "application/json":
		var payload struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(e.Body, &payload); err == nil && payload.Error.Message != "" {
			return payload.Error.Message
		}
	case "text/html":
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(e.Body))
		if err == nil {
			if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
				return title
			}
		}
	}

	text := strings.TrimSpace(string(e.Body))
	if len(text) > maxSummaryLen {
		text = text[:maxSummaryLen] + "..."
	}
	return text
}

type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError reports a malformed response body, Set-Cookie header or cookie
// file.
type ParseError struct {
	What string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.What, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s cookie file (%s): %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
