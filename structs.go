package vrcsession

import (
	"net/http"
	"sync"
	"time"

	"github.com/spf13/afero"
)

type Config struct {
	BaseURL        string
	DefaultHeaders map[string]string
	CookieFile     string

	Fs         afero.Fs
	HTTPClient *http.Client
	Now        func() time.Time
}

// CookieEntry is one jar entry. Expires is in epoch milliseconds.
type CookieEntry struct {
	Value   string `json:"value"`
	Expires int64  `json:"expires"`
}

// Status is a diagnostic snapshot of a Client.
type Status struct {
	BaseURL        string                 `json:"base_url"`
	DefaultHeaders map[string]string      `json:"default_headers"`
	Cookies        map[string]CookieEntry `json:"cookies"`
}

type Client struct {
	config  Config
	headers map[string]string
	client  *http.Client

	mu  sync.Mutex
	jar map[string]CookieEntry
}
