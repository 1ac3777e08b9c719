package vrcsession

import (
	"net/url"
	"path/filepath"
	"testing"
	"time"

	cookiejar "github.com/juju/persistent-cookiejar"
	"github.com/spf13/afero"
)

func TestClient_ExportJar(t *testing.T) {
	fs := afero.NewMemMapFs()
	now := time.Now()
	writeJar(t, fs, map[string]CookieEntry{
		"auth":  {Value: "tok", Expires: now.Add(24 * time.Hour).UnixMilli()},
		"stale": {Value: "old", Expires: now.Add(-time.Hour).UnixMilli()},
	})

	c := NewClient(Config{
		BaseURL:    "https://api.vrchat.cloud/api/1",
		CookieFile: "cookies.json",
		Fs:         fs,
	})
	c.Initialize()

	filename := filepath.Join(t.TempDir(), "jar")
	if err := c.ExportJar(filename); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	jar, err := cookiejar.New(&cookiejar.Options{Filename: filename})
	if err != nil {
		t.Fatalf("open exported jar: %v", err)
	}
	u, _ := url.Parse("https://api.vrchat.cloud/api/1/auth/user")
	cookies := jar.Cookies(u)
	if len(cookies) != 1 {
		t.Fatalf("expected 1 exported cookie, got %d", len(cookies))
	}
	if cookies[0].Name != "auth" || cookies[0].Value != "tok" {
		t.Errorf("unexpected cookie %s=%s", cookies[0].Name, cookies[0].Value)
	}
}

func TestClient_ExportJar_BadBaseURL(t *testing.T) {
	c := NewClient(Config{BaseURL: "/relative", Fs: afero.NewMemMapFs()})
	if err := c.ExportJar(filepath.Join(t.TempDir(), "jar")); err == nil {
		t.Fatal("expected error for base url without host")
	}
}
