package vrcsession

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/afero"
)

// cookieHeader joins the entries that expire strictly after now, ordered by
// name.
func cookieHeader(jar map[string]CookieEntry, now time.Time) string {
	ms := now.UnixMilli()

	names := make([]string, 0, len(jar))
	for name, entry := range jar {
		if entry.Expires > ms {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+jar[name].Value)
	}
	return strings.Join(pairs, ";")
}

// parseSetCookie turns one Set-Cookie line into a jar entry. Max-Age takes
// precedence over Expires; a cookie with neither is rejected.
func parseSetCookie(line string, now time.Time) (string, CookieEntry, error) {
	cookie, err := http.ParseSetCookie(line)
	if err != nil {
		return "", CookieEntry{}, &ParseError{What: "set-cookie", Err: err}
	}

	entry := CookieEntry{Value: cookie.Value}
	switch {
	case cookie.MaxAge > 0:
		entry.Expires = now.Add(time.Duration(cookie.MaxAge) * time.Second).UnixMilli()
	case cookie.MaxAge < 0:
		entry.Expires = now.UnixMilli()
	case !cookie.Expires.IsZero():
		entry.Expires = cookie.Expires.UnixMilli()
	case cookie.RawExpires != "":
		return "", CookieEntry{}, &ParseError{
			What: "set-cookie " + cookie.Name,
			Err:  errors.Errorf("invalid expires %q", cookie.RawExpires),
		}
	default:
		return "", CookieEntry{}, &ParseError{
			What: "set-cookie " + cookie.Name,
			Err:  errors.New("missing expires attribute"),
		}
	}

	return cookie.Name, entry, nil
}

func (c *Client) storeCookies(resp *http.Response) error {
	now := c.config.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, line := range resp.Header.Values("Set-Cookie") {
		name, entry, err := parseSetCookie(line, now)
		if err != nil {
			return err
		}
		c.jar[name] = entry
	}

	return saveJar(c.config.Fs, c.config.CookieFile, c.jar)
}

func loadJar(fs afero.Fs, filename string) (map[string]CookieEntry, error) {
	data, err := afero.ReadFile(fs, filename)
	if err != nil {
		return nil, &StorageError{Op: "read", Path: filename, Err: err}
	}

	var jar map[string]CookieEntry
	if err := json.Unmarshal(data, &jar); err != nil {
		return nil, &ParseError{What: filename, Err: err}
	}
	if jar == nil {
		jar = make(map[string]CookieEntry)
	}
	return jar, nil
}

func saveJar(fs afero.Fs, filename string, jar map[string]CookieEntry) error {
	data, err := json.Marshal(jar)
	if err != nil {
		return &StorageError{Op: "encode", Path: filename, Err: err}
	}
	if err := afero.WriteFile(fs, filename, data, 0600); err != nil {
		return &StorageError{Op: "write", Path: filename, Err: err}
	}
	return nil
}
