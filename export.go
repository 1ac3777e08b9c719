package vrcsession

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-faster/errors"
	cookiejar "github.com/juju/persistent-cookiejar"
)

// ExportJar writes the live cookies into a persistent-cookiejar file scoped
// to the host of the client's base URL. Existing entries in that file for
// other hosts are kept.
func (c *Client) ExportJar(filename string) error {
	u, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return errors.Wrap(err, "parse base url")
	}
	if u.Host == "" {
		return errors.Errorf("base url %q has no host", c.config.BaseURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{Filename: filename})
	if err != nil {
		return errors.Wrap(err, "open cookie jar")
	}

	now := c.config.Now().UnixMilli()
	var cookies []*http.Cookie
	for name, entry := range c.Cookies() {
		if entry.Expires <= now {
			continue
		}
		cookies = append(cookies, &http.Cookie{
			Name:    name,
			Value:   entry.Value,
			Path:    "/",
			Expires: time.UnixMilli(entry.Expires),
		})
	}
	jar.SetCookies(u, cookies)

	if err := jar.Save(); err != nil {
		return errors.Wrap(err, "save cookie jar")
	}
	return nil
}
