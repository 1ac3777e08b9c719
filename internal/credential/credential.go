package credential

import (
	"encoding/base64"
	"strings"

	"github.com/go-faster/errors"
	"github.com/zalando/go-keyring"
)

const (
	EnvUsername = "vrchat_username"
	EnvPassword = "vrchat_password"

	keyringService = "vrcfriends"
)

var ErrMissing = errors.New("credentials not found")

type Source int

const (
	SourceUnknown Source = iota
	SourceEnv
	SourceKeyring
)

// Lookup reads the username from the environment and the password from the
// environment or, when unset, from the OS keyring.
func Lookup(getenv func(string) string) (username, password string, src Source, err error) {
	username = getenv(EnvUsername)
	if username == "" {
		return "", "", SourceUnknown, errors.Wrap(ErrMissing, "username ("+EnvUsername+") is not set")
	}

	if password = getenv(EnvPassword); password != "" {
		return username, password, SourceEnv, nil
	}

	password, err = keyring.Get(keyringService, username)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", "", SourceUnknown, errors.Wrap(ErrMissing, "password ("+EnvPassword+") is not set and not in keyring")
		}
		return "", "", SourceUnknown, errors.Wrap(err, "get password from keyring")
	}

	return username, password, SourceKeyring, nil
}

func Remember(username, password string) error {
	if username == "" || password == "" {
		return errors.New("username and password must not be empty")
	}
	if err := keyring.Set(keyringService, username, password); err != nil {
		return errors.Wrap(err, "set password to keyring")
	}
	return nil
}

// BasicAuth builds a Basic authorization value with both parts percent
// encoded the way encodeURIComponent does before joining.
func BasicAuth(username, password string) string {
	raw := encodeComponent(username) + ":" + encodeComponent(password)
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
}

// encodeComponent escapes every byte except ASCII letters, digits and
// -_.!~*'().
func encodeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreservedComponent(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreservedComponent(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
