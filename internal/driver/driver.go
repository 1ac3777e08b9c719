package driver

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"slices"
	"strings"

	"github.com/go-faster/errors"

	vrcsession "github.com/penn-automate/vrchat-session-go"
	"github.com/penn-automate/vrchat-session-go/internal/credential"
	"github.com/penn-automate/vrchat-session-go/internal/logger"
)

const (
	DefaultBaseURL   = "https://api.vrchat.cloud/api/1"
	DefaultUserAgent = "FriendsChecker/1.0.0 test@gmail.com"

	currentUserPath = "/auth/user"
	friendsPath     = "/auth/user/friends?offline=false"

	MethodEmailOTP = "emailOtp"
	MethodTOTP     = "totp"
)

var verifyPaths = map[string]string{
	MethodEmailOTP: "/auth/twofactorauth/emailotp/verify",
	MethodTOTP:     "/auth/twofactorauth/totp/verify",
}

// Client is the part of vrcsession.Client the driver needs.
type Client interface {
	Initialize()
	Get(ctx context.Context, path string, header map[string]string, v any) error
	Post(ctx context.Context, path string, header map[string]string, body, v any) error
	Status() vrcsession.Status
}

type Config struct {
	CredentialFunc func() (username, password string, err error)
	TwoFactorFunc  func(method string) (code string, err error)

	Logger logger.Logger
	Output io.Writer
}

type Driver struct {
	config Config
	client Client
}

type currentUser struct {
	ID                    string   `json:"id"`
	DisplayName           string   `json:"displayName"`
	RequiresTwoFactorAuth []string `json:"requiresTwoFactorAuth"`
}

func New(client Client, cfg Config) *Driver {
	if cfg.Logger == nil {
		cfg.Logger = logger.NopLogger{}
	}
	if cfg.Output == nil {
		cfg.Output = io.Discard
	}
	return &Driver{config: cfg, client: client}
}

// Run logs in and writes the online friends list to the output. On failure
// the error and a client status dump are logged before it is returned.
func (d *Driver) Run(ctx context.Context) error {
	err := d.run(ctx)
	if err != nil {
		d.config.Logger.Error("%v", err)
		if status, merr := json.Marshal(d.client.Status()); merr == nil {
			d.config.Logger.Error("client status: %s", status)
		}
	}
	return err
}

func (d *Driver) run(ctx context.Context) error {
	if d.config.CredentialFunc == nil {
		return errors.New("login requires credential function")
	}
	username, password, err := d.config.CredentialFunc()
	if err != nil {
		return errors.Wrap(err, "get credentials")
	}

	d.client.Initialize()

	var user currentUser
	header := map[string]string{"Authorization": credential.BasicAuth(username, password)}
	if err := d.client.Get(ctx, currentUserPath, header, &user); err != nil {
		return errors.Wrap(err, "get current user")
	}

	if user.ID != "" {
		d.config.Logger.Info("logged in as %s (%s)", user.DisplayName, user.ID)
	} else if user.RequiresTwoFactorAuth == nil {
		return errors.New("current user response has neither id nor requiresTwoFactorAuth")
	} else if err := d.twoFactor(ctx, user.RequiresTwoFactorAuth); err != nil {
		return err
	}

	var friends json.RawMessage
	if err := d.client.Get(ctx, friendsPath, nil, &friends); err != nil {
		return errors.Wrap(err, "get friends")
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, friends, "", "  "); err != nil {
		return errors.Wrap(err, "format friends")
	}
	buf.WriteByte('\n')
	if _, err := d.config.Output.Write(buf.Bytes()); err != nil {
		return errors.Wrap(err, "write friends")
	}
	return nil
}

func (d *Driver) twoFactor(ctx context.Context, methods []string) error {
	method := ""
	for _, m := range []string{MethodEmailOTP, MethodTOTP} {
		if slices.Contains(methods, m) {
			method = m
			break
		}
	}
	if method == "" {
		d.config.Logger.Warning("no supported two factor method in %v, continuing without verification", methods)
		return nil
	}
	if d.config.TwoFactorFunc == nil {
		return errors.New("login requires two factor function")
	}

	d.config.Logger.Info("two factor authentication required (%s)", method)
	code, err := d.config.TwoFactorFunc(method)
	if err != nil {
		return errors.Wrap(err, "read two factor code")
	}
	if code == "" {
		return errors.New("user cancelled login")
	}

	body := struct {
		Code string `json:"code"`
	}{Code: code}
	if err := d.client.Post(ctx, verifyPaths[method], nil, body, nil); err != nil {
		return errors.Wrap(err, "verify "+method)
	}
	return nil
}

// LineReader returns a TwoFactorFunc that prints a prompt to w and reads one
// trimmed line from r.
func LineReader(r io.Reader, w io.Writer) func(method string) (string, error) {
	br := bufio.NewReader(r)
	return func(method string) (string, error) {
		prompt := "Enter the code from your authenticator app: "
		if method == MethodEmailOTP {
			prompt = "Confirm 2FA for email, enter the code: "
		}
		if _, err := io.WriteString(w, prompt); err != nil {
			return "", err
		}

		line, err := br.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
}
