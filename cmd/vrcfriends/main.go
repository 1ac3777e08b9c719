package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/urfave/cli"
	"golang.org/x/term"

	vrcsession "github.com/penn-automate/vrchat-session-go"
	"github.com/penn-automate/vrchat-session-go/internal/credential"
	"github.com/penn-automate/vrchat-session-go/internal/driver"
	"github.com/penn-automate/vrchat-session-go/internal/logger"
)

var globalFlags = []cli.Flag{
	cli.StringFlag{
		Name:   "base-url",
		Usage:  "API base URL",
		Value:  driver.DefaultBaseURL,
		EnvVar: "VRCFRIENDS_BASE_URL",
	},
	cli.StringFlag{
		Name:   "user-agent",
		Usage:  "identifying User-Agent header",
		Value:  driver.DefaultUserAgent,
		EnvVar: "VRCFRIENDS_USER_AGENT",
	},
	cli.StringFlag{
		Name:   "cookie-file",
		Usage:  "session cookie storage",
		Value:  vrcsession.DefaultCookieFile,
		EnvVar: "VRCFRIENDS_COOKIE_FILE",
	},
}

func main() {
	l := logger.NewStandardLogger(log.New(os.Stderr, "", log.LstdFlags))

	app := cli.NewApp()
	app.Name = "vrcfriends"
	app.Usage = "log in to VRChat and list online friends"
	app.UsageText = "vrcfriends [global options] [command]"
	app.Flags = globalFlags
	app.Action = func(c *cli.Context) error {
		return friends(c, l)
	}
	app.Commands = []cli.Command{
		{
			Name:   "remember",
			Usage:  "store the password of $" + credential.EnvUsername + " in the OS keyring",
			Action: remember,
		},
		{
			Name:      "export",
			Usage:     "export the session cookies as a persistent-cookiejar file",
			ArgsUsage: "<file>",
			Action:    export,
		},
	}

	err := app.Run(os.Args)
	_ = l.Close()
	if err != nil {
		os.Exit(1)
	}
}

func newClient(c *cli.Context) *vrcsession.Client {
	return vrcsession.NewClient(vrcsession.Config{
		BaseURL:        c.GlobalString("base-url"),
		DefaultHeaders: map[string]string{"User-Agent": c.GlobalString("user-agent")},
		CookieFile:     c.GlobalString("cookie-file"),
	})
}

func friends(c *cli.Context, l logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	d := driver.New(newClient(c), driver.Config{
		CredentialFunc: func() (string, string, error) {
			username, password, _, err := credential.Lookup(os.Getenv)
			return username, password, err
		},
		TwoFactorFunc: driver.LineReader(os.Stdin, os.Stderr),
		Logger:        l,
		Output:        os.Stdout,
	})
	return d.Run(ctx)
}

func remember(c *cli.Context) error {
	username := os.Getenv(credential.EnvUsername)
	if username == "" {
		return cli.NewExitError(credential.EnvUsername+" is not set", 1)
	}

	fmt.Fprintf(os.Stderr, "Password for %s: ", username)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return cli.NewExitError(errors.Wrap(err, "read password").Error(), 1)
	}

	if err := credential.Remember(username, string(password)); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	return nil
}

func export(c *cli.Context) error {
	filename := c.Args().First()
	if filename == "" {
		return cli.NewExitError("export: missing <file> argument", 1)
	}

	client := newClient(c)
	client.Initialize()
	if err := client.ExportJar(filename); err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	return nil
}
