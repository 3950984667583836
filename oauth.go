package mininote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	uuid "github.com/nu7hatch/gouuid"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
)

// ErrOAuth is returned when the login procedure fails.
var ErrOAuth = errors.New("oauth login failed")

// OAuthConfig describes the OAuth application used to log in.
type OAuthConfig struct {
	ClientID     string `yaml:"client_id,omitempty"`
	ClientSecret string `yaml:"client_secret,omitempty"`
	AuthURL      string `yaml:"auth_url,omitempty"`
	TokenURL     string `yaml:"token_url,omitempty"`
}

func (c *OAuthConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ClientID, validation.Required),
		validation.Field(&c.AuthURL, validation.Required),
		validation.Field(&c.TokenURL, validation.Required),
	)
}

const loginPage = `<html>
<head>
    <style>
        body { background-color: #3f3f3f; font-family: "Lucida Console", Monaco, monospace; }
        .prompt { color: #8ade37; padding-right: 0.2em; font-weight: bold; }
        .token { color: #6398cf; padding-right: 0.2em; font-weight: bold; }
        .text { color: #ffffff; }
    </style>
    <title>mininote</title>
</head>
<body>
    <div><span class="prompt">mininote</span><span class="token">~$</span><span class="text"><b>Mininote login complete</b></span></div>
    <div><span class="prompt">mininote</span><span class="token">~$</span><span class="text">Proceed to the nearest terminal</span></div>
</body>
</html>`

type authCallback struct {
	code string
	err  error
}

// Login runs the OAuth authorization code flow and returns the access token. It listens on a spare local port
// for the redirect, calls open with the authorization URL (normally to show it in a browser) and waits until the
// browser is redirected back or ctx is done.
func Login(ctx context.Context, conf OAuthConfig, open func(authURL string) error) (string, error) {
	if err := conf.Validate(); err != nil {
		return "", fmt.Errorf("config: %v: %w", err, ErrOAuth)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", fmt.Errorf("listen: %w", err)
	}
	oc := &oauth2.Config{
		ClientID:     conf.ClientID,
		ClientSecret: conf.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  conf.AuthURL,
			TokenURL: conf.TokenURL,
		},
		RedirectURL: "http://" + ln.Addr().String() + "/",
	}
	u, err := uuid.NewV4()
	if err != nil {
		_ = ln.Close()
		return "", err
	}
	state := u.String()

	done := make(chan authCallback, 1)
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		var cb authCallback
		switch {
		case q.Get("state") != state:
			cb.err = fmt.Errorf("state mismatch: %w", ErrOAuth)
		case q.Get("error") != "":
			cb.err = fmt.Errorf("%s: %w", q.Get("error"), ErrOAuth)
		case q.Get("code") == "":
			cb.err = fmt.Errorf("no code in redirect: %w", ErrOAuth)
		default:
			cb.code = q.Get("code")
		}
		if cb.err != nil {
			http.Error(w, cb.err.Error(), http.StatusBadRequest)
		} else {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = io.WriteString(w, loginPage)
		}
		select {
		case done <- cb:
		default:
		}
	})
	srv := &http.Server{Handler: r}

	var code string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		if err := open(oc.AuthCodeURL(state)); err != nil {
			return fmt.Errorf("open %v: %w", err, ErrOAuth)
		}
		select {
		case cb := <-done:
			code = cb.code
			return cb.err
		case <-gctx.Done():
			return gctx.Err()
		}
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	tok, err := oc.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchange: %v: %w", err, ErrOAuth)
	}
	return tok.AccessToken, nil
}
