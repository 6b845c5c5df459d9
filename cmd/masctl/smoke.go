package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/spf13/cobra"
)

const sessionCookie = "admin_session"

type smokeOptions struct {
	baseURL   string
	username  string
	password  string
	remoteURL string
	timeout   time.Duration
}

func newSmokeLoginCmd() *cobra.Command {
	var opts smokeOptions
	cmd := &cobra.Command{
		Use:   "smoke-login",
		Short: "Drive the admin login and logout pages in a headless browser",
		Long: "Opens /admin/dashboard without a session and expects the login page, signs in,\n" +
			"checks the session cookie and dashboard, signs out, and checks that the dashboard\n" +
			"is no longer reachable. Exits non-zero on the first failed step.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.username == "" || opts.password == "" {
				return errors.New("--username and --password are required")
			}
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			var allocCtx context.Context
			var allocCancel context.CancelFunc
			if opts.remoteURL != "" {
				allocCtx, allocCancel = chromedp.NewRemoteAllocator(ctx, opts.remoteURL)
			} else {
				allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
					chromedp.Flag("headless", true),
					chromedp.Flag("no-sandbox", true),
					chromedp.Flag("disable-gpu", true),
				)
				allocCtx, allocCancel = chromedp.NewExecAllocator(ctx, allocOpts...)
			}
			defer allocCancel()

			browserCtx, browserCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(log.Sugar().Debugf))
			defer browserCancel()

			if err := runSmoke(browserCtx, opts); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "smoke-login: ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "http://localhost:8080", "Server base URL")
	cmd.Flags().StringVar(&opts.username, "username", "", "Admin username")
	cmd.Flags().StringVar(&opts.password, "password", "", "Admin password")
	cmd.Flags().StringVar(&opts.remoteURL, "remote-url", "", "DevTools websocket URL of an already running browser")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 60*time.Second, "Overall timeout")
	return cmd
}

func runSmoke(ctx context.Context, opts smokeOptions) error {
	base := strings.TrimRight(opts.baseURL, "/")
	dashboard := base + "/admin/dashboard"

	var loc string
	if err := chromedp.Run(ctx,
		chromedp.Navigate(dashboard),
		chromedp.WaitVisible("#username", chromedp.ByQuery),
		chromedp.Location(&loc),
	); err != nil {
		return fmt.Errorf("open dashboard without session: %w", err)
	}
	if err := expectPath(loc, "/admin/login"); err != nil {
		return fmt.Errorf("unauthenticated dashboard: %w", err)
	}

	if err := chromedp.Run(ctx,
		chromedp.SendKeys("#username", opts.username, chromedp.ByQuery),
		chromedp.SendKeys("#password", opts.password, chromedp.ByQuery),
		chromedp.Click("#login-submit", chromedp.ByQuery),
		chromedp.WaitVisible("#dashboard-title", chromedp.ByQuery),
		chromedp.Location(&loc),
	); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}
	if err := expectPath(loc, "/admin/dashboard"); err != nil {
		return fmt.Errorf("after sign in: %w", err)
	}

	cookie, err := findCookie(ctx, base, sessionCookie)
	if err != nil {
		return err
	}
	if cookie == nil {
		return fmt.Errorf("%s cookie missing after sign in", sessionCookie)
	}
	if !cookie.HTTPOnly {
		return fmt.Errorf("%s cookie is not HttpOnly", sessionCookie)
	}

	if err := chromedp.Run(ctx,
		chromedp.Click("#logout", chromedp.ByQuery),
		chromedp.WaitVisible("#username", chromedp.ByQuery),
		chromedp.Location(&loc),
	); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	if err := expectPath(loc, "/admin/login"); err != nil {
		return fmt.Errorf("after sign out: %w", err)
	}
	cookie, err = findCookie(ctx, base, sessionCookie)
	if err != nil {
		return err
	}
	if cookie != nil && cookie.Value != "" {
		return fmt.Errorf("%s cookie still set after sign out", sessionCookie)
	}

	if err := chromedp.Run(ctx,
		chromedp.Navigate(dashboard),
		chromedp.WaitVisible("#username", chromedp.ByQuery),
		chromedp.Location(&loc),
	); err != nil {
		return fmt.Errorf("reopen dashboard: %w", err)
	}
	return expectPath(loc, "/admin/login")
}

func findCookie(ctx context.Context, base, name string) (*network.Cookie, error) {
	var found *network.Cookie
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		cookies, err := network.GetCookies().WithURLs([]string{base}).Do(ctx)
		if err != nil {
			return err
		}
		for _, c := range cookies {
			if c.Name == name {
				found = c
				return nil
			}
		}
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("read cookies: %w", err)
	}
	return found, nil
}

// expectPath compares only the path so query strings such as ?next= are ignored
func expectPath(location, want string) error {
	u, err := url.Parse(location)
	if err != nil {
		return fmt.Errorf("parse location %q: %w", location, err)
	}
	if u.Path != want {
		return fmt.Errorf("expected %s, landed on %s", want, u.Path)
	}
	return nil
}
