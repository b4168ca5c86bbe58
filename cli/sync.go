// ABOUTME: Google sync CLI commands
// ABOUTME: OAuth setup and Google Calendar import into the calendar store
package cli

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os/exec"
	"runtime"

	"golang.org/x/oauth2"

	"salespad/sync"
)

// GoogleAuthCommand runs the OAuth flow and saves the token.
func GoogleAuthCommand(app *App, args []string) error {
	ctx := context.Background()

	config, err := sync.GetClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to get OAuth config: %w", err)
	}

	callbackChan := make(chan *oauth2.Token)
	errChan := make(chan error)

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			errChan <- fmt.Errorf("no authorization code received")
			return
		}

		token, err := config.Exchange(ctx, code)
		if err != nil {
			errChan <- fmt.Errorf("failed to exchange code: %w", err)
			return
		}

		callbackChan <- token
		_, _ = fmt.Fprintf(w, "Authorization successful! You can close this window.")
	})

	server := &http.Server{Addr: ":8080", Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	authURL := config.AuthCodeURL("state", oauth2.AccessTypeOffline)

	fmt.Println("Opening browser for Google OAuth...")
	fmt.Printf("\nIf browser doesn't open, visit this URL:\n%s\n\n", authURL)
	_ = openBrowser(authURL)

	select {
	case token := <-callbackChan:
		_ = server.Shutdown(ctx)

		if err := sync.SaveToken(token); err != nil {
			return fmt.Errorf("failed to save token: %w", err)
		}

		fmt.Printf("\n✓ Authenticated successfully\n")
		fmt.Printf("✓ Tokens saved to %s\n\n", sync.TokenPath())
		fmt.Println("Ready to import! Run 'salespad calendar import' to pull events.")
		return nil

	case err := <-errChan:
		_ = server.Shutdown(ctx)
		return fmt.Errorf("OAuth flow failed: %w", err)
	}
}

// CalendarImportCommand imports Google Calendar events into the store.
func CalendarImportCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("calendar import", flag.ExitOnError)
	initial := fs.Bool("initial", false, "Full import (last 6 months)")
	_ = fs.Parse(args)

	token, err := sync.LoadToken()
	if err != nil {
		return fmt.Errorf("no authentication token found. Run 'salespad calendar auth' first: %w", err)
	}

	client, err := sync.NewCalendarClient(token)
	if err != nil {
		return fmt.Errorf("failed to create Calendar client: %w", err)
	}

	ctx := context.Background()
	if err := app.Calendar.FetchEvents(ctx); err != nil && len(app.Calendar.Events()) == 0 {
		return fmt.Errorf("failed to fetch existing events: %w", err)
	}

	importer := sync.NewCalendarImporter(client, app.Calendar)
	if err := importer.Import(ctx, *initial); err != nil {
		return fmt.Errorf("calendar import failed: %w", err)
	}
	return nil
}

// openBrowser attempts to open URL in default browser.
func openBrowser(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		cmd = "xdg-open"
		args = []string{url}
	}

	command := exec.Command(cmd, args...)
	return command.Start()
}
