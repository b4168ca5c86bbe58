// ABOUTME: Realtime watch CLI command
// ABOUTME: Subscribes to the server event stream and applies events to the stores
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	"unicode/utf8"

	"salespad/realtime"
)

// WatchCommand tails the server event stream until interrupted. Events are
// applied to the local stores and echoed to stdout.
func WatchCommand(app *App, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	subscriber := realtime.NewSubscriber(app.API,
		app.CRM,
		app.Calendar,
		app.Messaging,
		printingHandler{},
	)

	fmt.Printf("Watching %s/crm/events (Ctrl-C to stop)\n", app.API.BaseURL())
	if err := subscriber.Listen(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("event stream failed: %w", err)
	}
	return nil
}

// printingHandler echoes each event so the watcher is useful on its own.
type printingHandler struct{}

func (printingHandler) HandleRealtimeEvent(evt realtime.Event) {
	fmt.Printf("%s  %s %s  %s\n",
		time.Now().Format("15:04:05"), evt.Entity, evt.Action, compactJSON(evt.Data))
}

func compactJSON(data []byte) string {
	const max = 120
	if len(data) <= max {
		return string(data)
	}
	// Walk back so the cut never splits a multi-byte rune
	cut := max
	for cut > 0 && !utf8.RuneStart(data[cut]) {
		cut--
	}
	return string(data[:cut]) + "..."
}
