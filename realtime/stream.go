// ABOUTME: SSE subscriber for the backend event feed
// ABOUTME: Reads the /crm/events stream and fans events out to handlers
package realtime

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"salespad/api"
)

const (
	eventsPath     = "/crm/events"
	reconnectDelay = 5 * time.Second
)

// Subscriber follows the backend SSE event feed and dispatches each event to
// every registered handler.
type Subscriber struct {
	client   *api.Client
	handlers []Handler
}

func NewSubscriber(client *api.Client, handlers ...Handler) *Subscriber {
	return &Subscriber{client: client, handlers: handlers}
}

// Listen follows the feed until ctx is cancelled, reconnecting after a fixed
// delay when the stream drops.
func (s *Subscriber) Listen(ctx context.Context) error {
	for {
		err := s.run(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			log.Printf("warning: event stream dropped: %v", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reconnectDelay):
		}
	}
}

// run reads one stream until it ends or errors.
func (s *Subscriber) run(ctx context.Context) error {
	body, err := s.client.Stream(ctx, eventsPath)
	if err != nil {
		return fmt.Errorf("failed to open event stream: %w", err)
	}
	defer func() { _ = body.Close() }()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}

		var evt Event
		if err := json.Unmarshal([]byte(payload), &evt); err != nil {
			log.Printf("warning: skipping malformed event: %v", err)
			continue
		}
		s.Dispatch(evt)
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Dispatch hands an event to every handler. Exposed so tests and alternate
// transports can drive the same fan-out.
func (s *Subscriber) Dispatch(evt Event) {
	for _, h := range s.handlers {
		h.HandleRealtimeEvent(evt)
	}
}
