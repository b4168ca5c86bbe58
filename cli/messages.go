// ABOUTME: Messaging CLI commands
// ABOUTME: Conversation listing, thread display, and sending messages
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"salespad/models"
)

// ListConversationsCommand lists message threads, newest activity first.
func ListConversationsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("messages list", flag.ExitOnError)
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	if err := app.Messaging.FetchConversations(context.Background()); err != nil {
		if len(app.Messaging.Conversations()) == 0 {
			return fmt.Errorf("failed to fetch conversations: %w", err)
		}
		fmt.Fprintf(os.Stderr, "warning: serving cached conversations: %v\n", err)
	}

	conversations := app.Messaging.Conversations()
	if len(conversations) > *limit {
		conversations = conversations[:*limit]
	}
	if len(conversations) == 0 {
		fmt.Println("No conversations found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SUBJECT\tCHANNEL\tUNREAD\tLAST MESSAGE\tID")
	_, _ = fmt.Fprintln(w, "-------\t-------\t------\t------------\t--")
	for _, conv := range conversations {
		subject := conv.Subject
		if subject == "" {
			subject = "-"
		}
		channel := conv.Channel
		if channel == "" {
			channel = "-"
		}
		last := "-"
		if conv.LastMessageAt != nil {
			last = conv.LastMessageAt.Format("2006-01-02 15:04")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", subject, channel, conv.UnreadCount, last, conv.ID)
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d conversation(s)\n", len(conversations))
	return nil
}

// StartConversationCommand opens a new thread.
func StartConversationCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("messages start", flag.ExitOnError)
	subject := fs.String("subject", "", "Conversation subject")
	channel := fs.String("channel", models.ChannelSMS, "Channel (sms, email)")
	leadID := fs.String("lead", "", "Related lead ID")
	contactID := fs.String("contact", "", "Related contact ID")
	_ = fs.Parse(args)

	conv, err := app.Messaging.CreateConversation(context.Background(), models.Conversation{
		Subject:   *subject,
		Channel:   *channel,
		LeadID:    *leadID,
		ContactID: *contactID,
	})
	if err != nil {
		return fmt.Errorf("failed to start conversation: %w", err)
	}

	fmt.Printf("✓ Conversation started (ID: %s)\n", conv.ID)
	return nil
}

// ShowThreadCommand prints the messages in a conversation, newest first.
func ShowThreadCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("messages show", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: messages show <conversation-id>")
	}
	conversationID := fs.Arg(0)

	if err := app.Messaging.FetchMessages(context.Background(), conversationID); err != nil {
		if len(app.Messaging.Messages(conversationID)) == 0 {
			return fmt.Errorf("failed to fetch messages: %w", err)
		}
		fmt.Fprintf(os.Stderr, "warning: serving cached messages: %v\n", err)
	}

	messages := app.Messaging.Messages(conversationID)
	if len(messages) == 0 {
		fmt.Println("No messages in this conversation")
		return nil
	}

	for _, msg := range messages {
		status := ""
		if msg.Status != "" && msg.Status != models.MessageStatusDelivered {
			status = fmt.Sprintf(" [%s]", msg.Status)
		}
		fmt.Printf("%s  %s%s\n  %s\n\n", msg.CreatedAt.Format("2006-01-02 15:04"), msg.Sender, status, msg.Body)
	}
	return nil
}

// SendMessageCommand sends a message into a conversation.
func SendMessageCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("messages send", flag.ExitOnError)
	body := fs.String("body", "", "Message text (required)")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: messages send --body <text> <conversation-id>")
	}
	if *body == "" {
		return fmt.Errorf("--body is required")
	}

	msg, err := app.Messaging.SendMessage(context.Background(), fs.Arg(0), *body)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	fmt.Printf("✓ Message sent (ID: %s)\n", msg.ID)
	return nil
}
