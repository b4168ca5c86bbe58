// ABOUTME: AI call CLI commands
// ABOUTME: Starting and ending calls plus voice and script management
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"salespad/models"
)

// StartCallCommand starts a conversational-AI call.
func StartCallCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("call start", flag.ExitOnError)
	phone := fs.String("phone", "", "Phone number to dial (required)")
	leadID := fs.String("lead", "", "Lead the call is about")
	voiceID := fs.String("voice", "", "Synthesized voice ID")
	scriptID := fs.String("script", "", "Call script ID")
	_ = fs.Parse(args)

	if *phone == "" {
		return fmt.Errorf("--phone is required")
	}

	call, err := app.Caller.StartCall(context.Background(), models.AICall{
		Phone:    *phone,
		LeadID:   *leadID,
		VoiceID:  *voiceID,
		ScriptID: *scriptID,
	})
	if err != nil {
		return fmt.Errorf("failed to start call: %w", err)
	}

	fmt.Printf("✓ Call started: %s (ID: %s)\n", call.Phone, call.ID)
	fmt.Printf("  Status: %s\n", call.Status)
	return nil
}

// EndCallCommand ends an in-progress call.
func EndCallCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("call end", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: call end <id>")
	}

	call, err := app.Caller.EndCall(context.Background(), fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to end call: %w", err)
	}

	fmt.Printf("✓ Call ended: %s\n", call.ID)
	if call.DurationSec > 0 {
		fmt.Printf("  Duration: %ds\n", call.DurationSec)
	}
	return nil
}

// ListCallsCommand lists call sessions, newest first.
func ListCallsCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("call list", flag.ExitOnError)
	limit := fs.Int("limit", 50, "Maximum results")
	_ = fs.Parse(args)

	if err := app.Caller.FetchCalls(context.Background()); err != nil {
		if len(app.Caller.Calls()) == 0 {
			return fmt.Errorf("failed to fetch calls: %w", err)
		}
		fmt.Fprintf(os.Stderr, "warning: serving cached calls: %v\n", err)
	}

	calls := app.Caller.Calls()
	if len(calls) > *limit {
		calls = calls[:*limit]
	}
	if len(calls) == 0 {
		fmt.Println("No calls found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PHONE\tSTATUS\tDURATION\tSTARTED\tID")
	_, _ = fmt.Fprintln(w, "-----\t------\t--------\t-------\t--")
	for _, call := range calls {
		duration := "-"
		if call.DurationSec > 0 {
			duration = fmt.Sprintf("%ds", call.DurationSec)
		}
		started := "-"
		if call.StartedAt != nil {
			started = call.StartedAt.Format("2006-01-02 15:04")
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", call.Phone, call.Status, duration, started, call.ID)
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d call(s)\n", len(calls))
	return nil
}

// ShowCallCommand prints a single call including its transcript.
func ShowCallCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("call show", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: call show <id>")
	}

	if err := app.Caller.FetchCalls(context.Background()); err != nil && len(app.Caller.Calls()) == 0 {
		return fmt.Errorf("failed to fetch calls: %w", err)
	}

	for _, call := range app.Caller.Calls() {
		if call.ID != fs.Arg(0) {
			continue
		}
		fmt.Printf("Call %s\n", call.ID)
		fmt.Printf("  Phone: %s\n", call.Phone)
		fmt.Printf("  Status: %s\n", call.Status)
		if call.LeadID != "" {
			fmt.Printf("  Lead: %s\n", call.LeadID)
		}
		if call.DurationSec > 0 {
			fmt.Printf("  Duration: %ds\n", call.DurationSec)
		}
		if call.Transcript != "" {
			fmt.Printf("\nTranscript:\n%s\n", call.Transcript)
		}
		return nil
	}
	return fmt.Errorf("call not found: %s", fs.Arg(0))
}

// ListVoicesCommand lists the available synthesized voices.
func ListVoicesCommand(app *App, args []string) error {
	if err := app.Caller.FetchVoices(context.Background()); err != nil {
		if len(app.Caller.Voices()) == 0 {
			return fmt.Errorf("failed to fetch voices: %w", err)
		}
		fmt.Fprintf(os.Stderr, "warning: serving cached voices: %v\n", err)
	}

	voices := app.Caller.Voices()
	if len(voices) == 0 {
		fmt.Println("No voices available")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tLANGUAGE\tGENDER\tID")
	_, _ = fmt.Fprintln(w, "----\t--------\t------\t--")
	for _, voice := range voices {
		language := voice.Language
		if language == "" {
			language = "-"
		}
		gender := voice.Gender
		if gender == "" {
			gender = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", voice.Name, language, gender, voice.ID)
	}
	_ = w.Flush()
	return nil
}

// AddScriptCommand creates a call script.
func AddScriptCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("script add", flag.ExitOnError)
	name := fs.String("name", "", "Script name (required)")
	opening := fs.String("opening", "", "Opening line")
	body := fs.String("body", "", "Main script body (required)")
	closing := fs.String("closing", "", "Closing line")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}
	if *body == "" {
		return fmt.Errorf("--body is required")
	}

	script, err := app.Caller.CreateScript(context.Background(), models.CallScript{
		Name:    *name,
		Opening: *opening,
		Body:    *body,
		Closing: *closing,
	})
	if err != nil {
		return fmt.Errorf("failed to create script: %w", err)
	}

	fmt.Printf("✓ Script created: %s (ID: %s)\n", script.Name, script.ID)
	return nil
}

// ListScriptsCommand lists call scripts.
func ListScriptsCommand(app *App, args []string) error {
	if err := app.Caller.FetchScripts(context.Background()); err != nil {
		if len(app.Caller.Scripts()) == 0 {
			return fmt.Errorf("failed to fetch scripts: %w", err)
		}
		fmt.Fprintf(os.Stderr, "warning: serving cached scripts: %v\n", err)
	}

	scripts := app.Caller.Scripts()
	if len(scripts) == 0 {
		fmt.Println("No scripts found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tUPDATED\tID")
	_, _ = fmt.Fprintln(w, "----\t-------\t--")
	for _, script := range scripts {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", script.Name, script.UpdatedAt.Format("2006-01-02"), script.ID)
	}
	_ = w.Flush()
	return nil
}

// DeleteScriptCommand deletes a call script.
func DeleteScriptCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("script delete", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: script delete <id>")
	}

	if err := app.Caller.DeleteScript(context.Background(), fs.Arg(0)); err != nil {
		return fmt.Errorf("failed to delete script: %w", err)
	}

	fmt.Printf("✓ Deleted script: %s\n", fs.Arg(0))
	return nil
}
