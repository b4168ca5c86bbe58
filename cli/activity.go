// ABOUTME: Activity timeline CLI command
// ABOUTME: Shows recent local mutations recorded by the stores
package cli

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
)

// ActivityCommand prints the recent local activity timeline.
func ActivityCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("activity", flag.ExitOnError)
	limit := fs.Int("limit", 25, "Maximum entries")
	_ = fs.Parse(args)

	if app.Recorder == nil {
		return fmt.Errorf("activity timeline unavailable: no local cache")
	}

	activities, err := app.Recorder.Recent(*limit)
	if err != nil {
		return fmt.Errorf("failed to read activity timeline: %w", err)
	}
	if len(activities) == 0 {
		fmt.Println("No activity recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tACTION\tENTITY\tSUMMARY")
	_, _ = fmt.Fprintln(w, "----\t------\t------\t-------")
	for _, a := range activities {
		summary := a.Summary
		if summary == "" {
			summary = a.EntityID
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			a.CreatedAt.Format("2006-01-02 15:04"), a.Verb, a.Entity, summary)
	}
	_ = w.Flush()
	return nil
}
