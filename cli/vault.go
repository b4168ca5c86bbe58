// ABOUTME: Vault CLI commands for credential items
// ABOUTME: Secrets are prompted without echo and cached in the encrypted KV
package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"syscall"
	"text/tabwriter"

	"golang.org/x/term"

	"salespad/models"
)

// VaultListCommand lists credential items. Secrets are never printed.
func VaultListCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("vault list", flag.ExitOnError)
	category := fs.String("category", "", "Filter by category")
	_ = fs.Parse(args)

	vault, cleanup, err := app.OpenVault()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := vault.FetchItems(context.Background()); err != nil {
		if len(vault.Items()) == 0 {
			return fmt.Errorf("failed to fetch vault items: %w", err)
		}
		fmt.Fprintf(os.Stderr, "warning: serving offline vault cache: %v\n", err)
	}

	var items []models.VaultItem
	for _, item := range vault.Items() {
		if *category != "" && item.Category != *category {
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		fmt.Println("No vault items found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tCATEGORY\tUSERNAME\tURL\tID")
	_, _ = fmt.Fprintln(w, "----\t--------\t--------\t---\t--")
	for _, item := range items {
		category := item.Category
		if category == "" {
			category = "-"
		}
		username := item.Username
		if username == "" {
			username = "-"
		}
		url := item.URL
		if url == "" {
			url = "-"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", item.Name, category, username, url, item.ID)
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d item(s)\n", len(items))
	return nil
}

// VaultAddCommand stores a new credential. The secret is read from the
// terminal without echo unless --secret is given.
func VaultAddCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("vault add", flag.ExitOnError)
	name := fs.String("name", "", "Item name (required)")
	category := fs.String("category", "", "Category (e.g. api-key, login)")
	username := fs.String("username", "", "Username or key ID")
	secret := fs.String("secret", "", "Secret value (prompted when omitted)")
	url := fs.String("url", "", "Related URL")
	notes := fs.String("notes", "", "Notes")
	_ = fs.Parse(args)

	if *name == "" {
		return fmt.Errorf("--name is required")
	}

	secretValue := *secret
	if secretValue == "" {
		fmt.Print("Secret: ")
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read secret: %w", err)
		}
		secretValue = string(raw)
	}
	if secretValue == "" {
		return fmt.Errorf("secret must not be empty")
	}

	vault, cleanup, err := app.OpenVault()
	if err != nil {
		return err
	}
	defer cleanup()

	item, err := vault.CreateItem(context.Background(), models.VaultItem{
		Name:     *name,
		Category: *category,
		Username: *username,
		Secret:   secretValue,
		URL:      *url,
		Notes:    *notes,
	})
	if err != nil {
		return fmt.Errorf("failed to store vault item: %w", err)
	}

	fmt.Printf("✓ Vault item stored: %s (ID: %s)\n", item.Name, item.ID)
	return nil
}

// VaultShowCommand prints one credential including its secret.
func VaultShowCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("vault show", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: vault show <id>")
	}

	vault, cleanup, err := app.OpenVault()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := vault.FetchItems(context.Background()); err != nil && len(vault.Items()) == 0 {
		return fmt.Errorf("failed to fetch vault items: %w", err)
	}

	item := vault.Item(fs.Arg(0))
	if item == nil {
		return fmt.Errorf("vault item not found: %s", fs.Arg(0))
	}

	fmt.Printf("Name: %s\n", item.Name)
	if item.Category != "" {
		fmt.Printf("Category: %s\n", item.Category)
	}
	if item.Username != "" {
		fmt.Printf("Username: %s\n", item.Username)
	}
	fmt.Printf("Secret: %s\n", item.Secret)
	if item.URL != "" {
		fmt.Printf("URL: %s\n", item.URL)
	}
	if item.Notes != "" {
		fmt.Printf("Notes: %s\n", item.Notes)
	}
	return nil
}

// VaultDeleteCommand removes a credential from the server and the local cache.
func VaultDeleteCommand(app *App, args []string) error {
	fs := flag.NewFlagSet("vault delete", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: vault delete <id>")
	}

	vault, cleanup, err := app.OpenVault()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := vault.DeleteItem(context.Background(), fs.Arg(0)); err != nil {
		return fmt.Errorf("failed to delete vault item: %w", err)
	}

	fmt.Printf("✓ Deleted vault item: %s\n", fs.Arg(0))
	return nil
}
