// ABOUTME: Shared CLI application wiring
// ABOUTME: Builds the API client, snapshot cache, recorder, and stores for commands
package cli

import (
	"fmt"
	"log"

	"salespad/activity"
	"salespad/api"
	"salespad/cache"
	"salespad/charm"
	"salespad/config"
	"salespad/store"
)

// Version is reported by the MCP server and the version subcommand.
const Version = "0.1.0"

// App bundles the constructed stores for command handlers. One App is built
// per invocation; the vault store is opened lazily because it needs the
// charm KV backend.
type App struct {
	Config    *config.Config
	API       *api.Client
	Cache     *cache.Cache
	Recorder  *activity.Recorder
	CRM       *store.CRMStore
	Caller    *store.CallerStore
	Calendar  *store.CalendarStore
	Messaging *store.MessagingStore
}

func NewApp(cfg *config.Config) *App {
	client := api.NewClient(cfg.BaseURL, cfg.Token, nil)

	opts := store.Options{DemoFallback: cfg.DemoFallback}

	app := &App{Config: cfg, API: client}

	// The snapshot cache is best-effort: commands still work against the
	// live API when the local database cannot be opened.
	c, err := cache.Open(cache.DefaultPath())
	if err != nil {
		log.Printf("warning: snapshot cache unavailable: %v", err)
	} else {
		app.Cache = c
		app.Recorder = activity.NewRecorder(c)
		opts.Cache = c
		opts.Recorder = app.Recorder
	}

	app.CRM = store.NewCRMStore(client, opts)
	app.Caller = store.NewCallerStore(client, opts)
	app.Calendar = store.NewCalendarStore(client, opts)
	app.Messaging = store.NewMessagingStore(client, opts)
	return app
}

func (a *App) Close() {
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			log.Printf("warning: failed to close cache: %v", err)
		}
	}
}

// OpenVault builds the vault store over the encrypted charm KV. The caller
// must invoke the returned cleanup when done.
func (a *App) OpenVault() (*store.VaultStore, func(), error) {
	charmCfg, err := charm.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load charm config: %w", err)
	}

	kv, err := charm.NewClient(charmCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open vault cache: %w", err)
	}

	opts := store.Options{Recorder: a.Recorder}
	vault := store.NewVaultStore(a.API, kv, opts)
	cleanup := func() {
		if err := kv.Close(); err != nil {
			log.Printf("warning: failed to close vault cache: %v", err)
		}
	}
	return vault, cleanup, nil
}
