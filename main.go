// ABOUTME: Entry point for the salespad client
// ABOUTME: Routes to the MCP server, CRM, calendar, messaging, vault, and viz commands
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"salespad/charm"
	"salespad/cli"
	"salespad/config"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version and exit")
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("salespad version %s\n", cli.Version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	command := args[0]
	commandArgs := args[1:]

	app := cli.NewApp(cfg)
	defer app.Close()

	switch command {
	case "mcp":
		if err := cli.MCPCommand(app); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}

	case "crm":
		runSubcommand(app, "crm", commandArgs, map[string]commandFunc{
			"add-lead":            cli.AddLeadCommand,
			"list-leads":          cli.ListLeadsCommand,
			"update-lead":         cli.UpdateLeadCommand,
			"delete-lead":         cli.DeleteLeadCommand,
			"add-contact":         cli.AddContactCommand,
			"list-contacts":       cli.ListContactsCommand,
			"update-contact":      cli.UpdateContactCommand,
			"delete-contact":      cli.DeleteContactCommand,
			"log-communication":   cli.LogCommunicationCommand,
			"list-communications": cli.ListCommunicationsCommand,
			"add-deal":            cli.AddDealCommand,
			"list-deals":          cli.ListDealsCommand,
			"update-deal":         cli.UpdateDealCommand,
			"move-deal":           cli.MoveDealCommand,
			"delete-deal":         cli.DeleteDealCommand,
		})

	case "call":
		runSubcommand(app, "call", commandArgs, map[string]commandFunc{
			"start":  cli.StartCallCommand,
			"end":    cli.EndCallCommand,
			"list":   cli.ListCallsCommand,
			"show":   cli.ShowCallCommand,
			"voices": cli.ListVoicesCommand,
		})

	case "script":
		runSubcommand(app, "script", commandArgs, map[string]commandFunc{
			"add":    cli.AddScriptCommand,
			"list":   cli.ListScriptsCommand,
			"delete": cli.DeleteScriptCommand,
		})

	case "calendar":
		runSubcommand(app, "calendar", commandArgs, map[string]commandFunc{
			"add":         cli.AddEventCommand,
			"list":        cli.ListEventsCommand,
			"update":      cli.UpdateEventCommand,
			"delete":      cli.DeleteEventCommand,
			"sync-status": cli.CalendarSyncStatusCommand,
			"sync-now":    cli.CalendarSyncNowCommand,
			"auth":        cli.GoogleAuthCommand,
			"import":      cli.CalendarImportCommand,
		})

	case "messages":
		runSubcommand(app, "messages", commandArgs, map[string]commandFunc{
			"list":  cli.ListConversationsCommand,
			"start": cli.StartConversationCommand,
			"show":  cli.ShowThreadCommand,
			"send":  cli.SendMessageCommand,
		})

	case "vault":
		runVaultCommand(app, commandArgs)

	case "watch":
		if err := cli.WatchCommand(app, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "activity":
		if err := cli.ActivityCommand(app, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "viz":
		runVizCommand(app, commandArgs)

	case "tui":
		if err := cli.TUICommand(app, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "web":
		if err := cli.WebCommand(app, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "config":
		runConfigCommand(cfg, commandArgs)

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

type commandFunc func(*cli.App, []string) error

func runSubcommand(app *cli.App, group string, args []string, commands map[string]commandFunc) {
	if len(args) == 0 {
		fmt.Printf("Error: %s requires a subcommand\n", group)
		printUsage()
		os.Exit(1)
	}

	fn, ok := commands[args[0]]
	if !ok {
		fmt.Printf("Unknown %s command: %s\n\n", group, args[0])
		printUsage()
		os.Exit(1)
	}

	if err := fn(app, args[1:]); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runVaultCommand(app *cli.App, args []string) {
	if len(args) == 0 {
		fmt.Println("Error: vault requires a subcommand")
		printUsage()
		os.Exit(1)
	}

	var err error
	switch args[0] {
	case "list":
		err = cli.VaultListCommand(app, args[1:])
	case "add":
		err = cli.VaultAddCommand(app, args[1:])
	case "show":
		err = cli.VaultShowCommand(app, args[1:])
	case "delete":
		err = cli.VaultDeleteCommand(app, args[1:])

	// Charm KV account management for the encrypted cache
	case "link":
		err = charm.SyncLinkCommand(args[1:])
	case "status":
		err = charm.SyncStatusCommand(args[1:])
	case "unlink":
		err = charm.SyncUnlinkCommand(args[1:])
	case "wipe":
		err = charm.SyncWipeCommand(args[1:])
	case "sync":
		err = charm.SyncNowCommand(args[1:])
	case "autosync":
		err = charm.SetAutoSyncCommand(args[1:])

	default:
		fmt.Printf("Unknown vault command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runVizCommand(app *cli.App, args []string) {
	if len(args) == 0 {
		fmt.Println("Error: viz requires a subcommand")
		printUsage()
		os.Exit(1)
	}

	var err error
	switch args[0] {
	case "graph":
		if len(args) < 2 {
			fmt.Println("Error: viz graph requires a type (pipeline or network)")
			printUsage()
			os.Exit(1)
		}
		switch args[1] {
		case "pipeline":
			err = cli.VizGraphPipelineCommand(app, args[2:])
		case "network":
			err = cli.VizGraphNetworkCommand(app, args[2:])
		default:
			fmt.Printf("Unknown graph type: %s\n\n", args[1])
			printUsage()
			os.Exit(1)
		}
	case "dashboard":
		err = cli.VizDashboardCommand(app, args[1:])
	default:
		fmt.Printf("Unknown viz command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runConfigCommand(cfg *config.Config, args []string) {
	if len(args) == 0 {
		fmt.Println("Error: config requires a subcommand (show, set)")
		os.Exit(1)
	}

	var err error
	switch args[0] {
	case "show":
		err = cli.ConfigShowCommand(cfg, args[1:])
	case "set":
		err = cli.ConfigSetCommand(cfg, args[1:])
	default:
		fmt.Printf("Unknown config command: %s\n\n", args[0])
		os.Exit(1)
	}

	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func printUsage() {
	fmt.Printf(`salespad v%s - Sales workspace client

USAGE:
  salespad [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit

COMMANDS:
  mcp                    Start MCP server for agent integration
  crm                    Lead, contact, deal, and communication commands
  call                   Conversational-AI call commands
  script                 Call script commands
  calendar               Calendar event and sync commands
  messages               Conversation and messaging commands
  vault                  Credential vault commands
  watch                  Tail the realtime event stream
  activity               Show the local activity timeline
  viz                    Visualization commands
  tui                    Launch the interactive terminal interface
  web                    Start the read-only web dashboard
  config                 Show or update the client configuration

CRM COMMANDS:
  salespad crm add-lead        Add a new lead
    --name <name>                Lead name (required)
    --email <email>              Email address
    --phone <phone>              Phone number
    --company <company>          Company name
    --source <source>            Where the lead came from
    --status <status>            Status (default: new)

  salespad crm list-leads      List leads
    --status <status>            Filter by status
    --query <text>               Match name, email, or company
    --limit <n>                  Max results (default: 50)

  salespad crm update-lead [flags] <id>     Update a lead
  salespad crm delete-lead <id>             Delete a lead

  salespad crm add-contact     Add a new contact
  salespad crm list-contacts   List contacts
  salespad crm update-contact [flags] <id>  Update a contact
  salespad crm delete-contact <id>          Delete a contact

  salespad crm log-communication            Log a touchpoint
    --lead <id> | --contact <id>             Who it was with (one required)
    --channel <channel>                      call, email, sms, meeting (required)
    --direction <dir>                        inbound or outbound
    --subject <text>                         Subject line

  salespad crm list-communications          List touchpoints

  salespad crm add-deal        Add a new deal
    --title <title>              Deal title (required)
    --amount <cents>             Amount in cents
    --currency <code>            Currency code (default: USD)
    --stage <stage>              Stage (default: prospecting)
    --close-date <date>          Expected close (YYYY-MM-DD)

  salespad crm list-deals      List deals
  salespad crm update-deal [flags] <id>     Update a deal
  salespad crm move-deal --stage <stage> <id>  Move a deal between stages
  salespad crm delete-deal <id>             Delete a deal

CALL COMMANDS:
  salespad call start --phone <number>  Start an AI call
  salespad call end <id>                End a call
  salespad call list                    List calls
  salespad call show <id>               Show a call with transcript
  salespad call voices                  List synthesized voices

CALENDAR COMMANDS:
  salespad calendar add --title <t> --start <time>  Create an event
  salespad calendar list                List events
  salespad calendar sync-status         Show backend sync state
  salespad calendar sync-now            Trigger a provider sync
  salespad calendar auth                Authenticate with Google
  salespad calendar import              Import events from Google Calendar

MESSAGING COMMANDS:
  salespad messages list                List conversations
  salespad messages start               Start a conversation
  salespad messages show <id>           Show a thread
  salespad messages send --body <text> <id>  Send a message

VAULT COMMANDS:
  salespad vault list                   List credentials (secrets hidden)
  salespad vault add --name <name>      Store a credential (secret prompted)
  salespad vault show <id>              Show one credential
  salespad vault delete <id>            Delete a credential
  salespad vault link                   Link this device to a charm account
  salespad vault status                 Show encrypted cache status
  salespad vault sync                   Sync the encrypted cache now

VIZ COMMANDS:
  salespad viz graph pipeline           Deal pipeline funnel (DOT)
  salespad viz graph network            Lead/contact/deal network (DOT)
    --output <file>                       Output file (default: stdout)
  salespad viz dashboard                ASCII dashboard

EXAMPLES:
  # Start MCP server
  salespad mcp

  # Add a lead and qualify it
  salespad crm add-lead --name "Jordan Rivera" --company "Acme Corp"
  salespad crm update-lead --status qualified <id>

  # Move a deal to negotiation
  salespad crm move-deal --stage negotiation <id>

  # Watch realtime updates
  salespad watch

`, cli.Version)
}
