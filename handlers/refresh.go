// ABOUTME: Shared fetch-before-read helpers for MCP tool handlers
// ABOUTME: Read tools refresh from the backend but tolerate failures when cached data exists
package handlers

import (
	"context"
	"fmt"
	"log"

	"salespad/store"
)

// Read tools refresh their collection first. A failed refresh is fatal only
// when the store has nothing to serve; otherwise the cached or fallback data
// stands in and the error is logged.

func refreshLeads(ctx context.Context, crm *store.CRMStore) error {
	if err := crm.FetchLeads(ctx); err != nil {
		if len(crm.Leads()) == 0 {
			return fmt.Errorf("failed to fetch leads: %w", err)
		}
		log.Printf("warning: serving cached leads: %v", err)
	}
	return nil
}

func refreshContacts(ctx context.Context, crm *store.CRMStore) error {
	if err := crm.FetchContacts(ctx); err != nil {
		if len(crm.Contacts()) == 0 {
			return fmt.Errorf("failed to fetch contacts: %w", err)
		}
		log.Printf("warning: serving cached contacts: %v", err)
	}
	return nil
}

func refreshDeals(ctx context.Context, crm *store.CRMStore) error {
	if err := crm.FetchDeals(ctx); err != nil {
		if len(crm.Deals()) == 0 {
			return fmt.Errorf("failed to fetch deals: %w", err)
		}
		log.Printf("warning: serving cached deals: %v", err)
	}
	return nil
}

func refreshCommunications(ctx context.Context, crm *store.CRMStore) error {
	if err := crm.FetchCommunications(ctx); err != nil {
		if len(crm.Communications()) == 0 {
			return fmt.Errorf("failed to fetch communications: %w", err)
		}
		log.Printf("warning: serving cached communications: %v", err)
	}
	return nil
}

func refreshVoices(ctx context.Context, caller *store.CallerStore) error {
	if err := caller.FetchVoices(ctx); err != nil {
		if len(caller.Voices()) == 0 {
			return fmt.Errorf("failed to fetch voices: %w", err)
		}
		log.Printf("warning: serving cached voices: %v", err)
	}
	return nil
}
