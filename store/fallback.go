// ABOUTME: Fixed demo fallback datasets substituted when a fetch fails
// ABOUTME: Membership is pinned by tests; only installed when DemoFallback is enabled
package store

import (
	"time"

	"salespad/models"
)

// Demo data keeps the UI populated when the backend is unreachable and no
// cached snapshot exists. Membership is part of the store contract.

var demoTime = time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

func fallbackLeads() []models.Lead {
	return []models.Lead{
		{
			ID:        "demo-lead-1",
			Name:      "Jordan Rivera",
			Email:     "jordan@acmefreight.example",
			Company:   "Acme Freight",
			Source:    "webform",
			Status:    models.LeadStatusNew,
			Score:     72,
			CreatedAt: demoTime,
			UpdatedAt: demoTime,
		},
		{
			ID:        "demo-lead-2",
			Name:      "Sam Okafor",
			Email:     "sam@brightbuild.example",
			Company:   "Brightbuild Construction",
			Source:    "referral",
			Status:    models.LeadStatusContacted,
			Score:     58,
			CreatedAt: demoTime,
			UpdatedAt: demoTime,
		},
		{
			ID:        "demo-lead-3",
			Name:      "Priya Nair",
			Email:     "priya@coastalmed.example",
			Company:   "Coastal Medical",
			Source:    "event",
			Status:    models.LeadStatusQualified,
			Score:     91,
			CreatedAt: demoTime,
			UpdatedAt: demoTime,
		},
	}
}

func fallbackContacts() []models.Contact {
	return []models.Contact{
		{
			ID:        "demo-contact-1",
			Name:      "Dana Whitfield",
			Email:     "dana@acmefreight.example",
			Company:   "Acme Freight",
			Title:     "Operations Lead",
			CreatedAt: demoTime,
			UpdatedAt: demoTime,
		},
		{
			ID:        "demo-contact-2",
			Name:      "Miguel Santos",
			Email:     "miguel@brightbuild.example",
			Company:   "Brightbuild Construction",
			Title:     "Procurement Manager",
			CreatedAt: demoTime,
			UpdatedAt: demoTime,
		},
		{
			ID:        "demo-contact-3",
			Name:      "Lena Forsberg",
			Email:     "lena@coastalmed.example",
			Company:   "Coastal Medical",
			Title:     "Director of IT",
			CreatedAt: demoTime,
			UpdatedAt: demoTime,
		},
	}
}

func fallbackDeals() []models.Deal {
	return []models.Deal{
		{
			ID:        "demo-deal-1",
			Title:     "Fleet Tracking Rollout",
			Amount:    4800000,
			Currency:  "USD",
			Stage:     models.StageProposal,
			Company:   "Acme Freight",
			CreatedAt: demoTime,
			UpdatedAt: demoTime,
		},
		{
			ID:        "demo-deal-2",
			Title:     "Site Crew Licenses",
			Amount:    1250000,
			Currency:  "USD",
			Stage:     models.StageNegotiation,
			Company:   "Brightbuild Construction",
			CreatedAt: demoTime,
			UpdatedAt: demoTime,
		},
	}
}

func fallbackVoices() []models.Voice {
	return []models.Voice{
		{ID: "demo-voice-1", Name: "Harper", Language: "en-US", Gender: "female"},
		{ID: "demo-voice-2", Name: "Atlas", Language: "en-US", Gender: "male"},
		{ID: "demo-voice-3", Name: "Marisol", Language: "es-MX", Gender: "female"},
	}
}
