// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Provides ASCII dashboard for CRM overview
package viz

import (
	"fmt"
	"strings"
	"time"

	"salespad/models"
	"salespad/store"
)

type DashboardStats struct {
	// Pipeline overview
	PipelineByStage map[string]PipelineStageStats

	// Overall stats
	TotalLeads    int
	TotalContacts int
	TotalDeals    int
	TotalCalls    int

	// Needs attention
	StaleLeads []StaleLead
}

type PipelineStageStats struct {
	Stage  string
	Count  int
	Amount int64 // in cents
}

type StaleLead struct {
	Name      string
	DaysSince int
}

func GenerateDashboardStats(crm *store.CRMStore, caller *store.CallerStore) *DashboardStats {
	stats := &DashboardStats{
		PipelineByStage: make(map[string]PipelineStageStats),
	}

	deals := crm.Deals()
	for _, deal := range deals {
		stage := deal.Stage
		if stage == "" {
			stage = "unknown"
		}

		pstats := stats.PipelineByStage[stage]
		pstats.Stage = stage
		pstats.Count++
		pstats.Amount += deal.Amount
		stats.PipelineByStage[stage] = pstats
	}
	stats.TotalDeals = len(deals)

	leads := crm.Leads()
	stats.TotalLeads = len(leads)
	stats.TotalContacts = len(crm.Contacts())
	if caller != nil {
		stats.TotalCalls = len(caller.Calls())
	}

	// Leads with no touchpoint in 30+ days need attention
	now := time.Now()
	for _, lead := range leads {
		if lead.Status == models.LeadStatusConverted || lead.Status == models.LeadStatusUnqualified {
			continue
		}
		if lead.LastContact == nil {
			stats.StaleLeads = append(stats.StaleLeads, StaleLead{
				Name:      lead.Name,
				DaysSince: -1, // Never contacted
			})
			continue
		}
		daysSince := int(now.Sub(*lead.LastContact).Hours() / 24)
		if daysSince > 30 {
			stats.StaleLeads = append(stats.StaleLeads, StaleLead{
				Name:      lead.Name,
				DaysSince: daysSince,
			})
		}
	}

	return stats
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	// Header
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  SALESPAD DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	// Pipeline overview
	out.WriteString("PIPELINE OVERVIEW\n")
	renderPipeline(&out, stats.PipelineByStage)
	out.WriteString("\n")

	// Stats
	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  🎯 %d leads  📇 %d contacts  💼 %d deals  📞 %d calls\n\n",
		stats.TotalLeads, stats.TotalContacts, stats.TotalDeals, stats.TotalCalls))

	// Needs attention
	if len(stats.StaleLeads) > 0 {
		out.WriteString("NEEDS ATTENTION\n")
		out.WriteString(fmt.Sprintf("  ⚠️  %d leads - no contact in 30+ days\n", len(stats.StaleLeads)))
	}

	return out.String()
}

func renderPipeline(out *strings.Builder, pipeline map[string]PipelineStageStats) {
	// Find max count for scaling
	maxCount := 0
	for _, pstats := range pipeline {
		if pstats.Count > maxCount {
			maxCount = pstats.Count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	// Render each stage in funnel order
	for _, stage := range models.PipelineStages {
		pstats, exists := pipeline[stage]
		if !exists {
			continue
		}

		// Calculate bar length (0-10 blocks)
		barLength := (pstats.Count * 10) / maxCount

		// Build bar
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)

		// Format amount in K
		amountK := pstats.Amount / 100000

		out.WriteString(fmt.Sprintf("  %-13s %s  %2d ($%dK)\n",
			stage, bar, pstats.Count, amountK))
	}
}
