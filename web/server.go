// ABOUTME: Read-only web dashboard with embedded templates
// ABOUTME: Serves the local store collections at localhost
package web

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"sort"
	"strings"

	"salespad/models"
	"salespad/store"
	"salespad/viz"
)

//go:embed templates/*
var templatesFS embed.FS

// Server renders the fetched collections. It never writes; mutations go
// through the CLI or MCP tools.
type Server struct {
	crm       *store.CRMStore
	caller    *store.CallerStore
	templates *template.Template
	generator *viz.GraphGenerator
}

func NewServer(crm *store.CRMStore, caller *store.CallerStore) (*Server, error) {
	funcMap := template.FuncMap{
		"divide": func(a, b int64) int64 {
			if b == 0 {
				return 0
			}
			return a / b
		},
		"multiply": func(a, b int64) int64 {
			return a * b
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{
		crm:       crm,
		caller:    caller,
		templates: tmpl,
		generator: viz.NewGraphGenerator(crm),
	}, nil
}

func (s *Server) Start(port int) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleDashboard)
	mux.HandleFunc("/leads", s.handleLeads)
	mux.HandleFunc("/contacts", s.handleContacts)
	mux.HandleFunc("/deals", s.handleDeals)
	mux.HandleFunc("/graph.dot", s.handleGraph)

	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting web dashboard at http://localhost%s", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) renderTemplate(w http.ResponseWriter, name string, data interface{}) {
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Template error rendering %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	stats := viz.GenerateDashboardStats(s.crm, s.caller)

	// Templates cannot range maps in pipeline order
	var pipeline []viz.PipelineStageStats
	for _, stage := range models.PipelineStages {
		if stageStats, ok := stats.PipelineByStage[stage]; ok {
			pipeline = append(pipeline, stageStats)
		}
	}

	s.renderTemplate(w, "layout.html", map[string]interface{}{
		"Title":           "Dashboard",
		"ContentTemplate": "dashboard-content",
		"Stats":           stats,
		"Pipeline":        pipeline,
	})
}

func (s *Server) handleLeads(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	var leads []models.Lead
	for _, lead := range s.crm.Leads() {
		if query == "" || containsFold(lead.Name, query) || containsFold(lead.Company, query) {
			leads = append(leads, lead)
		}
	}

	s.renderTemplate(w, "layout.html", map[string]interface{}{
		"Title":           "Leads",
		"ContentTemplate": "leads-content",
		"Leads":           leads,
		"Query":           query,
	})
}

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	var contacts []models.Contact
	for _, contact := range s.crm.Contacts() {
		if query == "" || containsFold(contact.Name, query) || containsFold(contact.Company, query) {
			contacts = append(contacts, contact)
		}
	}

	s.renderTemplate(w, "layout.html", map[string]interface{}{
		"Title":           "Contacts",
		"ContentTemplate": "contacts-content",
		"Contacts":        contacts,
		"Query":           query,
	})
}

func (s *Server) handleDeals(w http.ResponseWriter, r *http.Request) {
	stage := r.URL.Query().Get("stage")

	var deals []models.Deal
	var total int64
	for _, deal := range s.crm.Deals() {
		if stage != "" && deal.Stage != stage {
			continue
		}
		deals = append(deals, deal)
		total += deal.Amount
	}
	sort.SliceStable(deals, func(i, j int) bool {
		return stageRank(deals[i].Stage) < stageRank(deals[j].Stage)
	})

	s.renderTemplate(w, "layout.html", map[string]interface{}{
		"Title":           "Deals",
		"ContentTemplate": "deals-content",
		"Deals":           deals,
		"Stage":           stage,
		"Stages":          models.PipelineStages,
		"Total":           total,
	})
}

// handleGraph serves the DOT source for the pipeline or network graph.
// Rendering to an image is left to the client (dot, Graphviz online).
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	var dot string
	var err error
	switch r.URL.Query().Get("type") {
	case "network":
		dot, err = s.generator.GenerateNetworkGraph()
	default:
		dot, err = s.generator.GeneratePipelineGraph()
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = w.Write([]byte(dot))
}

func stageRank(stage string) int {
	for i, s := range models.PipelineStages {
		if s == stage {
			return i
		}
	}
	return len(models.PipelineStages)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
