// ABOUTME: CRM store for leads, contacts, deals, and communications
// ABOUTME: Fetch/create/update/delete over the REST API plus realtime event reconciliation
package store

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"salespad/activity"
	"salespad/api"
	"salespad/models"
	"salespad/realtime"
)

// Snapshot cache entity keys.
const (
	snapshotLeads          = "leads"
	snapshotContacts       = "contacts"
	snapshotDeals          = "deals"
	snapshotCommunications = "communications"
)

// CRMStore caches the CRM collections client-side. Collections are replaced
// wholesale on fetch and patched element-wise on create/update/delete and
// realtime events. Construct one per API client; there is no package-level
// instance.
type CRMStore struct {
	mu   sync.RWMutex
	api  *api.Client
	opts Options

	leads          []models.Lead
	contacts       []models.Contact
	deals          []models.Deal
	communications []models.Communication

	selectedLeadID    string
	selectedContactID string
	selectedDealID    string

	leadsStatus    Status
	contactsStatus Status
	dealsStatus    Status
	commsStatus    Status
}

func NewCRMStore(client *api.Client, opts Options) *CRMStore {
	return &CRMStore{api: client, opts: opts}
}

// --- Leads ---

// FetchLeads replaces the lead collection from the backend. On failure the
// error message is recorded and the collection falls back to the cached
// snapshot, then the demo dataset if enabled.
func (s *CRMStore) FetchLeads(ctx context.Context) error {
	s.mu.Lock()
	s.leadsStatus = Status{Loading: true}
	s.mu.Unlock()

	raw, err := s.api.Get(ctx, "/crm/leads")
	var leads []models.Lead
	if err == nil {
		leads, err = api.DecodeList[models.Lead](raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.leadsStatus = Status{Error: err.Error()}
		if recovered, ok := recoverCollection[models.Lead](s.opts, snapshotLeads, fallbackLeads); ok {
			s.leads = recovered
		}
		return err
	}

	s.leads = leads
	s.leadsStatus = Status{}
	saveSnapshot(s.opts.Cache, snapshotLeads, leads)
	return nil
}

// Leads returns a copy of the lead collection.
func (s *CRMStore) Leads() []models.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Lead(nil), s.leads...)
}

func (s *CRMStore) LeadsStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.leadsStatus
}

// CreateLead posts a new lead and prepends the server-returned record.
func (s *CRMStore) CreateLead(ctx context.Context, lead models.Lead) (models.Lead, error) {
	raw, err := s.api.Post(ctx, "/crm/leads", lead)
	if err != nil {
		return models.Lead{}, err
	}
	created, err := api.DecodeItem[models.Lead](raw)
	if err != nil {
		return models.Lead{}, err
	}

	s.mu.Lock()
	if i := indexOf(s.leads, created.ID, leadID); i >= 0 {
		s.leads[i] = created
	} else {
		s.leads = append([]models.Lead{created}, s.leads...)
	}
	s.mu.Unlock()

	s.record(activity.VerbCreated, "lead", created.ID, created.Name)
	return created, nil
}

// UpdateLead puts the patch and replaces the matching element with the
// server-returned record.
func (s *CRMStore) UpdateLead(ctx context.Context, id string, patch models.Lead) (models.Lead, error) {
	raw, err := s.api.Put(ctx, "/crm/leads/"+id, patch)
	if err != nil {
		return models.Lead{}, err
	}
	updated, err := api.DecodeItem[models.Lead](raw)
	if err != nil {
		return models.Lead{}, err
	}

	s.mu.Lock()
	if i := indexOf(s.leads, id, leadID); i >= 0 {
		s.leads[i] = updated
	}
	s.mu.Unlock()

	s.record(activity.VerbUpdated, "lead", updated.ID, updated.Name)
	return updated, nil
}

// DeleteLead removes the lead; a matching selected reference becomes nil.
func (s *CRMStore) DeleteLead(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/crm/leads/"+id); err != nil {
		return err
	}

	s.mu.Lock()
	if i := indexOf(s.leads, id, leadID); i >= 0 {
		s.leads = removeAt(s.leads, i)
	}
	if s.selectedLeadID == id {
		s.selectedLeadID = ""
	}
	s.mu.Unlock()

	s.record(activity.VerbDeleted, "lead", id, "")
	return nil
}

// SelectLead marks the lead as selected. Returns false when the identifier
// is not in the collection.
func (s *CRMStore) SelectLead(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		s.selectedLeadID = ""
		return true
	}
	if indexOf(s.leads, id, leadID) < 0 {
		return false
	}
	s.selectedLeadID = id
	return true
}

// SelectedLead returns the selected lead, or nil when none is selected or
// the selected record has left the collection.
func (s *CRMStore) SelectedLead() *models.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.leads, s.selectedLeadID, leadID); s.selectedLeadID != "" && i >= 0 {
		lead := s.leads[i]
		return &lead
	}
	return nil
}

// --- Contacts ---

func (s *CRMStore) FetchContacts(ctx context.Context) error {
	s.mu.Lock()
	s.contactsStatus = Status{Loading: true}
	s.mu.Unlock()

	raw, err := s.api.Get(ctx, "/crm/contacts")
	var contacts []models.Contact
	if err == nil {
		contacts, err = api.DecodeList[models.Contact](raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.contactsStatus = Status{Error: err.Error()}
		if recovered, ok := recoverCollection[models.Contact](s.opts, snapshotContacts, fallbackContacts); ok {
			s.contacts = recovered
		}
		return err
	}

	s.contacts = contacts
	s.contactsStatus = Status{}
	saveSnapshot(s.opts.Cache, snapshotContacts, contacts)
	return nil
}

func (s *CRMStore) Contacts() []models.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Contact(nil), s.contacts...)
}

func (s *CRMStore) ContactsStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contactsStatus
}

// CreateContact posts a new contact and appends the server-returned record.
func (s *CRMStore) CreateContact(ctx context.Context, contact models.Contact) (models.Contact, error) {
	raw, err := s.api.Post(ctx, "/crm/contacts", contact)
	if err != nil {
		return models.Contact{}, err
	}
	created, err := api.DecodeItem[models.Contact](raw)
	if err != nil {
		return models.Contact{}, err
	}

	s.mu.Lock()
	if i := indexOf(s.contacts, created.ID, contactID); i >= 0 {
		s.contacts[i] = created
	} else {
		s.contacts = append(s.contacts, created)
	}
	s.mu.Unlock()

	s.record(activity.VerbCreated, "contact", created.ID, created.Name)
	return created, nil
}

func (s *CRMStore) UpdateContact(ctx context.Context, id string, patch models.Contact) (models.Contact, error) {
	raw, err := s.api.Put(ctx, "/crm/contacts/"+id, patch)
	if err != nil {
		return models.Contact{}, err
	}
	updated, err := api.DecodeItem[models.Contact](raw)
	if err != nil {
		return models.Contact{}, err
	}

	s.mu.Lock()
	if i := indexOf(s.contacts, id, contactID); i >= 0 {
		s.contacts[i] = updated
	}
	s.mu.Unlock()

	s.record(activity.VerbUpdated, "contact", updated.ID, updated.Name)
	return updated, nil
}

func (s *CRMStore) DeleteContact(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/crm/contacts/"+id); err != nil {
		return err
	}

	s.mu.Lock()
	if i := indexOf(s.contacts, id, contactID); i >= 0 {
		s.contacts = removeAt(s.contacts, i)
	}
	if s.selectedContactID == id {
		s.selectedContactID = ""
	}
	s.mu.Unlock()

	s.record(activity.VerbDeleted, "contact", id, "")
	return nil
}

func (s *CRMStore) SelectContact(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		s.selectedContactID = ""
		return true
	}
	if indexOf(s.contacts, id, contactID) < 0 {
		return false
	}
	s.selectedContactID = id
	return true
}

func (s *CRMStore) SelectedContact() *models.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.contacts, s.selectedContactID, contactID); s.selectedContactID != "" && i >= 0 {
		contact := s.contacts[i]
		return &contact
	}
	return nil
}

// --- Deals ---

func (s *CRMStore) FetchDeals(ctx context.Context) error {
	s.mu.Lock()
	s.dealsStatus = Status{Loading: true}
	s.mu.Unlock()

	raw, err := s.api.Get(ctx, "/crm/deals")
	var deals []models.Deal
	if err == nil {
		deals, err = api.DecodeList[models.Deal](raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.dealsStatus = Status{Error: err.Error()}
		if recovered, ok := recoverCollection[models.Deal](s.opts, snapshotDeals, fallbackDeals); ok {
			s.deals = recovered
		}
		return err
	}

	s.deals = deals
	s.dealsStatus = Status{}
	saveSnapshot(s.opts.Cache, snapshotDeals, deals)
	return nil
}

func (s *CRMStore) Deals() []models.Deal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Deal(nil), s.deals...)
}

func (s *CRMStore) DealsStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dealsStatus
}

// CreateDeal posts a new deal and appends the server-returned record.
func (s *CRMStore) CreateDeal(ctx context.Context, deal models.Deal) (models.Deal, error) {
	raw, err := s.api.Post(ctx, "/crm/deals", deal)
	if err != nil {
		return models.Deal{}, err
	}
	created, err := api.DecodeItem[models.Deal](raw)
	if err != nil {
		return models.Deal{}, err
	}

	s.mu.Lock()
	if i := indexOf(s.deals, created.ID, dealID); i >= 0 {
		s.deals[i] = created
	} else {
		s.deals = append(s.deals, created)
	}
	s.mu.Unlock()

	s.record(activity.VerbCreated, "deal", created.ID, created.Title)
	return created, nil
}

func (s *CRMStore) UpdateDeal(ctx context.Context, id string, patch models.Deal) (models.Deal, error) {
	raw, err := s.api.Put(ctx, "/crm/deals/"+id, patch)
	if err != nil {
		return models.Deal{}, err
	}
	updated, err := api.DecodeItem[models.Deal](raw)
	if err != nil {
		return models.Deal{}, err
	}

	s.mu.Lock()
	if i := indexOf(s.deals, id, dealID); i >= 0 {
		s.deals[i] = updated
	}
	s.mu.Unlock()

	s.record(activity.VerbUpdated, "deal", updated.ID, updated.Title)
	return updated, nil
}

// MoveDealStage advances a deal through the pipeline via the dedicated
// endpoint and replaces the local record with the server's version.
func (s *CRMStore) MoveDealStage(ctx context.Context, id, stage string) (models.Deal, error) {
	raw, err := s.api.Post(ctx, "/crm/deals/"+id+"/move-stage", map[string]string{"stage": stage})
	if err != nil {
		return models.Deal{}, err
	}
	moved, err := api.DecodeItem[models.Deal](raw)
	if err != nil {
		return models.Deal{}, err
	}

	s.mu.Lock()
	if i := indexOf(s.deals, id, dealID); i >= 0 {
		s.deals[i] = moved
	}
	s.mu.Unlock()

	s.record(activity.VerbUpdated, "deal", moved.ID, "stage → "+moved.Stage)
	return moved, nil
}

func (s *CRMStore) DeleteDeal(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/crm/deals/"+id); err != nil {
		return err
	}

	s.mu.Lock()
	if i := indexOf(s.deals, id, dealID); i >= 0 {
		s.deals = removeAt(s.deals, i)
	}
	if s.selectedDealID == id {
		s.selectedDealID = ""
	}
	s.mu.Unlock()

	s.record(activity.VerbDeleted, "deal", id, "")
	return nil
}

func (s *CRMStore) SelectDeal(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		s.selectedDealID = ""
		return true
	}
	if indexOf(s.deals, id, dealID) < 0 {
		return false
	}
	s.selectedDealID = id
	return true
}

func (s *CRMStore) SelectedDeal() *models.Deal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.deals, s.selectedDealID, dealID); s.selectedDealID != "" && i >= 0 {
		deal := s.deals[i]
		return &deal
	}
	return nil
}

// --- Communications ---

func (s *CRMStore) FetchCommunications(ctx context.Context) error {
	s.mu.Lock()
	s.commsStatus = Status{Loading: true}
	s.mu.Unlock()

	raw, err := s.api.Get(ctx, "/crm/communications")
	var comms []models.Communication
	if err == nil {
		comms, err = api.DecodeList[models.Communication](raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		// Communications have no demo fallback; cached data still applies.
		s.commsStatus = Status{Error: err.Error()}
		if recovered, ok := recoverCollection[models.Communication](s.opts, snapshotCommunications, nil); ok {
			s.communications = recovered
		}
		return err
	}

	s.communications = comms
	s.commsStatus = Status{}
	saveSnapshot(s.opts.Cache, snapshotCommunications, comms)
	return nil
}

func (s *CRMStore) Communications() []models.Communication {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Communication(nil), s.communications...)
}

func (s *CRMStore) CommunicationsStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commsStatus
}

// LogCommunication posts a touchpoint and prepends the server-returned
// record (communications render newest first).
func (s *CRMStore) LogCommunication(ctx context.Context, comm models.Communication) (models.Communication, error) {
	raw, err := s.api.Post(ctx, "/crm/communications", comm)
	if err != nil {
		return models.Communication{}, err
	}
	created, err := api.DecodeItem[models.Communication](raw)
	if err != nil {
		return models.Communication{}, err
	}

	s.mu.Lock()
	if i := indexOf(s.communications, created.ID, commID); i >= 0 {
		s.communications[i] = created
	} else {
		s.communications = append([]models.Communication{created}, s.communications...)
	}
	s.mu.Unlock()

	s.record(activity.VerbCreated, "communication", created.ID, created.Channel)
	return created, nil
}

func (s *CRMStore) DeleteCommunication(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/crm/communications/"+id); err != nil {
		return err
	}

	s.mu.Lock()
	if i := indexOf(s.communications, id, commID); i >= 0 {
		s.communications = removeAt(s.communications, i)
	}
	s.mu.Unlock()

	s.record(activity.VerbDeleted, "communication", id, "")
	return nil
}

// --- Realtime ---

// HandleRealtimeEvent applies a server event to the matching collection by
// identifier. Unknown entities and actions are skipped for forward
// compatibility; there is no ordering guarantee versus in-flight fetches, so
// the last write wins.
func (s *CRMStore) HandleRealtimeEvent(evt realtime.Event) {
	switch evt.Entity {
	case realtime.EntityLead:
		applyEvent(s, evt, &s.leads, leadID, true, &s.selectedLeadID)
	case realtime.EntityContact:
		applyEvent(s, evt, &s.contacts, contactID, false, &s.selectedContactID)
	case realtime.EntityDeal:
		applyEvent(s, evt, &s.deals, dealID, false, &s.selectedDealID)
	case realtime.EntityCommunication:
		applyEvent(s, evt, &s.communications, commID, true, nil)
	default:
		// Unknown entity: skip.
	}
}

// applyEvent decodes the event payload and inserts, replaces, or removes the
// matching element. prepend controls where created records land.
func applyEvent[T any](s *CRMStore, evt realtime.Event, collection *[]T, idOf func(T) string, prepend bool, selectedID *string) {
	switch evt.Action {
	case realtime.ActionCreated, realtime.ActionUpdated:
		var item T
		if err := json.Unmarshal(evt.Data, &item); err != nil {
			log.Printf("warning: skipping malformed %s %s event: %v", evt.Entity, evt.Action, err)
			return
		}
		id := idOf(item)
		if id == "" {
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if i := indexOf(*collection, id, idOf); i >= 0 {
			(*collection)[i] = item
			return
		}
		if evt.Action == realtime.ActionUpdated {
			// Update for a record we never fetched: ignore rather than
			// surface a partial collection member.
			return
		}
		if prepend {
			*collection = append([]T{item}, *collection...)
		} else {
			*collection = append(*collection, item)
		}

	case realtime.ActionDeleted:
		var ref struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(evt.Data, &ref); err != nil || ref.ID == "" {
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if i := indexOf(*collection, ref.ID, idOf); i >= 0 {
			*collection = removeAt(*collection, i)
		}
		if selectedID != nil && *selectedID == ref.ID {
			*selectedID = ""
		}

	default:
		// Unknown action: skip.
	}
}

func (s *CRMStore) record(verb activity.Verb, entity, id, summary string) {
	s.opts.Recorder.Record(verb, entity, id, summary)
}

func leadID(l models.Lead) string          { return l.ID }
func contactID(c models.Contact) string    { return c.ID }
func dealID(d models.Deal) string          { return d.ID }
func commID(c models.Communication) string { return c.ID }
