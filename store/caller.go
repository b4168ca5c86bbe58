// ABOUTME: Caller store for AI-assisted calls, provider voices, and call scripts
// ABOUTME: Tracks the current call; a started call becomes current, an ended one stays in the log
package store

import (
	"context"
	"sync"

	"salespad/activity"
	"salespad/api"
	"salespad/models"
)

const (
	snapshotCalls   = "ai_calls"
	snapshotVoices  = "voices"
	snapshotScripts = "call_scripts"
)

// CallerStore caches the conversational-AI calling collections.
type CallerStore struct {
	mu   sync.RWMutex
	api  *api.Client
	opts Options

	calls   []models.AICall
	voices  []models.Voice
	scripts []models.CallScript

	currentCallID string

	callsStatus   Status
	voicesStatus  Status
	scriptsStatus Status
}

func NewCallerStore(client *api.Client, opts Options) *CallerStore {
	return &CallerStore{api: client, opts: opts}
}

// --- Calls ---

func (s *CallerStore) FetchCalls(ctx context.Context) error {
	s.mu.Lock()
	s.callsStatus = Status{Loading: true}
	s.mu.Unlock()

	raw, err := s.api.Get(ctx, "/sales/conversational-ai/calls")
	var calls []models.AICall
	if err == nil {
		calls, err = api.DecodeList[models.AICall](raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.callsStatus = Status{Error: err.Error()}
		if recovered, ok := recoverCollection[models.AICall](s.opts, snapshotCalls, nil); ok {
			s.calls = recovered
		}
		return err
	}

	s.calls = calls
	s.callsStatus = Status{}
	saveSnapshot(s.opts.Cache, snapshotCalls, calls)
	return nil
}

func (s *CallerStore) Calls() []models.AICall {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.AICall(nil), s.calls...)
}

func (s *CallerStore) CallsStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.callsStatus
}

// StartCall queues a new AI call. The server-returned call is prepended and
// becomes the current call.
func (s *CallerStore) StartCall(ctx context.Context, call models.AICall) (models.AICall, error) {
	raw, err := s.api.Post(ctx, "/sales/conversational-ai/calls", call)
	if err != nil {
		return models.AICall{}, err
	}
	started, err := api.DecodeItem[models.AICall](raw)
	if err != nil {
		return models.AICall{}, err
	}

	s.mu.Lock()
	if i := indexOf(s.calls, started.ID, callID); i >= 0 {
		s.calls[i] = started
	} else {
		s.calls = append([]models.AICall{started}, s.calls...)
	}
	s.currentCallID = started.ID
	s.mu.Unlock()

	s.opts.Recorder.Record(activity.VerbCreated, "ai_call", started.ID, started.Phone)
	return started, nil
}

// EndCall terminates the call on the server and replaces the local record.
// Ending the current call clears the current reference.
func (s *CallerStore) EndCall(ctx context.Context, id string) (models.AICall, error) {
	raw, err := s.api.Post(ctx, "/sales/conversational-ai/calls/"+id+"/end", nil)
	if err != nil {
		return models.AICall{}, err
	}
	ended, err := api.DecodeItem[models.AICall](raw)
	if err != nil {
		return models.AICall{}, err
	}

	s.mu.Lock()
	if i := indexOf(s.calls, id, callID); i >= 0 {
		s.calls[i] = ended
	}
	if s.currentCallID == id {
		s.currentCallID = ""
	}
	s.mu.Unlock()

	s.opts.Recorder.Record(activity.VerbUpdated, "ai_call", ended.ID, "ended")
	return ended, nil
}

// CurrentCall returns the in-progress call, or nil.
func (s *CallerStore) CurrentCall() *models.AICall {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.calls, s.currentCallID, callID); s.currentCallID != "" && i >= 0 {
		call := s.calls[i]
		return &call
	}
	return nil
}

// --- Voices ---

// FetchVoices loads the provider voice catalog. Voices fall back to the demo
// catalog so the call form stays usable offline.
func (s *CallerStore) FetchVoices(ctx context.Context) error {
	s.mu.Lock()
	s.voicesStatus = Status{Loading: true}
	s.mu.Unlock()

	raw, err := s.api.Get(ctx, "/sales/elevenlabs/voices")
	var voices []models.Voice
	if err == nil {
		voices, err = api.DecodeList[models.Voice](raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.voicesStatus = Status{Error: err.Error()}
		if recovered, ok := recoverCollection[models.Voice](s.opts, snapshotVoices, fallbackVoices); ok {
			s.voices = recovered
		}
		return err
	}

	s.voices = voices
	s.voicesStatus = Status{}
	saveSnapshot(s.opts.Cache, snapshotVoices, voices)
	return nil
}

func (s *CallerStore) Voices() []models.Voice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Voice(nil), s.voices...)
}

func (s *CallerStore) VoicesStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.voicesStatus
}

// --- Call scripts ---

func (s *CallerStore) FetchScripts(ctx context.Context) error {
	s.mu.Lock()
	s.scriptsStatus = Status{Loading: true}
	s.mu.Unlock()

	raw, err := s.api.Get(ctx, "/sales/call-scripts")
	var scripts []models.CallScript
	if err == nil {
		scripts, err = api.DecodeList[models.CallScript](raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.scriptsStatus = Status{Error: err.Error()}
		if recovered, ok := recoverCollection[models.CallScript](s.opts, snapshotScripts, nil); ok {
			s.scripts = recovered
		}
		return err
	}

	s.scripts = scripts
	s.scriptsStatus = Status{}
	saveSnapshot(s.opts.Cache, snapshotScripts, scripts)
	return nil
}

func (s *CallerStore) Scripts() []models.CallScript {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CallScript(nil), s.scripts...)
}

func (s *CallerStore) ScriptsStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scriptsStatus
}

func (s *CallerStore) CreateScript(ctx context.Context, script models.CallScript) (models.CallScript, error) {
	raw, err := s.api.Post(ctx, "/sales/call-scripts", script)
	if err != nil {
		return models.CallScript{}, err
	}
	created, err := api.DecodeItem[models.CallScript](raw)
	if err != nil {
		return models.CallScript{}, err
	}

	s.mu.Lock()
	if i := indexOf(s.scripts, created.ID, scriptID); i >= 0 {
		s.scripts[i] = created
	} else {
		s.scripts = append(s.scripts, created)
	}
	s.mu.Unlock()

	s.opts.Recorder.Record(activity.VerbCreated, "call_script", created.ID, created.Name)
	return created, nil
}

func (s *CallerStore) UpdateScript(ctx context.Context, id string, patch models.CallScript) (models.CallScript, error) {
	raw, err := s.api.Put(ctx, "/sales/call-scripts/"+id, patch)
	if err != nil {
		return models.CallScript{}, err
	}
	updated, err := api.DecodeItem[models.CallScript](raw)
	if err != nil {
		return models.CallScript{}, err
	}

	s.mu.Lock()
	if i := indexOf(s.scripts, id, scriptID); i >= 0 {
		s.scripts[i] = updated
	}
	s.mu.Unlock()

	s.opts.Recorder.Record(activity.VerbUpdated, "call_script", updated.ID, updated.Name)
	return updated, nil
}

func (s *CallerStore) DeleteScript(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, "/sales/call-scripts/"+id); err != nil {
		return err
	}

	s.mu.Lock()
	if i := indexOf(s.scripts, id, scriptID); i >= 0 {
		s.scripts = removeAt(s.scripts, i)
	}
	s.mu.Unlock()

	s.opts.Recorder.Record(activity.VerbDeleted, "call_script", id, "")
	return nil
}

func callID(c models.AICall) string       { return c.ID }
func scriptID(c models.CallScript) string { return c.ID }
