package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/antonyforte/yuanshao-bot/internal/docstore"
	"github.com/antonyforte/yuanshao-bot/internal/ledger"
	"github.com/antonyforte/yuanshao-bot/internal/team"
)

const (
	registrantsDoc = "inscritos"
	missionsDoc    = "missoes"
)

// Repository reads and writes the bot's documents.
//
// Every read-modify-write runs under a mutex keyed by document name, so two
// updates of the same document are applied one after the other while updates
// of different documents proceed independently.
type Repository struct {
	store docstore.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRepository creates a repository on top of a document store
func NewRepository(store docstore.Store) *Repository {
	return &Repository{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

// Close closes the underlying document store
func (r *Repository) Close() error {
	return r.store.Close()
}

func (r *Repository) lock(doc string) func() {
	r.mu.Lock()
	l, ok := r.locks[doc]
	if !ok {
		l = &sync.Mutex{}
		r.locks[doc] = l
	}
	r.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// load decodes a document into v. It reports false when the document does not exist.
func (r *Repository) load(ctx context.Context, doc string, v any) (bool, error) {
	data, err := r.store.Read(ctx, doc)
	if errors.Is(err, docstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, &PersistenceError{Op: "read", Doc: doc, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, &PersistenceError{Op: "decode", Doc: doc, Err: err}
	}
	return true, nil
}

func (r *Repository) save(ctx context.Context, doc string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &PersistenceError{Op: "encode", Doc: doc, Err: err}
	}
	if err := r.store.Write(ctx, doc, data); err != nil {
		return &PersistenceError{Op: "write", Doc: doc, Err: err}
	}
	return nil
}

// Team ledger operations

// EnsureTeams creates a fresh ledger for every team that has none yet
func (r *Repository) EnsureTeams(ctx context.Context, teams []team.ID) error {
	for _, t := range teams {
		if err := r.ensureTeam(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) ensureTeam(ctx context.Context, t team.ID) error {
	doc := t.LedgerDoc()
	defer r.lock(doc)()

	var existing ledger.Ledger
	found, err := r.load(ctx, doc, &existing)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	if err := r.save(ctx, doc, ledger.New()); err != nil {
		return err
	}
	slog.Info("Created team ledger", "team", t)
	return nil
}

// Ledger loads a team's ledger
func (r *Repository) Ledger(ctx context.Context, t team.ID) (ledger.Ledger, error) {
	var l ledger.Ledger
	found, err := r.load(ctx, t.LedgerDoc(), &l)
	if err != nil {
		return ledger.Ledger{}, err
	}
	if !found {
		return ledger.Ledger{}, &PersistenceError{Op: "read", Doc: t.LedgerDoc(), Err: docstore.ErrNotFound}
	}
	l.Normalize()
	return l, nil
}

// UpdateLedger applies fn to a team's ledger and persists the result.
// Nothing is written when fn returns an error.
func (r *Repository) UpdateLedger(ctx context.Context, t team.ID, fn func(*ledger.Ledger) error) (ledger.Ledger, error) {
	defer r.lock(t.LedgerDoc())()

	l, err := r.Ledger(ctx, t)
	if err != nil {
		return ledger.Ledger{}, err
	}
	if err := fn(&l); err != nil {
		return ledger.Ledger{}, err
	}
	if err := r.save(ctx, t.LedgerDoc(), l); err != nil {
		return ledger.Ledger{}, err
	}
	return l, nil
}

// Registrant operations

// Registrants returns everyone who registered, in registration order
func (r *Repository) Registrants(ctx context.Context) ([]Registrant, error) {
	var list []Registrant
	if _, err := r.load(ctx, registrantsDoc, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// IsRegistered reports whether a handle is in the registrant list
func (r *Repository) IsRegistered(ctx context.Context, handle string) (bool, error) {
	list, err := r.Registrants(ctx)
	if err != nil {
		return false, err
	}
	for _, reg := range list {
		if reg.Handle == handle {
			return true, nil
		}
	}
	return false, nil
}

// Register appends a new registrant. The id is the list length plus one.
func (r *Repository) Register(ctx context.Context, displayName, handle string) (Registrant, error) {
	defer r.lock(registrantsDoc)()

	list, err := r.Registrants(ctx)
	if err != nil {
		return Registrant{}, err
	}
	for _, reg := range list {
		if reg.Handle == handle {
			return reg, ErrAlreadyRegistered
		}
	}

	reg := Registrant{
		ID:          len(list) + 1,
		DisplayName: displayName,
		Handle:      handle,
	}
	if err := r.save(ctx, registrantsDoc, append(list, reg)); err != nil {
		return Registrant{}, err
	}
	return reg, nil
}

// Decree operations

// Missions returns the decree document, creating it empty if absent
func (r *Repository) Missions(ctx context.Context) ([]Mission, error) {
	defer r.lock(missionsDoc)()

	var missions []Mission
	found, err := r.load(ctx, missionsDoc, &missions)
	if err != nil {
		return nil, err
	}
	if !found {
		missions = []Mission{}
		if err := r.save(ctx, missionsDoc, missions); err != nil {
			return nil, err
		}
	}
	return missions, nil
}

// Decree returns the text of the current decree, or "" when there is none
func (r *Repository) Decree(ctx context.Context) (string, error) {
	missions, err := r.Missions(ctx)
	if err != nil {
		return "", err
	}
	if len(missions) == 0 {
		return "", nil
	}
	return missions[0].Text, nil
}

// PeekDecree returns the text of the current decree without creating the
// missions document; a missing document reads as ""
func (r *Repository) PeekDecree(ctx context.Context) (string, error) {
	defer r.lock(missionsDoc)()

	var missions []Mission
	if _, err := r.load(ctx, missionsDoc, &missions); err != nil {
		return "", err
	}
	if len(missions) == 0 {
		return "", nil
	}
	return missions[0].Text, nil
}

// Submission operations

// Submissions returns a team's submission log
func (r *Repository) Submissions(ctx context.Context, t team.ID) ([]Submission, error) {
	var list []Submission
	if _, err := r.load(ctx, t.SubmissionsDoc(), &list); err != nil {
		return nil, err
	}
	return list, nil
}

// AppendSubmission adds a submission to its team's log. A submission whose
// ID is already logged is skipped, so a retried finalize does not duplicate it.
func (r *Repository) AppendSubmission(ctx context.Context, s Submission) error {
	if _, err := team.Parse(string(s.Team)); err != nil {
		return fmt.Errorf("append submission: %w", err)
	}
	doc := s.Team.SubmissionsDoc()
	defer r.lock(doc)()

	list, err := r.Submissions(ctx, s.Team)
	if err != nil {
		return err
	}
	if s.ID != "" {
		for _, existing := range list {
			if existing.ID == s.ID {
				slog.Info("Submission already logged", "id", s.ID, "team", s.Team)
				return nil
			}
		}
	}
	if s.Images == nil {
		s.Images = []string{}
	}
	if s.Texts == nil {
		s.Texts = []string{}
	}

	return r.save(ctx, doc, append(list, s))
}
