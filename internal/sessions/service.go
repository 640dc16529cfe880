package sessions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"mealplan-backend/internal/compliance"
	"mealplan-backend/internal/mealplan"
	"mealplan-backend/internal/shared/storage/object"
	"mealplan-backend/internal/shared/telemetry"
	"mealplan-backend/internal/workbook"
)

// DefaultTTL is used when Service.TTL is zero.
const DefaultTTL = 12 * time.Hour

// Service contains session lifecycle and pipeline orchestration.
type Service struct {
	Repo     Repo
	Pipeline *mealplan.Pipeline
	// Store, when set, receives deletes for a session's export artifacts.
	Store object.ObjectStore
	TTL   time.Duration
	Now   func() time.Time

	// mu serializes read-modify-write cycles on stored sessions.
	mu sync.Mutex
}

// Create starts a new, empty session and purges expired ones.
func (s *Service) Create(ctx context.Context) (Session, error) {
	now := s.now()
	if n, err := s.Repo.PurgeExpired(ctx, now); err != nil {
		telemetry.Warn("sessions.purge_failed", map[string]any{"error": err.Error()})
	} else if n > 0 {
		telemetry.Info("sessions.purged", map[string]any{"count": n})
	}

	sess := Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.ttl()),
	}
	if err := s.Repo.Create(ctx, sess); err != nil {
		return Session{}, err
	}
	telemetry.Info("sessions.created", map[string]any{"session_id": sess.ID, "expires_at": sess.ExpiresAt})
	return sess, nil
}

// Get returns a live session. Expired sessions are removed and reported as
// not found.
func (s *Service) Get(ctx context.Context, id string) (Session, error) {
	id = strings.TrimSpace(id)
	if _, err := uuid.Parse(id); err != nil {
		return Session{}, fmt.Errorf("%w: session id", ErrInvalidInput)
	}
	sess, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if sess.Expired(s.now()) {
		s.remove(ctx, sess)
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// Delete removes a session and its export artifacts.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.remove(ctx, sess)
}

// LoadMenu replaces the session's menu catalog and returns its row count.
func (s *Service) LoadMenu(ctx context.Context, id string, r io.Reader) (int, error) {
	menu, err := workbook.ReadMenu(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	err = s.update(ctx, id, func(sess *Session) error {
		sess.Data.Menu = menu
		return nil
	})
	return len(menu), err
}

// LoadResidents replaces the session's resident table and returns its row count.
func (s *Service) LoadResidents(ctx context.Context, id string, r io.Reader) (int, error) {
	list, err := workbook.ReadResidents(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	err = s.update(ctx, id, func(sess *Session) error {
		sess.Data.Residents = list
		return nil
	})
	return len(list), err
}

// LoadStandards replaces the session's nutrient standard table and returns
// the number of disease sets it covers.
func (s *Service) LoadStandards(ctx context.Context, id string, r io.Reader) (int, error) {
	table, err := workbook.ReadStandards(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	err = s.update(ctx, id, func(sess *Session) error {
		sess.Data.Standards = table
		return nil
	})
	return len(table), err
}

// Run executes the pipeline over the session tables and stores the result.
func (s *Service) Run(ctx context.Context, id string) (mealplan.Result, error) {
	var res mealplan.Result
	err := s.modify(ctx, id, func(sess *Session) error {
		if err := s.run(sess); err != nil {
			return err
		}
		res = *sess.Data.Result
		return nil
	})
	if err != nil {
		return mealplan.Result{}, err
	}
	return res, nil
}

// Result returns the session with a pipeline result, running the pipeline
// first when the tables changed since the last run.
func (s *Service) Result(ctx context.Context, id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if sess.Data.Result != nil {
		return sess, nil
	}
	if err := s.run(&sess); err != nil {
		return Session{}, err
	}
	sess.UpdatedAt = s.now()
	if err := s.Repo.Save(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Search looks up plans by resident identifiers given as free text. Blank
// input returns every plan.
func (s *Service) Search(ctx context.Context, id, rawIDs string) (mealplan.SearchResult, error) {
	sess, err := s.Result(ctx, id)
	if err != nil {
		return mealplan.SearchResult{}, err
	}
	res := *sess.Data.Result
	ids := mealplan.SplitIDs(rawIDs)
	if len(ids) == 0 {
		return mealplan.SearchResult{Plans: res.Plans, NotFound: []string{}}, nil
	}
	out := res.Search(ids)
	if len(out.NotFound) > 0 {
		telemetry.Warn("mealplan.search_not_found", map[string]any{
			"session_id": id,
			"not_found":  out.NotFound,
		})
	}
	return out, nil
}

// AddExport records a generated artifact on the session.
func (s *Service) AddExport(ctx context.Context, id string, e Export) error {
	return s.modify(ctx, id, func(sess *Session) error {
		sess.Data.Exports = append(sess.Data.Exports, e)
		return nil
	})
}

// update applies an input-table change and drops the stale result.
func (s *Service) update(ctx context.Context, id string, fn func(*Session) error) error {
	return s.modify(ctx, id, func(sess *Session) error {
		if err := fn(sess); err != nil {
			return err
		}
		sess.Data.Result = nil
		return nil
	})
}

func (s *Service) modify(ctx context.Context, id string, fn func(*Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(&sess); err != nil {
		return err
	}
	sess.UpdatedAt = s.now()
	return s.Repo.Save(ctx, sess)
}

func (s *Service) run(sess *Session) error {
	if !sess.Ready() {
		return fmt.Errorf("%w: menu and resident tables are required", ErrPrecondition)
	}
	p := s.Pipeline
	if p == nil {
		p = mealplan.NewPipeline(nil)
	}
	res := p.Run(sess.Input())
	sess.Data.Result = &res
	return nil
}

func (s *Service) remove(ctx context.Context, sess Session) error {
	if s.Store != nil {
		for _, e := range sess.Data.Exports {
			if err := s.Store.Delete(ctx, e.StorageKey); err != nil {
				telemetry.Warn("sessions.export_delete_failed", map[string]any{
					"session_id": sess.ID,
					"export_id":  e.ID,
					"error":      err.Error(),
				})
			}
		}
	}
	if err := s.Repo.Delete(ctx, sess.ID); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	telemetry.Info("sessions.deleted", map[string]any{"session_id": sess.ID})
	return nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultTTL
}

// Summary is the outward view of a session.
type Summary struct {
	SessionID    string            `json:"sessionId"`
	CreatedAt    time.Time         `json:"createdAt"`
	ExpiresAt    time.Time         `json:"expiresAt"`
	MenuRows     int               `json:"menuRows"`
	ResidentRows int               `json:"residentRows"`
	StandardKeys []string          `json:"standardKeys"`
	Ready        bool              `json:"ready"`
	LastRun      *mealplan.Summary `json:"lastRun,omitempty"`
	Exports      int               `json:"exports"`
}

// Describe summarizes a session without its table contents.
func Describe(sess Session) Summary {
	out := Summary{
		SessionID:    sess.ID,
		CreatedAt:    sess.CreatedAt,
		ExpiresAt:    sess.ExpiresAt,
		MenuRows:     len(sess.Data.Menu),
		ResidentRows: len(sess.Data.Residents),
		StandardKeys: standardKeys(sess.Data.Standards),
		Ready:        sess.Ready(),
		Exports:      len(sess.Data.Exports),
	}
	if sess.Data.Result != nil {
		summary := sess.Data.Result.Summary
		out.LastRun = &summary
	}
	return out
}

func standardKeys(t compliance.Table) []string {
	if len(t) == 0 {
		return []string{}
	}
	return t.Keys()
}
