package exports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"mealplan-backend/internal/sessions"
	"mealplan-backend/internal/shared/storage/object"
	"mealplan-backend/internal/shared/telemetry"
	"mealplan-backend/internal/workbook"
)

// ContentType is the media type of generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var ErrNotFound = errors.New("export not found")

// Service generates plan workbooks and stores them as session artifacts.
type Service struct {
	Store    object.ObjectStore
	Sessions *sessions.Service
	Now      func() time.Time
}

// Create writes the session's current plans to a workbook, running the
// pipeline first when needed. The compliance sheet is included only when a
// standard table was uploaded.
func (s *Service) Create(ctx context.Context, sessionID string) (sessions.Export, error) {
	sess, err := s.Sessions.Result(ctx, sessionID)
	if err != nil {
		return sessions.Export{}, err
	}

	var buf bytes.Buffer
	opts := workbook.Options{IncludeCompliance: len(sess.Data.Standards) > 0}
	if err := workbook.Write(&buf, *sess.Data.Result, opts); err != nil {
		return sessions.Export{}, fmt.Errorf("write workbook: %w", err)
	}

	now := s.now()
	fileName := FileName(now)
	obj, err := s.Store.Save(ctx, sessionID, fileName, ContentType, &buf)
	if err != nil {
		return sessions.Export{}, fmt.Errorf("store workbook: %w", err)
	}

	exp := sessions.Export{
		ID:          uuid.NewString(),
		FileName:    fileName,
		ContentType: obj.ContentType,
		SizeBytes:   obj.SizeBytes,
		StorageKey:  obj.Key,
		CreatedAt:   now,
	}
	if err := s.Sessions.AddExport(ctx, sessionID, exp); err != nil {
		if derr := s.Store.Delete(ctx, obj.Key); derr != nil {
			telemetry.Warn("exports.cleanup_failed", map[string]any{
				"session_id":  sessionID,
				"storage_key": obj.Key,
				"error":       derr.Error(),
			})
		}
		return sessions.Export{}, err
	}

	telemetry.Info("exports.created", map[string]any{
		"session_id": sessionID,
		"export_id":  exp.ID,
		"size_bytes": exp.SizeBytes,
		"plans":      len(sess.Data.Result.Plans),
	})
	return exp, nil
}

// List returns the session's exports, oldest first.
func (s *Service) List(ctx context.Context, sessionID string) ([]sessions.Export, error) {
	sess, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Data.Exports == nil {
		return []sessions.Export{}, nil
	}
	return sess.Data.Exports, nil
}

// Open returns an export and a reader over its stored bytes.
func (s *Service) Open(ctx context.Context, sessionID, exportID string) (sessions.Export, io.ReadCloser, error) {
	sess, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return sessions.Export{}, nil, err
	}
	exp, ok := sess.FindExport(exportID)
	if !ok {
		return sessions.Export{}, nil, ErrNotFound
	}
	rc, err := s.Store.Open(ctx, exp.StorageKey)
	if err != nil {
		return sessions.Export{}, nil, fmt.Errorf("open export %s: %w", exp.ID, err)
	}
	return exp, rc, nil
}

// FileName is the download name for a workbook generated at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("맞춤_식단_%s.xlsx", t.Format("20060102_150405"))
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
