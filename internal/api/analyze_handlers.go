package api

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/reelwrapped/reelwrapped-server/internal/domain"
	apperrors "github.com/reelwrapped/reelwrapped-server/internal/errors"
	"github.com/reelwrapped/reelwrapped-server/internal/http/response"
	"github.com/reelwrapped/reelwrapped-server/internal/service"
)

func (s *Server) registerAnalyzeRoutes() {
	// Upload endpoint uses chi directly for multipart form handling.
	// Wrapped with an extended timeout for large export archives.
	s.router.Post("/api/v1/analyze", s.withExtendedTimeout(s.handleUploadExport, 5*time.Minute))

	huma.Register(s.api, huma.Operation{
		OperationID: "getAnalysisStatus",
		Method:      http.MethodGet,
		Path:        "/api/v1/analyze/{sessionId}/status",
		Summary:     "Get analysis progress",
		Description: "Returns the current progress of an analysis session",
		Tags:        []string{"Analysis"},
	}, s.handleGetStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "getAnalysisResult",
		Method:      http.MethodGet,
		Path:        "/api/v1/analyze/{sessionId}/result",
		Summary:     "Get analysis result",
		Description: "Returns the completed statistics and insights for a session",
		Tags:        []string{"Analysis"},
	}, s.handleGetResult)
}

// === DTOs ===

// UploadResponse is returned after accepting an export upload.
type UploadResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

// StatusInput identifies a session for status polling.
type StatusInput struct {
	SessionID string `path:"sessionId" doc:"Session ID returned by the upload"`
}

// StatusOutput wraps the progress record.
type StatusOutput struct {
	Body domain.ProgressRecord
}

// ResultInput identifies a session for result retrieval.
type ResultInput struct {
	SessionID string `path:"sessionId" doc:"Session ID returned by the upload"`
}

// ResultOutput wraps the completed analysis.
type ResultOutput struct {
	Body domain.AnalysisResult
}

// withExtendedTimeout wraps a handler to extend read/write deadlines for
// large uploads. Must run before any body reading occurs. Not every
// underlying writer supports deadlines; the request proceeds either way.
func (s *Server) withExtendedTimeout(next http.HandlerFunc, timeout time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := http.NewResponseController(w)
		if err := rc.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			s.logger.Debug("failed to extend read deadline", "error", err)
		}
		if err := rc.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
			s.logger.Debug("failed to extend write deadline", "error", err)
		}
		next(w, r)
	}
}

// handleUploadExport accepts the export ZIP as a multipart upload,
// stages it to disk, and starts the analysis in the background. This is
// a chi handler (not Huma) because Huma doesn't easily support multipart
// forms. The response carries the session ID for polling.
func (s *Server) handleUploadExport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.logger.Error("failed to get form file", "error", err)
		response.BadRequest(w, "missing or oversized file upload", s.logger)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.logger.Error("failed to read upload", "error", err)
		response.InternalError(w, "failed to read upload", s.logger)
		return
	}

	sessionID := service.SessionID(data)

	if err := os.MkdirAll(s.config.UploadDir, 0o750); err != nil {
		s.logger.Error("failed to create upload dir", "error", err)
		response.InternalError(w, "failed to stage upload", s.logger)
		return
	}
	stagedPath := filepath.Join(s.config.UploadDir, uuid.NewString()+".zip")
	if err := os.WriteFile(stagedPath, data, 0o640); err != nil {
		s.logger.Error("failed to stage upload", "error", err, "path", stagedPath)
		response.InternalError(w, "failed to stage upload", s.logger)
		return
	}

	s.logger.Info("export uploaded",
		"session_id", sessionID,
		"original_filename", header.Filename,
		"bytes", len(data))

	// Run the analysis on a background context; the request context dies
	// as soon as the 202 is written.
	go func() {
		defer os.Remove(stagedPath)
		if err := s.analysisService.Analyze(context.Background(), sessionID, stagedPath); err != nil {
			s.logger.Error("analysis failed", "session_id", sessionID, "error", err)
		}
	}()

	response.Accepted(w, UploadResponse{
		SessionID: sessionID,
		Status:    domain.StatusRunning,
	}, s.logger)
}

// handleGetStatus returns the live session state when the analysis is
// still tracked in memory, falling back to the store so finished or
// restarted sessions stay pollable.
func (s *Server) handleGetStatus(_ context.Context, input *StatusInput) (*StatusOutput, error) {
	if session := s.analysisService.Tracker().Get(input.SessionID); session != nil {
		return &StatusOutput{Body: session.Snapshot()}, nil
	}

	record, err := s.store.GetProgress(input.SessionID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, huma.Error404NotFound("unknown session: " + input.SessionID)
		}
		s.logger.Error("progress read failed", "session_id", input.SessionID, "error", err)
		return nil, huma.Error500InternalServerError("failed to load session state")
	}
	return &StatusOutput{Body: *record}, nil
}

func (s *Server) handleGetResult(_ context.Context, input *ResultInput) (*ResultOutput, error) {
	result, err := s.store.GetResult(input.SessionID)
	if err == nil {
		return &ResultOutput{Body: *result}, nil
	}
	if !apperrors.Is(err, apperrors.ErrNotFound) {
		s.logger.Error("result read failed", "session_id", input.SessionID, "error", err)
		return nil, huma.Error500InternalServerError("failed to load analysis result")
	}

	// No result yet. Distinguish "still running" from "never heard of it".
	if session := s.analysisService.Tracker().Get(input.SessionID); session != nil {
		record := session.Snapshot()
		if record.Status == domain.StatusRunning {
			return nil, huma.Error409Conflict("analysis still running")
		}
		if record.Status == domain.StatusFailed {
			return nil, huma.Error409Conflict("analysis failed: " + record.Error)
		}
	}
	return nil, huma.Error404NotFound("no result for session: " + input.SessionID)
}
