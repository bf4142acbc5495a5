package host

import (
	"context"
	"log/slog"

	"github.com/foxseedlab/rokuon/internal/repository"
	"github.com/foxseedlab/rokuon/internal/uisurface"
)

// HandleCommand runs one UI command.
func (m *Manager) HandleCommand(ctx context.Context, cmd uisurface.Command) {
	slog.Debug("ui command received", "command", cmd.CommandName())
	switch c := cmd.(type) {
	case uisurface.StartRecording:
		detected, ok := m.store.DetectedMeeting()
		if !ok {
			m.notifyInfo(ctx, messageNoMeetingInProgress, "")
			return
		}
		m.startRecording(ctx, detected.WindowHandle)
	case uisurface.StopRecording:
		m.stopRecording(ctx)
	case uisurface.Reupload:
		m.reupload(ctx, c.ID)
	case uisurface.OpenRecordingFolder:
		if err := m.folder.Open(ctx, m.cfg.RecordingsDir); err != nil {
			slog.Warn("failed to open recordings folder", "dir", m.cfg.RecordingsDir, "error", err)
		}
	default:
		slog.Warn("unhandled ui command", "command", cmd.CommandName())
	}
}

func (m *Manager) acceptAlert(ctx context.Context, windowHandle string) {
	detected, ok := m.store.DetectedMeeting()
	if !ok || detected.WindowHandle != windowHandle {
		slog.Info("meeting alert accepted for a meeting that is no longer detected", "window_handle", windowHandle)
		m.notifyInfo(ctx, messageNoMeetingInProgress, "")
		return
	}
	m.startRecording(ctx, windowHandle)
}

// startRecording fetches an upload token off the loop. The result comes back
// as a tokenResult input.
func (m *Manager) startRecording(ctx context.Context, windowHandle string) {
	slog.Info("requesting upload token", "window_handle", windowHandle)
	go func() {
		token, err := m.tokens.CreateUploadToken(ctx)
		m.enqueue(tokenResult{windowHandle: windowHandle, token: token, err: err})
	}()
}

func (m *Manager) finishStartRecording(ctx context.Context, r tokenResult) {
	if r.err != nil {
		slog.Error("failed to get upload token", "window_handle", r.windowHandle, "error", r.err)
		m.notifyError(ctx, titleRecordingError, startRecordingErrorBody(r.err))
		return
	}
	detected, ok := m.store.DetectedMeeting()
	if !ok || detected.WindowHandle != r.windowHandle {
		slog.Info("discarding upload token; meeting is no longer detected", "window_handle", r.windowHandle)
		return
	}
	if err := m.engine.StartRecording(ctx, r.windowHandle, r.token); err != nil {
		slog.Error("engine rejected start recording", "window_handle", r.windowHandle, "error", err)
		m.notifyError(ctx, titleRecordingError, startRecordingErrorBody(err))
		return
	}
	slog.Info("start recording sent", "window_handle", r.windowHandle)
}

func (m *Manager) stopRecording(ctx context.Context) {
	detected, ok := m.store.DetectedMeeting()
	if !ok {
		m.notifyInfo(ctx, messageNoMeetingInProgress, "")
		return
	}
	if err := m.engine.StopRecording(ctx, detected.WindowHandle); err != nil {
		slog.Error("engine rejected stop recording", "window_handle", detected.WindowHandle, "error", err)
		m.notifyError(ctx, titleRecordingError, stopRecordingErrorBody(err))
		return
	}
	slog.Info("stop recording sent", "window_handle", detected.WindowHandle)
}

func (m *Manager) reupload(ctx context.Context, id string) {
	rec, ok := m.store.Meeting(id)
	if !ok {
		slog.Warn("reupload requested for unknown recording", "recording_id", id)
		return
	}
	if err := m.store.ResetMeetingForRetry(id); err != nil {
		slog.Warn("failed to reset recording", "recording_id", id, "error", err)
		return
	}
	slog.Info("reuploading recording", "recording_id", id, "previous_status", rec.Status)
	m.broadcast()
	m.journal.record(id, repository.RecordingEventRetried, rec.Title, string(rec.Status), m.now())

	if err := m.engine.UploadRecording(ctx, id); err != nil {
		m.failRecording(ctx, id, err.Error())
	}
}
