package lifecycle

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrMeetingNotFound  = errors.New("meeting not found")
	ErrDuplicateMeeting = errors.New("meeting already recorded")
)

// Store owns the process-wide lifecycle state.
//
// Store is not safe for concurrent use. A single goroutine (the host dispatch
// loop) is the only writer and reader; everything else receives copies from
// Snapshot.
type Store struct {
	recording          bool
	permissionsGranted bool
	meetings           []Recording
	index              map[string]int
	detected           *DetectedMeeting
}

func NewStore() *Store {
	return &Store{
		meetings: make([]Recording, 0),
		index:    make(map[string]int),
	}
}

// SetRecording reports whether the flag changed.
func (s *Store) SetRecording(recording bool) bool {
	if s.recording == recording {
		return false
	}
	s.recording = recording
	return true
}

// SetPermissionsGranted flips the permission flag to true. It returns false
// when permissions were already granted.
func (s *Store) SetPermissionsGranted() bool {
	if s.permissionsGranted {
		return false
	}
	s.permissionsGranted = true
	return true
}

// AppendMeeting adds a new in-progress record at 0%. A failed record with the
// same id is reopened in place instead, keeping its position; any other
// existing record makes the call fail with ErrDuplicateMeeting.
func (s *Store) AppendMeeting(r Recording) error {
	if r.ID == "" {
		return fmt.Errorf("append meeting: empty id")
	}
	r.Status = StatusInProgress
	r.UploadPercentage = 0
	if i, ok := s.index[r.ID]; ok {
		if s.meetings[i].Status != StatusFailed {
			return fmt.Errorf("append meeting %s: %w", r.ID, ErrDuplicateMeeting)
		}
		s.meetings[i] = r
		return nil
	}
	s.index[r.ID] = len(s.meetings)
	s.meetings = append(s.meetings, r)
	return nil
}

// ProgressUpdate describes the effect of UpdateMeetingProgress.
type ProgressUpdate struct {
	Changed   bool
	Completed bool
}

// UpdateMeetingProgress records upload progress. Values are clamped to
// 0..100 and never move backwards; 100 completes the record. Completed and
// failed records are left untouched until ResetMeetingForRetry.
func (s *Store) UpdateMeetingProgress(id string, percentage int) (ProgressUpdate, error) {
	i, ok := s.index[id]
	if !ok {
		return ProgressUpdate{}, fmt.Errorf("update progress %s: %w", id, ErrMeetingNotFound)
	}
	m := &s.meetings[i]
	if m.terminal() {
		return ProgressUpdate{}, nil
	}
	percentage = clampPercentage(percentage)
	if percentage <= m.UploadPercentage && percentage < 100 {
		return ProgressUpdate{}, nil
	}
	m.UploadPercentage = percentage
	if percentage == 100 {
		m.Status = StatusCompleted
		return ProgressUpdate{Changed: true, Completed: true}, nil
	}
	return ProgressUpdate{Changed: true}, nil
}

// MarkMeetingFailed reports whether the record transitioned to failed.
// Completed records stay completed.
func (s *Store) MarkMeetingFailed(id string) (bool, error) {
	i, ok := s.index[id]
	if !ok {
		return false, fmt.Errorf("mark failed %s: %w", id, ErrMeetingNotFound)
	}
	m := &s.meetings[i]
	if m.Status != StatusInProgress {
		return false, nil
	}
	m.Status = StatusFailed
	return true, nil
}

func (s *Store) ResetMeetingForRetry(id string) error {
	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("reset meeting %s: %w", id, ErrMeetingNotFound)
	}
	s.meetings[i].Status = StatusInProgress
	s.meetings[i].UploadPercentage = 0
	return nil
}

func (s *Store) Meeting(id string) (Recording, bool) {
	i, ok := s.index[id]
	if !ok {
		return Recording{}, false
	}
	return s.meetings[i], true
}

// DetectMeeting replaces any previously detected meeting.
func (s *Store) DetectMeeting(windowHandle string, at time.Time) {
	s.detected = &DetectedMeeting{WindowHandle: windowHandle, DetectedAt: at}
}

func (s *Store) ClearDetectedMeeting() {
	s.detected = nil
}

func (s *Store) DetectedMeeting() (DetectedMeeting, bool) {
	if s.detected == nil {
		return DetectedMeeting{}, false
	}
	return *s.detected, true
}

func (s *Store) Snapshot() State {
	meetings := make([]Recording, len(s.meetings))
	copy(meetings, s.meetings)
	return State{
		Recording:          s.recording,
		PermissionsGranted: s.permissionsGranted,
		Meetings:           meetings,
	}
}

func clampPercentage(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
