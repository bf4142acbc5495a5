package lifecycle

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreWith(t *testing.T, ids ...string) *Store {
	t.Helper()
	s := NewStore()
	for _, id := range ids {
		require.NoError(t, s.AppendMeeting(Recording{ID: id, Title: "title-" + id}))
	}
	return s
}

func TestSetRecording_ReportsChange(t *testing.T) {
	s := NewStore()
	assert.True(t, s.SetRecording(true))
	assert.False(t, s.SetRecording(true))
	assert.True(t, s.SetRecording(false))
	assert.False(t, s.Snapshot().Recording)
}

func TestSetPermissionsGranted_IsOneWay(t *testing.T) {
	s := NewStore()
	assert.True(t, s.SetPermissionsGranted())
	assert.False(t, s.SetPermissionsGranted())
	assert.True(t, s.Snapshot().PermissionsGranted)
}

func TestAppendMeeting_StartsInProgressAtZero(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.AppendMeeting(Recording{ID: "W1", Title: "t", UploadPercentage: 55, Status: StatusCompleted}))

	got, ok := s.Meeting("W1")
	require.True(t, ok)
	assert.Equal(t, Recording{ID: "W1", Title: "t", UploadPercentage: 0, Status: StatusInProgress}, got)
}

func TestAppendMeeting_KeepsInsertionOrder(t *testing.T) {
	s := newStoreWith(t, "W2", "W1", "W3")

	snap := s.Snapshot()
	require.Len(t, snap.Meetings, 3)
	assert.Equal(t, "W2", snap.Meetings[0].ID)
	assert.Equal(t, "W1", snap.Meetings[1].ID)
	assert.Equal(t, "W3", snap.Meetings[2].ID)
}

func TestAppendMeeting_RejectsDuplicateUnlessFailed(t *testing.T) {
	s := newStoreWith(t, "W1", "W2")

	err := s.AppendMeeting(Recording{ID: "W1"})
	assert.ErrorIs(t, err, ErrDuplicateMeeting)

	_, err = s.UpdateMeetingProgress("W1", 100)
	require.NoError(t, err)
	assert.ErrorIs(t, s.AppendMeeting(Recording{ID: "W1"}), ErrDuplicateMeeting)

	_, err = s.MarkMeetingFailed("W2")
	require.NoError(t, err)
	require.NoError(t, s.AppendMeeting(Recording{ID: "W2", Title: "again"}))

	snap := s.Snapshot()
	require.Len(t, snap.Meetings, 2)
	assert.Equal(t, Recording{ID: "W2", Title: "again", Status: StatusInProgress}, snap.Meetings[1])
}

func TestAppendMeeting_RejectsEmptyID(t *testing.T) {
	assert.Error(t, NewStore().AppendMeeting(Recording{}))
}

func TestUpdateMeetingProgress_UnknownIDIsTolerated(t *testing.T) {
	s := NewStore()
	upd, err := s.UpdateMeetingProgress("missing", 40)
	assert.ErrorIs(t, err, ErrMeetingNotFound)
	assert.False(t, upd.Changed)
	assert.Empty(t, s.Snapshot().Meetings)
}

func TestUpdateMeetingProgress_CompletesAtHundredAndNeverRegresses(t *testing.T) {
	s := newStoreWith(t, "W1")

	for _, p := range []int{10, 5, 60, 60, 100, 30, 100, 0} {
		_, err := s.UpdateMeetingProgress("W1", p)
		require.NoError(t, err)
		got, _ := s.Meeting("W1")
		assert.Equal(t, got.UploadPercentage == 100, got.Status == StatusCompleted, "progress %d", p)
	}

	got, _ := s.Meeting("W1")
	assert.Equal(t, 100, got.UploadPercentage)
	assert.Equal(t, StatusCompleted, got.Status)
}

func TestUpdateMeetingProgress_ReportsCompletion(t *testing.T) {
	s := newStoreWith(t, "W1")

	upd, err := s.UpdateMeetingProgress("W1", 50)
	require.NoError(t, err)
	assert.Equal(t, ProgressUpdate{Changed: true}, upd)

	upd, err = s.UpdateMeetingProgress("W1", 150)
	require.NoError(t, err)
	assert.Equal(t, ProgressUpdate{Changed: true, Completed: true}, upd)
}

func TestUpdateMeetingProgress_ClampsNegative(t *testing.T) {
	s := newStoreWith(t, "W1")
	upd, err := s.UpdateMeetingProgress("W1", -20)
	require.NoError(t, err)
	assert.False(t, upd.Changed)
	got, _ := s.Meeting("W1")
	assert.Equal(t, 0, got.UploadPercentage)
}

func TestUpdateMeetingProgress_IgnoredOnFailedRecord(t *testing.T) {
	s := newStoreWith(t, "W1")
	_, err := s.MarkMeetingFailed("W1")
	require.NoError(t, err)

	upd, err := s.UpdateMeetingProgress("W1", 100)
	require.NoError(t, err)
	assert.False(t, upd.Changed)
	got, _ := s.Meeting("W1")
	assert.Equal(t, StatusFailed, got.Status)
}

func TestMarkMeetingFailed(t *testing.T) {
	s := newStoreWith(t, "W1", "W2")

	changed, err := s.MarkMeetingFailed("W1")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.MarkMeetingFailed("W1")
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = s.UpdateMeetingProgress("W2", 100)
	require.NoError(t, err)
	changed, err = s.MarkMeetingFailed("W2")
	require.NoError(t, err)
	assert.False(t, changed, "completed record must not regress to failed")

	_, err = s.MarkMeetingFailed("missing")
	assert.ErrorIs(t, err, ErrMeetingNotFound)
}

func TestResetMeetingForRetry(t *testing.T) {
	s := newStoreWith(t, "W1", "W2")
	_, _ = s.MarkMeetingFailed("W1")
	_, _ = s.UpdateMeetingProgress("W2", 100)

	require.NoError(t, s.ResetMeetingForRetry("W1"))
	require.NoError(t, s.ResetMeetingForRetry("W2"))

	snap := s.Snapshot()
	require.Len(t, snap.Meetings, 2)
	for _, m := range snap.Meetings {
		assert.Equal(t, StatusInProgress, m.Status)
		assert.Equal(t, 0, m.UploadPercentage)
	}
	assert.ErrorIs(t, s.ResetMeetingForRetry("missing"), ErrMeetingNotFound)
}

func TestDetectedMeeting_LastDetectedWins(t *testing.T) {
	s := NewStore()
	_, ok := s.DetectedMeeting()
	assert.False(t, ok)

	now := time.Now()
	s.DetectMeeting("W1", now)
	s.DetectMeeting("W2", now.Add(time.Second))
	got, ok := s.DetectedMeeting()
	require.True(t, ok)
	assert.Equal(t, "W2", got.WindowHandle)

	s.ClearDetectedMeeting()
	_, ok = s.DetectedMeeting()
	assert.False(t, ok)
}

func TestSnapshot_IsACopy(t *testing.T) {
	s := newStoreWith(t, "W1")
	snap := s.Snapshot()
	snap.Meetings[0].Status = StatusFailed

	got, _ := s.Meeting("W1")
	assert.Equal(t, StatusInProgress, got.Status)
}

func TestSnapshot_JSONShape(t *testing.T) {
	b, err := json.Marshal(NewStore().Snapshot())
	require.NoError(t, err)
	assert.JSONEq(t, `{"recording":false,"permissions_granted":false,"meetings":[]}`, string(b))

	s := newStoreWith(t, "W1")
	b, err = json.Marshal(s.Snapshot())
	require.NoError(t, err)
	assert.JSONEq(t, `{"recording":false,"permissions_granted":false,"meetings":[{"id":"W1","title":"title-W1","uploadPercentage":0,"status":"in-progress"}]}`, string(b))
}
