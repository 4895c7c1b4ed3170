package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"queuewise/internal/models"
)

func entry(id uint, name string, position int, status models.EntryStatus) models.QueueEntry {
	e := models.QueueEntry{UserName: name, Position: position, Status: status}
	e.ID = id
	return e
}

func requireCode(t *testing.T, err error, code Code) {
	t.Helper()
	v, ok := AsViolation(err)
	require.True(t, ok, "expected a violation, got %v", err)
	assert.Equal(t, code, v.Code)
	assert.NotEmpty(t, v.Reason)
}

func TestValidateUserName(t *testing.T) {
	valid := []string{"Mary Jane", "Jean-Pierre", "O'Brien", "Al", "  Alice  "}
	for _, name := range valid {
		assert.NoError(t, ValidateUserName(name), name)
	}

	invalid := []string{"A", "42", "User1", "A@B", "", "   ", "-Ann", "Ann-", "Zoë"}
	for _, name := range invalid {
		requireCode(t, ValidateUserName(name), CodeInvalidName)
	}
}

func TestValidateUserName_ShortNameReason(t *testing.T) {
	v, ok := AsViolation(ValidateUserName("A"))
	require.True(t, ok)
	assert.Contains(t, v.Reason, "at least 2 characters")
}

func TestValidateQueueActiveForJoin(t *testing.T) {
	assert.NoError(t, ValidateQueueActiveForJoin(&models.Queue{Status: models.QueueActive}))
	requireCode(t, ValidateQueueActiveForJoin(&models.Queue{Status: models.QueuePaused}), CodeQueuePaused)
}

func TestValidateNoDuplicateWaiting(t *testing.T) {
	entries := []models.QueueEntry{
		entry(1, "Alice", 1, models.EntryServed),
		entry(2, "Bob", 2, models.EntrySkipped),
		entry(3, "Carol", 3, models.EntryWaiting),
	}

	assert.NoError(t, ValidateNoDuplicateWaiting("Alice", entries))
	assert.NoError(t, ValidateNoDuplicateWaiting("Bob", entries))
	assert.NoError(t, ValidateNoDuplicateWaiting("Dave", entries))
	requireCode(t, ValidateNoDuplicateWaiting("Carol", entries), CodeDuplicateJoin)
}

func TestServeTarget(t *testing.T) {
	entries := []models.QueueEntry{
		entry(1, "Alice", 1, models.EntryServed),
		entry(2, "Bob", 2, models.EntrySkipped),
		entry(3, "Carol", 3, models.EntryWaiting),
		entry(4, "Dave", 4, models.EntryWaiting),
	}

	target, err := ServeTarget(entries)
	require.NoError(t, err)
	assert.Equal(t, "Carol", target.UserName)

	_, err = ServeTarget(entries[:2])
	requireCode(t, err, CodeEmptyQueue)

	_, err = ServeTarget(nil)
	requireCode(t, err, CodeEmptyQueue)
}

func TestSkipTarget_MatchesServeTarget(t *testing.T) {
	entries := []models.QueueEntry{
		entry(1, "Alice", 1, models.EntrySkipped),
		entry(2, "Bob", 2, models.EntryWaiting),
		entry(3, "Carol", 3, models.EntryWaiting),
	}

	served, err := ServeTarget(entries)
	require.NoError(t, err)
	skipped, err := SkipTarget(entries)
	require.NoError(t, err)
	assert.Equal(t, served.ID, skipped.ID)

	_, err = SkipTarget(entries[:1])
	requireCode(t, err, CodeEmptyQueue)
}

func TestTerminalTransitions(t *testing.T) {
	served := entry(1, "Alice", 1, models.EntryServed)
	skipped := entry(2, "Bob", 2, models.EntrySkipped)
	waiting := entry(3, "Carol", 3, models.EntryWaiting)

	requireCode(t, ValidateNotAlreadyServed(&served), CodeAlreadyServed)
	assert.NoError(t, ValidateNotAlreadyServed(&waiting))

	requireCode(t, ValidateCanSkip(&served), CodeNotWaiting)
	requireCode(t, ValidateCanSkip(&skipped), CodeNotWaiting)
	assert.NoError(t, ValidateCanSkip(&waiting))
}

func TestPreviewWaiting(t *testing.T) {
	entries := []models.QueueEntry{
		entry(1, "Alice", 1, models.EntryServed),
		entry(2, "Bob", 2, models.EntryWaiting),
		entry(3, "Carol", 3, models.EntryWaiting),
	}

	waiting, err := PreviewWaiting(entries)
	require.NoError(t, err)
	require.Len(t, waiting, 2)
	assert.Equal(t, "Bob", waiting[0].UserName)
	assert.Equal(t, "Carol", waiting[1].UserName)

	_, err = PreviewWaiting(entries[:1])
	requireCode(t, err, CodeEmptyQueue)
}

func TestPauseResume(t *testing.T) {
	active := &models.Queue{Status: models.QueueActive}
	paused := &models.Queue{Status: models.QueuePaused}

	assert.NoError(t, ValidatePause(active))
	requireCode(t, ValidatePause(paused), CodeAlreadyPaused)
	assert.NoError(t, ValidateResume(paused))
	requireCode(t, ValidateResume(active), CodeAlreadyActive)
}

func TestCodeNotFound(t *testing.T) {
	assert.True(t, CodeQueueNotFound.NotFound())
	assert.True(t, CodeEntryNotFound.NotFound())
	assert.False(t, CodeEmptyQueue.NotFound())
	assert.False(t, CodeDuplicateJoin.NotFound())
}
