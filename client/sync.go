package client

import (
	"context"
	"io"

	"internship-management-api/models"
)

// backend is the slice of the transport the console needs. *Client
// implements it; tests substitute a fake.
type backend interface {
	FetchTask(ctx context.Context, taskID int) (*models.Task, error)
	FetchLogbookEntry(ctx context.Context, entryID int) (*models.LogbookEntry, error)
	ReviewLogbookEntry(ctx context.Context, entryID int, observedStatus, targetStatus, feedback string) (*models.LogbookEntry, error)
	UpdateAssignmentStatus(ctx context.Context, taskID, internID int, observedStatus, targetStatus string, notes *string) (*models.TaskAssignment, error)
	AddComment(ctx context.Context, taskID int, body string) (*models.TaskComment, error)
	EditComment(ctx context.Context, commentID int, body string) (*models.TaskComment, error)
	DeleteComment(ctx context.Context, commentID int) error
	UploadAttachment(ctx context.Context, taskID int, fileName string, file io.Reader, description string) (*models.TaskAttachment, error)
	DeleteAttachment(ctx context.Context, attachmentID int) error
}

// Console ties the transport, the per-aggregate caches and the mutation
// tracker together into the synchronization contract: every mutating call
// is followed by a re-fetch of the parent aggregate, the fetched value
// wins over any optimistic patch, and a response that lands after its view
// is gone (context cancelled) is discarded instead of applied.
type Console struct {
	api      backend
	Tasks    *Cache[*models.Task]
	Entries  *Cache[*models.LogbookEntry]
	Mutating *MutationTracker
}

func NewConsole(api backend) *Console {
	return &Console{
		api:      api,
		Tasks:    NewCache[*models.Task](),
		Entries:  NewCache[*models.LogbookEntry](),
		Mutating: NewMutationTracker(),
	}
}

// live reports whether the initiating view still wants this result.
func live(ctx context.Context) bool {
	return ctx.Err() == nil
}

// LoadTask fetches a task aggregate into the cache.
func (s *Console) LoadTask(ctx context.Context, taskID int) (*models.Task, error) {
	task, err := s.api.FetchTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !live(ctx) {
		return task, ctx.Err()
	}
	merged, _ := s.Tasks.Reconcile(taskID, task)
	return merged, nil
}

// LoadEntry fetches a logbook entry into the cache.
func (s *Console) LoadEntry(ctx context.Context, entryID int) (*models.LogbookEntry, error) {
	entry, err := s.api.FetchLogbookEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !live(ctx) {
		return entry, ctx.Err()
	}
	merged, _ := s.Entries.Reconcile(entryID, entry)
	return merged, nil
}

// ReviewEntry submits a review decision for one logbook entry and applies
// the server's row as an optimistic patch, then re-fetches to reconcile.
// While the call is outstanding the entry is marked mutating, so a list
// view can disable exactly this row's controls.
func (s *Console) ReviewEntry(ctx context.Context, entryID int, targetStatus, feedback string) (*models.LogbookEntry, error) {
	key := EntryKey(entryID)
	if err := s.Mutating.Begin(key, OpReview); err != nil {
		return nil, err
	}
	defer s.Mutating.End(key)

	observed := ""
	if cached, _, ok := s.Entries.Get(entryID); ok {
		observed = cached.Status
	}

	entry, err := s.api.ReviewLogbookEntry(ctx, entryID, observed, targetStatus, feedback)
	if err != nil {
		if IsNotFound(err) && live(ctx) {
			// The record vanished; any optimistic patch for it goes too.
			s.Entries.Drop(entryID)
		}
		return nil, err
	}
	if !live(ctx) {
		return entry, ctx.Err()
	}

	// The mutation response doubles as the optimistic patch; the follow-up
	// fetch is the reconciliation read.
	s.Entries.Patch(entryID, func(*models.LogbookEntry) *models.LogbookEntry { return entry })
	return s.LoadEntry(ctx, entryID)
}

// SetAssignmentStatus changes one intern's status on one task and then
// re-fetches the owning task aggregate.
func (s *Console) SetAssignmentStatus(ctx context.Context, taskID, internID int, targetStatus string, notes *string) (*models.Task, error) {
	key := AssignmentKey(taskID, internID)
	if err := s.Mutating.Begin(key, OpStatusUpdate); err != nil {
		return nil, err
	}
	defer s.Mutating.End(key)

	observed := ""
	if task, _, ok := s.Tasks.Get(taskID); ok {
		for _, a := range task.Assignments {
			if a.InternID == internID {
				observed = a.Status
				break
			}
		}
	}

	if _, err := s.api.UpdateAssignmentStatus(ctx, taskID, internID, observed, targetStatus, notes); err != nil {
		if IsNotFound(err) && live(ctx) {
			s.Tasks.Drop(taskID)
		}
		return nil, err
	}
	if !live(ctx) {
		return nil, ctx.Err()
	}
	return s.LoadTask(ctx, taskID)
}

// PostComment adds a comment and re-fetches the task aggregate.
func (s *Console) PostComment(ctx context.Context, taskID int, body string) (*models.Task, error) {
	key := TaskKey(taskID)
	if err := s.Mutating.Begin(key, OpComment); err != nil {
		return nil, err
	}
	defer s.Mutating.End(key)

	if _, err := s.api.AddComment(ctx, taskID, body); err != nil {
		return nil, err
	}
	if !live(ctx) {
		return nil, ctx.Err()
	}
	return s.LoadTask(ctx, taskID)
}

// EditComment overwrites a comment's body and re-fetches the task aggregate.
func (s *Console) EditComment(ctx context.Context, taskID, commentID int, body string) (*models.Task, error) {
	key := TaskKey(taskID)
	if err := s.Mutating.Begin(key, OpComment); err != nil {
		return nil, err
	}
	defer s.Mutating.End(key)

	if _, err := s.api.EditComment(ctx, commentID, body); err != nil {
		return nil, err
	}
	if !live(ctx) {
		return nil, ctx.Err()
	}
	return s.LoadTask(ctx, taskID)
}

// RemoveComment deletes a comment and re-fetches the task aggregate.
func (s *Console) RemoveComment(ctx context.Context, taskID, commentID int) (*models.Task, error) {
	key := TaskKey(taskID)
	if err := s.Mutating.Begin(key, OpComment); err != nil {
		return nil, err
	}
	defer s.Mutating.End(key)

	if err := s.api.DeleteComment(ctx, commentID); err != nil {
		return nil, err
	}
	if !live(ctx) {
		return nil, ctx.Err()
	}
	return s.LoadTask(ctx, taskID)
}

// UploadAttachment sends a file for a task and re-fetches the aggregate so
// the attachment list shows the server's assigned metadata.
func (s *Console) UploadAttachment(ctx context.Context, taskID int, fileName string, file io.Reader, description string) (*models.Task, error) {
	key := TaskKey(taskID)
	if err := s.Mutating.Begin(key, OpAttachment); err != nil {
		return nil, err
	}
	defer s.Mutating.End(key)

	if _, err := s.api.UploadAttachment(ctx, taskID, fileName, file, description); err != nil {
		return nil, err
	}
	if !live(ctx) {
		return nil, ctx.Err()
	}
	return s.LoadTask(ctx, taskID)
}

// RemoveAttachment deletes an attachment and re-fetches the task aggregate.
// On a bad-gateway failure the metadata is still server-side, so the cache
// keeps showing the file rather than pretending it is gone.
func (s *Console) RemoveAttachment(ctx context.Context, taskID, attachmentID int) (*models.Task, error) {
	key := TaskKey(taskID)
	if err := s.Mutating.Begin(key, OpAttachment); err != nil {
		return nil, err
	}
	defer s.Mutating.End(key)

	if err := s.api.DeleteAttachment(ctx, attachmentID); err != nil {
		return nil, err
	}
	if !live(ctx) {
		return nil, ctx.Err()
	}
	return s.LoadTask(ctx, taskID)
}
