package services

import (
	"bytes"
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"regexp"
	"testing"

	"internship-management-api/storage"
)

// fakeStore is an in-memory ObjectStore with switchable failures, standing
// in for the external byte-store collaborator.
type fakeStore struct {
	objects    map[string][]byte
	failPut    bool
	failRemove bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) Put(_ context.Context, objectName string, r io.Reader, _ int64, _ string) error {
	if s.failPut {
		return &storage.StoreError{Op: "put", Err: errors.New("bucket unavailable")}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return &storage.StoreError{Op: "put", Err: err}
	}
	s.objects[objectName] = data
	return nil
}

func (s *fakeStore) Get(_ context.Context, objectName string) (io.ReadCloser, error) {
	data, ok := s.objects[objectName]
	if !ok {
		return nil, &storage.StoreError{Op: "get", Err: errors.New("no such object")}
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStore) Remove(_ context.Context, objectName string) error {
	if s.failRemove {
		return &storage.StoreError{Op: "remove", Err: errors.New("bucket unavailable")}
	}
	delete(s.objects, objectName)
	return nil
}

var (
	taskCountPattern        = regexp.MustCompile("SELECT count\\(\\*\\) FROM `tasks`")
	commentInsertPattern    = regexp.MustCompile("INSERT INTO `task_comments`")
	commentDeletePattern    = regexp.MustCompile("DELETE FROM `task_comments`")
	attachmentSelect        = regexp.MustCompile("SELECT .* FROM `task_attachments`")
	attachmentInsert        = regexp.MustCompile("INSERT INTO `task_attachments`")
	attachmentDeletePattern = regexp.MustCompile("DELETE FROM `task_attachments`")
)

func TestAddCommentRejectsEmptyBody(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	svc := NewCollaborationService(db, newFakeStore())
	for _, body := range []string{"", "   ", "\n\t"} {
		_, err := svc.AddComment(1, 2, body)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("body %q: got %v, want ValidationError", body, err)
		}
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("database was touched: %v", err)
	}
}

func TestAddCommentTrimsAndPersists(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: taskCountPattern,
			columns: []string{"count"},
			rows:    [][]driver.Value{{int64(1)}},
		},
		{
			kind:    kindExec,
			pattern: commentInsertPattern,
			result:  scriptedResult{lastInsertID: 11, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewCollaborationService(db, newFakeStore())
	comment, err := svc.AddComment(1, 2, "  looks good so far  ")
	if err != nil {
		t.Fatalf("AddComment returned error: %v", err)
	}
	if comment.Body != "looks good so far" {
		t.Errorf("body = %q, want trimmed text", comment.Body)
	}
	if comment.CreatedAt.IsZero() {
		t.Error("created_at must be stamped")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteCommentSecondCallNotFound(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindExec,
			pattern: commentDeletePattern,
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: commentDeletePattern,
			result:  scriptedResult{rowsAffected: 0},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewCollaborationService(db, newFakeStore())
	if err := svc.DeleteComment(11); err != nil {
		t.Fatalf("first delete returned error: %v", err)
	}

	err := svc.DeleteComment(11)
	var notFoundErr *NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Fatalf("second delete: got %v, want NotFoundError", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUploadAttachmentNoMetadataWhenStoreRejects(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: taskCountPattern,
			columns: []string{"count"},
			rows:    [][]driver.Value{{int64(1)}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	store := newFakeStore()
	store.failPut = true

	svc := NewCollaborationService(db, store)
	_, err := svc.UploadAttachment(context.Background(), 1, 2, bytes.NewReader([]byte("report")), "report.pdf", 6, "application/pdf", nil)

	var storeErr *storage.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("got %v, want StoreError", err)
	}
	if len(store.objects) != 0 {
		t.Error("no object should exist after a rejected upload")
	}

	// No INSERT step was scripted; a metadata write would have failed the
	// scripted driver.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUploadAttachmentStoresBytesThenMetadata(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: taskCountPattern,
			columns: []string{"count"},
			rows:    [][]driver.Value{{int64(1)}},
		},
		{
			kind:    kindExec,
			pattern: attachmentInsert,
			result:  scriptedResult{lastInsertID: 21, rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	store := newFakeStore()
	svc := NewCollaborationService(db, store)

	attachment, err := svc.UploadAttachment(context.Background(), 1, 2, bytes.NewReader([]byte("report")), "report.pdf", 6, "application/pdf", nil)
	if err != nil {
		t.Fatalf("UploadAttachment returned error: %v", err)
	}

	if attachment.OriginalName != "report.pdf" {
		t.Errorf("original_name = %q", attachment.OriginalName)
	}
	if _, ok := store.objects[attachment.StoredName]; !ok {
		t.Error("bytes missing from store after successful upload")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteAttachmentKeepsMetadataWhenStoreFails(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: attachmentSelect,
			columns: []string{"attachment_id", "task_id", "stored_name"},
			rows:    [][]driver.Value{{int64(21), int64(1), "attachments/2026/03/02/abcd1234.pdf"}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	store := newFakeStore()
	store.objects["attachments/2026/03/02/abcd1234.pdf"] = []byte("report")
	store.failRemove = true

	svc := NewCollaborationService(db, store)
	err := svc.DeleteAttachment(context.Background(), 21)

	var storeErr *storage.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("got %v, want StoreError", err)
	}
	if _, ok := store.objects["attachments/2026/03/02/abcd1234.pdf"]; !ok {
		t.Error("bytes must remain when the store delete fails")
	}

	// The metadata DELETE was never scripted, so reaching it would have
	// failed; metadata and bytes still agree.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteTaskAttachmentsSweepsEveryFile(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: attachmentSelect,
			columns: []string{"attachment_id", "task_id", "stored_name"},
			rows: [][]driver.Value{
				{int64(21), int64(1), "attachments/2026/03/02/abcd1234.pdf"},
				{int64(22), int64(1), "attachments/2026/03/03/ef567890.png"},
			},
		},
		{
			kind:    kindExec,
			pattern: attachmentDeletePattern,
			result:  scriptedResult{rowsAffected: 1},
		},
		{
			kind:    kindExec,
			pattern: attachmentDeletePattern,
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	store := newFakeStore()
	store.objects["attachments/2026/03/02/abcd1234.pdf"] = []byte("report")
	store.objects["attachments/2026/03/03/ef567890.png"] = []byte("screenshot")

	svc := NewCollaborationService(db, store)
	if err := svc.DeleteTaskAttachments(context.Background(), 1); err != nil {
		t.Fatalf("DeleteTaskAttachments returned error: %v", err)
	}

	if len(store.objects) != 0 {
		t.Errorf("%d objects left in store after the sweep", len(store.objects))
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteTaskAttachmentsStopsWhenStoreFails(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: attachmentSelect,
			columns: []string{"attachment_id", "task_id", "stored_name"},
			rows:    [][]driver.Value{{int64(21), int64(1), "attachments/2026/03/02/abcd1234.pdf"}},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	store := newFakeStore()
	store.objects["attachments/2026/03/02/abcd1234.pdf"] = []byte("report")
	store.failRemove = true

	svc := NewCollaborationService(db, store)
	err := svc.DeleteTaskAttachments(context.Background(), 1)

	var storeErr *storage.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("got %v, want StoreError", err)
	}
	if _, ok := store.objects["attachments/2026/03/02/abcd1234.pdf"]; !ok {
		t.Error("bytes must remain when the store delete fails")
	}

	// No metadata DELETE was scripted; the row survives alongside its bytes.
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteAttachmentRemovesBytesThenMetadata(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: attachmentSelect,
			columns: []string{"attachment_id", "task_id", "stored_name"},
			rows:    [][]driver.Value{{int64(21), int64(1), "attachments/2026/03/02/abcd1234.pdf"}},
		},
		{
			kind:    kindExec,
			pattern: attachmentDeletePattern,
			result:  scriptedResult{rowsAffected: 1},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	store := newFakeStore()
	store.objects["attachments/2026/03/02/abcd1234.pdf"] = []byte("report")

	svc := NewCollaborationService(db, store)
	if err := svc.DeleteAttachment(context.Background(), 21); err != nil {
		t.Fatalf("DeleteAttachment returned error: %v", err)
	}

	if len(store.objects) != 0 {
		t.Error("bytes must be gone after a successful delete")
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
