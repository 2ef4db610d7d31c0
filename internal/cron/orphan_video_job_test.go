package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/youssefadel/eduplatform-backend/pkg/bunny"
	"github.com/youssefadel/eduplatform-backend/pkg/logger"
)

func TestOrphanVideoJobDeletesUnreferencedAssets(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-48 * time.Hour).Format(time.RFC3339)
	library := &fakeVideoLibrary{pages: [][]bunny.Video{{
		{GUID: "vid-kept", DateUploaded: old},
		{GUID: "vid-orphan", DateUploaded: old},
	}}}
	lessons := &fakeLessonRefs{refs: map[string]struct{}{"vid-kept": {}}}
	job := newOrphanVideoJob(t, library, lessons)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(library.deleted) != 1 || library.deleted[0] != "vid-orphan" {
		t.Fatalf("expected only vid-orphan deleted, got %v", library.deleted)
	}
}

func TestOrphanVideoJobSparesRecentUploads(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	library := &fakeVideoLibrary{pages: [][]bunny.Video{{
		{GUID: "vid-fresh", DateUploaded: now.Add(-time.Hour).Format(time.RFC3339)},
		{GUID: "vid-unparseable", DateUploaded: "not-a-date"},
	}}}
	lessons := &fakeLessonRefs{refs: map[string]struct{}{}}
	job := newOrphanVideoJob(t, library, lessons)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(library.deleted) != 0 {
		t.Fatalf("expected no deletions, got %v", library.deleted)
	}
}

func TestOrphanVideoJobWalksEveryPage(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-48 * time.Hour).Format(time.RFC3339)
	library := &fakeVideoLibrary{pages: [][]bunny.Video{
		{{GUID: "a", DateUploaded: old}, {GUID: "b", DateUploaded: old}},
		{{GUID: "c", DateUploaded: old}},
	}}
	lessons := &fakeLessonRefs{refs: map[string]struct{}{"b": {}}}
	job := newOrphanVideoJob(t, library, lessons)
	job.pageSize = 2
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if library.listCalls != 2 {
		t.Fatalf("expected 2 list calls, got %d", library.listCalls)
	}
	if len(library.deleted) != 2 {
		t.Fatalf("expected a and c deleted, got %v", library.deleted)
	}
}

func TestOrphanVideoJobContinuesPastDeleteFailures(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	old := now.Add(-48 * time.Hour).Format(time.RFC3339)
	library := &fakeVideoLibrary{
		pages:     [][]bunny.Video{{{GUID: "a", DateUploaded: old}, {GUID: "b", DateUploaded: old}}},
		deleteErr: map[string]error{"a": errors.New("remote down")},
	}
	lessons := &fakeLessonRefs{refs: map[string]struct{}{}}
	job := newOrphanVideoJob(t, library, lessons)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(library.deleted) != 1 || library.deleted[0] != "b" {
		t.Fatalf("expected b deleted despite a failing, got %v", library.deleted)
	}
}

func TestOrphanVideoJobFailsWhenReferencesUnavailable(t *testing.T) {
	library := &fakeVideoLibrary{}
	lessons := &fakeLessonRefs{err: errors.New("db down")}
	job := newOrphanVideoJob(t, library, lessons)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if library.listCalls != 0 {
		t.Fatal("expected no library calls when references are unavailable")
	}
}

func newOrphanVideoJob(t *testing.T, library *fakeVideoLibrary, lessons *fakeLessonRefs) *orphanVideoJob {
	t.Helper()
	jobIface, err := NewOrphanVideoJob(OrphanVideoJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "test"}),
		Library: library,
		Lessons: lessons,
	})
	if err != nil {
		t.Fatalf("NewOrphanVideoJob: %v", err)
	}
	job, ok := jobIface.(*orphanVideoJob)
	if !ok {
		t.Fatalf("expected orphanVideoJob, got %T", jobIface)
	}
	return job
}

type fakeVideoLibrary struct {
	pages     [][]bunny.Video
	deleteErr map[string]error
	deleted   []string
	listCalls int
}

func (f *fakeVideoLibrary) ListVideos(_ context.Context, page, _ int) ([]bunny.Video, error) {
	f.listCalls++
	if page < 1 || page > len(f.pages) {
		return nil, nil
	}
	return f.pages[page-1], nil
}

func (f *fakeVideoLibrary) DeleteVideo(_ context.Context, videoID string) error {
	if err := f.deleteErr[videoID]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, videoID)
	return nil
}

type fakeLessonRefs struct {
	refs map[string]struct{}
	err  error
}

func (f *fakeLessonRefs) ReferencedRemoteVideoIDs(context.Context) (map[string]struct{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.refs, nil
}
