package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/youssefadel/eduplatform-backend/pkg/bunny"
	"github.com/youssefadel/eduplatform-backend/pkg/logger"
)

const (
	orphanVideoGraceHours = 24
	orphanVideoPageSize   = 100
)

type OrphanVideoJobParams struct {
	Logger     *logger.Logger
	Library    videoLibrary
	Lessons    lessonVideoRefs
	GraceHours int
	PageSize   int
}

type videoLibrary interface {
	ListVideos(ctx context.Context, page, itemsPerPage int) ([]bunny.Video, error)
	DeleteVideo(ctx context.Context, videoID string) error
}

type lessonVideoRefs interface {
	ReferencedRemoteVideoIDs(ctx context.Context) (map[string]struct{}, error)
}

func NewOrphanVideoJob(params OrphanVideoJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Library == nil {
		return nil, fmt.Errorf("video library client required")
	}
	if params.Lessons == nil {
		return nil, fmt.Errorf("lessons repository required")
	}
	grace := params.GraceHours
	if grace <= 0 {
		grace = orphanVideoGraceHours
	}
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = orphanVideoPageSize
	}
	return &orphanVideoJob{
		logg:     params.Logger,
		library:  params.Library,
		lessons:  params.Lessons,
		grace:    time.Duration(grace) * time.Hour,
		pageSize: pageSize,
		now:      time.Now,
	}, nil
}

// orphanVideoJob deletes remote assets no lesson references anymore. Uploads
// leave a dangling asset behind when the content transfer fails or a lesson is
// re-uploaded concurrently; the register step always runs before the local
// reference is claimed, so the library is the authoritative superset.
type orphanVideoJob struct {
	logg     *logger.Logger
	library  videoLibrary
	lessons  lessonVideoRefs
	grace    time.Duration
	pageSize int
	now      func() time.Time
}

func (j *orphanVideoJob) Name() string { return "orphan-video-reconcile" }

func (j *orphanVideoJob) Run(ctx context.Context) error {
	referenced, err := j.lessons.ReferencedRemoteVideoIDs(ctx)
	if err != nil {
		return fmt.Errorf("list referenced videos: %w", err)
	}

	cutoff := j.now().UTC().Add(-j.grace)
	var scanned, orphans, deleted, failed, skipped int

	for page := 1; ; page++ {
		videos, err := j.library.ListVideos(ctx, page, j.pageSize)
		if err != nil {
			return fmt.Errorf("list library videos: %w", err)
		}
		scanned += len(videos)
		for _, video := range videos {
			if video.GUID == "" {
				continue
			}
			if _, ok := referenced[video.GUID]; ok {
				continue
			}
			orphans++
			if j.withinGrace(ctx, video, cutoff) {
				skipped++
				continue
			}
			if err := j.library.DeleteVideo(ctx, video.GUID); err != nil {
				failed++
				failCtx := j.logg.WithFields(ctx, map[string]any{"remote_video_id": video.GUID, "error": err.Error()})
				j.logg.Warn(failCtx, "failed to delete orphan video; will retry next run")
				continue
			}
			deleted++
		}
		if len(videos) < j.pageSize {
			break
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"scanned":  scanned,
		"orphans":  orphans,
		"deleted":  deleted,
		"failed":   failed,
		"in_grace": skipped,
	})
	j.logg.Info(logCtx, "orphan video reconcile complete")
	return nil
}

// withinGrace guards in-flight uploads: an asset registered moments ago has no
// local reference yet because the claim only lands after the upload finishes.
func (j *orphanVideoJob) withinGrace(ctx context.Context, video bunny.Video, cutoff time.Time) bool {
	uploadedAt, err := time.Parse(time.RFC3339, video.DateUploaded)
	if err != nil {
		// Unknown age: keep the asset rather than risk deleting a fresh upload.
		parseCtx := j.logg.WithFields(ctx, map[string]any{"remote_video_id": video.GUID, "error": err.Error()})
		j.logg.Warn(parseCtx, "unparseable upload date on orphan candidate")
		return true
	}
	return uploadedAt.After(cutoff)
}
