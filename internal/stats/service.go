// Package stats aggregates platform-wide counters for the admin dashboard.
package stats

import (
	"context"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/youssefadel/eduplatform-backend/pkg/errors"
)

// Overview is the admin dashboard summary.
type Overview struct {
	Users         int64           `json:"users"`
	Courses       int64           `json:"courses"`
	Lessons       int64           `json:"lessons"`
	Purchases     int64           `json:"purchases"`
	Enrollments   int64           `json:"enrollments"`
	Revenue       decimal.Decimal `json:"revenue"`
	VideosMissing int64           `json:"videos_missing"`
}

// Service exposes the aggregate overview.
type Service interface {
	Overview(ctx context.Context) (*Overview, error)
}

type repository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountCourses(ctx context.Context) (int64, error)
	CountLessons(ctx context.Context) (int64, error)
	CountLessonsWithoutVideo(ctx context.Context) (int64, error)
	CountCompletedPurchases(ctx context.Context) (int64, error)
	CountEnrollments(ctx context.Context) (int64, error)
	SumCompletedRevenue(ctx context.Context) (decimal.Decimal, error)
}

type service struct {
	repo repository
}

// NewService wires the stats service.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "stats repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Overview(ctx context.Context) (*Overview, error) {
	overview := &Overview{}

	var err error
	if overview.Users, err = s.repo.CountUsers(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count users")
	}
	if overview.Courses, err = s.repo.CountCourses(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count courses")
	}
	if overview.Lessons, err = s.repo.CountLessons(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count lessons")
	}
	if overview.VideosMissing, err = s.repo.CountLessonsWithoutVideo(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count lessons without video")
	}
	if overview.Purchases, err = s.repo.CountCompletedPurchases(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count purchases")
	}
	if overview.Enrollments, err = s.repo.CountEnrollments(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count enrollments")
	}
	if overview.Revenue, err = s.repo.SumCompletedRevenue(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum revenue")
	}
	return overview, nil
}
