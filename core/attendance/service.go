package attendance

import (
	"context"
	"errors"
	"time"
)

var (
	// errors
	ErrInvalidRecord = errors.New("attendance validation failed")

	nowFunc = time.Now // mockable
)

type (
	// Repository is the Record Store.
	Repository interface {
		// CreateRecord persists rec and returns it with its store-assigned ID.
		// It fails with a *core.ValidationError if rec does not pass Record.Check.
		CreateRecord(ctx context.Context, rec Record) (Record, error)
		// QueryAllRecords returns every record in store-native order.
		QueryAllRecords(ctx context.Context) ([]Record, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, nr NewRecord) (Record, error)
		QueryAll(ctx context.Context) ([]Record, error)
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Now returns the current time as stored: UTC, truncated to the millisecond precision of BSON dates.
func Now() time.Time {
	return nowFunc().UTC().Truncate(time.Millisecond)
}

func (svc *Service) Create(ctx context.Context, nr NewRecord) (Record, error) {
	nr.Clean()
	rec := Record{
		StudentName: nr.StudentName,
		Status:      nr.Status,
		Date:        Now(),
	}
	return svc.repo.CreateRecord(ctx, rec)
}

func (svc *Service) QueryAll(ctx context.Context) ([]Record, error) {
	recs, err := svc.repo.QueryAllRecords(ctx)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []Record{}
	}
	return recs, nil
}
