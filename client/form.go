package client

import (
	"context"
	"sync"

	"github.com/trezcool/attendance/core/attendance"
)

// Creator submits new records; *Client is one.
type Creator interface {
	Create(ctx context.Context, nr attendance.NewRecord) (attendance.Record, error)
}

// Lister fetches records; *Client is one.
type Lister interface {
	List(ctx context.Context) ([]attendance.Record, error)
}

// Form holds what a user is typing before submitting a record.
// The name is cleared after a successful submit; the status is kept.
type Form struct {
	StudentName string
	Status      attendance.Status

	api Creator
}

func NewForm(api Creator) *Form {
	return &Form{Status: attendance.DefaultStatus, api: api}
}

// Submit posts the current state. On failure the state is left untouched.
func (f *Form) Submit(ctx context.Context) (attendance.Record, error) {
	rec, err := f.api.Create(ctx, attendance.NewRecord{StudentName: f.StudentName, Status: f.Status})
	if err != nil {
		return attendance.Record{}, err
	}
	f.StudentName = ""
	return rec, nil
}

// RecordList fetches the records on first use and keeps them until Reload.
type RecordList struct {
	api Lister

	mu     sync.Mutex
	loaded bool
	recs   []attendance.Record
}

func NewRecordList(api Lister) *RecordList {
	return &RecordList{api: api}
}

func (l *RecordList) Records(ctx context.Context) ([]attendance.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return l.recs, nil
	}
	return l.load(ctx)
}

func (l *RecordList) Reload(ctx context.Context) ([]attendance.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx)
}

func (l *RecordList) load(ctx context.Context) ([]attendance.Record, error) {
	recs, err := l.api.List(ctx)
	if err != nil {
		return nil, err
	}
	l.recs, l.loaded = recs, true
	return recs, nil
}
