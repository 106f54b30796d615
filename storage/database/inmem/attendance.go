package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/attendance/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) CreateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Record{}, err
	}
	if err := rec.Check(); err != nil {
		return attendance.Record{}, err
	}

	repo.db.Lock()
	defer repo.db.Unlock()

	rec.ID = uuid.NewString()
	repo.db.table[rec.ID] = &rec
	repo.db.order = append(repo.db.order, rec.ID)
	return rec, nil
}

func (repo *attendanceRepository) QueryAllRecords(ctx context.Context) ([]attendance.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo.db.RLock()
	defer repo.db.RUnlock()

	recs := make([]attendance.Record, 0, len(repo.db.order))
	for _, id := range repo.db.order {
		recs = append(recs, *repo.db.table[id])
	}
	return recs, nil
}
