package inmemdb

import (
	"sync"

	"github.com/trezcool/attendance/core/attendance"
)

type (
	DB struct {
		attendance *attendanceTable
	}

	attendanceTable struct {
		sync.RWMutex
		table map[string]*attendance.Record
		order []string // insertion order
	}
)

func Open() (*DB, error) {
	db := &DB{
		attendance: &attendanceTable{table: make(map[string]*attendance.Record)},
	}
	return db, nil
}
