package attendance

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/attendance/core"
)

type Status string

// Statuses
const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"

	// DefaultStatus is used when a new record does not specify one. The web form starts from it too.
	DefaultStatus = StatusPresent
)

var Statuses = []Status{StatusPresent, StatusAbsent}

func (s Status) IsValid() bool {
	for _, status := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// Record is a single attendance entry. Records are never updated nor deleted.
type Record struct {
	ID          string    `json:"_id"`
	StudentName string    `json:"studentName"`
	Date        time.Time `json:"date"` // UTC
	Status      Status    `json:"status"`
}

// Check enforces the invariants every stored Record must satisfy.
func (r Record) Check() error {
	var flds []core.FieldError
	if core.CleanString(r.StudentName) == "" {
		flds = append(flds, core.FieldError{Field: "studentName", Error: requiredText})
	}
	if !r.Status.IsValid() {
		flds = append(flds, core.FieldError{Field: "status", Error: fmt.Sprintf("%q is not a valid status", r.Status)})
	}
	if flds != nil {
		return core.NewValidationError(ErrInvalidRecord, flds...)
	}
	return nil
}

// NewRecord contains information needed to create a new Record.
// The date is always set by the server.
type NewRecord struct {
	StudentName string `json:"studentName" validate:"notblank"`
	Status      Status `json:"status" validate:"required,attendancestatus"`
}

func (nr *NewRecord) Clean() {
	nr.StudentName = core.CleanString(nr.StudentName)
	nr.Status = Status(core.CleanString(string(nr.Status)))
	if nr.Status == "" {
		nr.Status = DefaultStatus
	}
}

func (nr *NewRecord) Validate(validate *validator.Validate) error {
	nr.Clean()
	return validate.Struct(nr)
}
