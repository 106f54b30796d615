package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
)

const attendanceCollection = "attendances"

type recordDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	StudentName string             `bson:"studentName"`
	Date        time.Time          `bson:"date"`
	Status      string             `bson:"status"`
}

func (doc recordDocument) record() attendance.Record {
	return attendance.Record{
		ID:          doc.ID.Hex(),
		StudentName: doc.StudentName,
		Date:        doc.Date.UTC(),
		Status:      attendance.Status(doc.Status),
	}
}

type attendanceRepository struct {
	coll *mongo.Collection
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *mongo.Database) attendance.Repository {
	return &attendanceRepository{coll: db.Collection(attendanceCollection)}
}

func (repo *attendanceRepository) CreateRecord(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	if err := rec.Check(); err != nil {
		return attendance.Record{}, err
	}

	doc := recordDocument{
		ID:          primitive.NewObjectID(),
		StudentName: rec.StudentName,
		Date:        rec.Date,
		Status:      string(rec.Status),
	}
	if _, err := repo.coll.InsertOne(ctx, doc); err != nil {
		if hasErrorCode(err, codeDocumentValidationFailure) {
			return attendance.Record{}, core.NewValidationError(attendance.ErrInvalidRecord)
		}
		return attendance.Record{}, driverError(err, "inserting attendance record")
	}
	return doc.record(), nil
}

func (repo *attendanceRepository) QueryAllRecords(ctx context.Context) ([]attendance.Record, error) {
	cur, err := repo.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, driverError(err, "querying attendance records")
	}
	defer func() { _ = cur.Close(ctx) }()

	var docs []recordDocument
	if err = cur.All(ctx, &docs); err != nil {
		return nil, driverError(err, "decoding attendance records")
	}

	recs := make([]attendance.Record, 0, len(docs))
	for _, doc := range docs {
		recs = append(recs, doc.record())
	}
	return recs, nil
}
