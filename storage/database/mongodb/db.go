package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/trezcool/attendance/core"
	"github.com/trezcool/attendance/core/attendance"
)

// mongo server error codes
const (
	codeNamespaceExists           = 48
	codeDocumentValidationFailure = 121
)

// Open creates a client for conf.Database.URI. The driver connects lazily, so an unreachable server
// is only reported by Ping or by the first operation.
func Open(ctx context.Context, conf *core.Config) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(conf.Database.URI).SetAppName(conf.AppName)
	if conf.Database.ConnectTimeout > 0 {
		opts.SetConnectTimeout(conf.Database.ConnectTimeout)
		opts.SetServerSelectionTimeout(conf.Database.ConnectTimeout)
	}
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongo")
	}
	return client, nil
}

// Database returns the database named in the connection URI, or conf.Database.Name if the URI has none.
func Database(client *mongo.Client, conf *core.Config) *mongo.Database {
	name := conf.Database.Name
	if cs, err := connstring.ParseAndValidate(conf.Database.URI); err == nil && cs.Database != "" {
		name = cs.Database
	}
	return client.Database(name)
}

func Ping(ctx context.Context, client *mongo.Client) error {
	return errors.Wrap(client.Ping(ctx, readpref.Primary()), "pinging mongo")
}

// Migrate creates the attendance collection along with its schema validator.
// An existing collection is left untouched.
func Migrate(ctx context.Context, db *mongo.Database) error {
	opts := options.CreateCollection().SetValidator(recordSchema())
	if err := db.CreateCollection(ctx, attendanceCollection, opts); err != nil && !hasErrorCode(err, codeNamespaceExists) {
		return errors.Wrap(err, "creating attendance collection")
	}
	return nil
}

func recordSchema() bson.M {
	statuses := make(bson.A, 0, len(attendance.Statuses))
	for _, s := range attendance.Statuses {
		statuses = append(statuses, string(s))
	}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"studentName", "date", "status"},
			"properties": bson.M{
				"studentName": bson.M{"bsonType": "string", "minLength": 1},
				"date":        bson.M{"bsonType": "date"},
				"status":      bson.M{"enum": statuses},
			},
		},
	}
}

// driverError wraps err with msg. A disconnected client cannot serve any further request,
// so that error becomes a core shutdown error.
func driverError(err error, msg string) error {
	if errors.Is(err, mongo.ErrClientDisconnected) {
		return core.NewShutdownError(errors.Wrap(err, msg).Error())
	}
	return errors.Wrap(err, msg)
}

func hasErrorCode(err error, code int) bool {
	var srvErr mongo.ServerError
	return errors.As(err, &srvErr) && srvErr.HasErrorCode(code)
}
