// Package database opens the MongoDB client shared by the whole process.
//
// There is no package-level handle: Connect returns a *DB that the
// application shell passes to every adapter that needs it.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Options describes how to reach the document store.
type Options struct {
	URI        string // mongodb://host:port/database
	Database   string
	Username   string
	Password   string
	AuthSource string
}

// DB is a connected client plus the database the application works in.
type DB struct {
	Client *mongo.Client
	name   string
}

// Connect opens the client and verifies it with a ping. It returns an error
// instead of exiting so the caller can shut down cleanly.
func Connect(ctx context.Context, opts Options) (*DB, error) {
	clientOpts := options.Client().ApplyURI(opts.URI).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second).
		SetMaxPoolSize(25)

	if opts.Username != "" {
		clientOpts.SetAuth(options.Credential{
			Username:   opts.Username,
			Password:   opts.Password,
			AuthSource: opts.AuthSource,
		})
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return &DB{Client: client, name: opts.Database}, nil
}

// Name is the database the application reads and writes.
func (d *DB) Name() string { return d.name }

// Collection returns a handle on name in the application database.
func (d *DB) Collection(name string) *mongo.Collection {
	return d.Client.Database(d.name).Collection(name)
}

// Ping checks that the primary is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (d *DB) Close(ctx context.Context) error {
	if err := d.Client.Disconnect(ctx); err != nil {
		return fmt.Errorf("database: disconnect: %w", err)
	}
	return nil
}
