// Package mongo provisions the MongoDB client used by the document store.
package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/MrSnakeDoc/bookmarks/internal/connect"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

// DefaultDatabase is used when the connection string names no database.
const DefaultDatabase = "bookmarks"

// ConnectOptions defines the MongoDB client and its connection retry behavior.
type ConnectOptions struct {
	URI     string // ex: "mongodb://localhost:27017/bookmarks"
	AppName string // reported to the server in the handshake
	Retry   connect.Policy
}

// New connects to MongoDB and blocks until the primary answers a ping or the
// retry policy gives up.
func New(ctx context.Context, opts ConnectOptions, log logger.Logger) (*mongo.Client, error) {
	clientOpts := options.Client().
		ApplyURI(opts.URI).
		SetServerSelectionTimeout(opts.Retry.PingTimeout)
	if opts.AppName != "" {
		clientOpts.SetAppName(opts.AppName)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		log.Error("DB connection error: unable to configure mongodb client", logger.Error(err))
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	ping := func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) }
	if err := connect.Retry(ctx, "mongodb", Redact(opts.URI), opts.Retry, ping, log); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	return client, nil
}

// DatabaseFromURI returns the database named in the path of uri, or fallback.
func DatabaseFromURI(uri, fallback string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return fallback
	}
	if db := strings.Trim(u.Path, "/"); db != "" {
		return db
	}
	return fallback
}

// Redact masks the password of a connection string for logging.
func Redact(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return "mongodb://<unparsable>"
	}
	return u.Redacted()
}
