package catalog

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/forcefield/pkg/errors"
	"github.com/matzehuels/forcefield/pkg/graph"
)

// MongoConfig configures the MongoDB catalog backend.
type MongoConfig struct {
	// URI is the MongoDB connection string, e.g. "mongodb://localhost:27017".
	URI string

	// Database defaults to "forcefield".
	Database string

	// Collection defaults to "graphs".
	Collection string
}

// MongoCatalog stores graphs in a MongoDB collection with a unique index
// on the graph name. Node and edge counts are denormalized into each
// document so List never loads graph payloads.
type MongoCatalog struct {
	client *mongo.Client
	col    *mongo.Collection
}

type mongoEntry struct {
	Name      string     `bson:"name"`
	Graph     graph.File `bson:"graph"`
	NodeCount int        `bson:"node_count"`
	EdgeCount int        `bson:"edge_count"`
	CreatedAt time.Time  `bson:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at"`
}

// NewMongoCatalog connects to MongoDB, verifies the connection, and
// ensures the unique name index exists.
func NewMongoCatalog(ctx context.Context, cfg MongoConfig) (*MongoCatalog, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongo catalog: URI is required")
	}
	if cfg.Database == "" {
		cfg.Database = "forcefield"
	}
	if cfg.Collection == "" {
		cfg.Collection = "graphs"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	col := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("create name index: %w", err)
	}

	return &MongoCatalog{client: client, col: col}, nil
}

// Save upserts the graph document. CreatedAt is written only on insert.
func (c *MongoCatalog) Save(ctx context.Context, name string, file graph.File) error {
	if err := errors.ValidateGraphName(name); err != nil {
		return err
	}

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"graph":      file,
			"node_count": len(file.Nodes),
			"edge_count": len(file.Edges),
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"name":       name,
			"created_at": now,
		},
	}
	_, err := c.col.UpdateOne(ctx, bson.M{"name": name}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save graph %q: %w", name, err)
	}
	return nil
}

// Get retrieves a stored graph by name.
func (c *MongoCatalog) Get(ctx context.Context, name string) (*Entry, error) {
	var doc mongoEntry
	err := c.col.FindOne(ctx, bson.M{"name": name}).Decode(&doc)
	if err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get graph %q: %w", name, err)
	}
	return &Entry{
		Name:      doc.Name,
		Graph:     doc.Graph,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

// List returns summaries for all stored graphs, sorted by name.
func (c *MongoCatalog) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetProjection(bson.M{"graph": 0})
	cursor, err := c.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoEntry
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode graph list: %w", err)
	}

	summaries := make([]Summary, len(docs))
	for i, doc := range docs {
		summaries[i] = Summary{
			Name:      doc.Name,
			NodeCount: doc.NodeCount,
			EdgeCount: doc.EdgeCount,
			UpdatedAt: doc.UpdatedAt,
		}
	}
	return summaries, nil
}

// Delete removes a stored graph.
func (c *MongoCatalog) Delete(ctx context.Context, name string) error {
	res, err := c.col.DeleteOne(ctx, bson.M{"name": name})
	if err != nil {
		return fmt.Errorf("delete graph %q: %w", name, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Close disconnects from MongoDB.
func (c *MongoCatalog) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

var _ Catalog = (*MongoCatalog)(nil)
