package treestore

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/nasimstg/skilltree/pkg/errors"
	"github.com/nasimstg/skilltree/pkg/tree"
)

const mongoConnectTimeout = 5 * time.Second

// MongoStore serves the catalog from a MongoDB collection. Documents use
// the canonical schema's bson tags, one document per tree keyed by treeId.
type MongoStore struct {
	client *mongo.Client
	trees  *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongodb")
	}

	return &MongoStore{
		client: client,
		trees:  client.Database(database).Collection(collection),
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, treeID string) (*tree.Tree, error) {
	if err := errors.ValidateTreeID(treeID); err != nil {
		return nil, err
	}

	var t tree.Tree
	err := s.trees.FindOne(ctx, bson.M{"treeId": treeID}).Decode(&t)
	if err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, errors.New(errors.ErrCodeTreeNotFound, "tree %q not found", treeID)
		}
		return nil, errors.Wrap(errors.ErrCodeStore, err, "query tree %q", treeID)
	}

	// Same repair as the file decoder: the edge list is authoritative.
	requires := tree.RequiresFromEdges(t.Edges)
	for i := range t.Nodes {
		t.Nodes[i].Requires = requires[t.Nodes[i].ID]
	}
	return &t, nil
}

func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().
		SetProjection(bson.M{"nodes": 0, "edges": 0}).
		SetSort(bson.D{{Key: "treeId", Value: 1}})

	cursor, err := s.trees.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list trees")
	}
	defer cursor.Close(ctx)

	var summaries []Summary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode tree summaries")
	}
	return summaries, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
