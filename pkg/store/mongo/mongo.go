// Package mongo stores members and relationships in MongoDB.
//
// Members live in the "members" collection keyed by member ID; edges live
// in "relationships" with a unique index on (from, to, type).
package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
)

const (
	membersCollection       = "members"
	relationshipsCollection = "relationships"
	connectTimeout          = 10 * time.Second
)

// Store is a MongoDB-backed family store.
type Store struct {
	client  *mongo.Client
	members *mongo.Collection
	rels    *mongo.Collection
}

// Open connects to uri, selects database db and ensures the indexes exist.
func Open(ctx context.Context, uri, db string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, kerrors.Wrap(kerrors.ErrCodeStorage, err, "connect")
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, kerrors.Wrap(kerrors.ErrCodeStorage, err, "ping")
	}

	d := client.Database(db)
	s := &Store{client: client, members: d.Collection(membersCollection), rels: d.Collection(relationshipsCollection)}
	if err := s.ensureIndexes(ctx); err != nil {
		client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.rels.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "from", Value: 1}, {Key: "to", Value: 1}, {Key: "type", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("relationship_pair"),
		},
		{Keys: bson.D{{Key: "to", Value: 1}}},
	})
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeStorage, err, "create indexes")
	}
	return nil
}

func (s *Store) Snapshot(ctx context.Context) (family.Snapshot, error) {
	var members []memberDoc
	cur, err := s.members.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return family.Snapshot{}, kerrors.Wrap(kerrors.ErrCodeStorage, err, "list members")
	}
	if err := cur.All(ctx, &members); err != nil {
		return family.Snapshot{}, kerrors.Wrap(kerrors.ErrCodeStorage, err, "decode members")
	}

	var rels []relationshipDoc
	sort := bson.D{{Key: "from", Value: 1}, {Key: "to", Value: 1}, {Key: "type", Value: 1}}
	cur, err = s.rels.Find(ctx, bson.D{}, options.Find().SetSort(sort))
	if err != nil {
		return family.Snapshot{}, kerrors.Wrap(kerrors.ErrCodeStorage, err, "list relationships")
	}
	if err := cur.All(ctx, &rels); err != nil {
		return family.Snapshot{}, kerrors.Wrap(kerrors.ErrCodeStorage, err, "decode relationships")
	}

	snap := family.Snapshot{
		Members:       make([]family.Member, len(members)),
		Relationships: make([]family.Relationship, 0, len(rels)),
	}
	for i, d := range members {
		snap.Members[i] = d.member()
	}
	for _, d := range rels {
		rel, err := d.relationship()
		if err != nil {
			return family.Snapshot{}, kerrors.Wrap(kerrors.ErrCodeInvalidFormat, err, "relationship %s", d.ID)
		}
		snap.Relationships = append(snap.Relationships, rel)
	}
	return snap, nil
}

func (s *Store) SavePosition(ctx context.Context, id family.ID, x, y float64) error {
	res, err := s.members.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: int64(id)}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "x", Value: x}, {Key: "y", Value: y}}}},
	)
	if err != nil {
		werr := kerrors.Wrap(kerrors.ErrCodeStorage, err, "update member %d", id)
		if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
			return kerrors.Retryable(werr)
		}
		return werr
	}
	if res.MatchedCount == 0 {
		return kerrors.New(kerrors.ErrCodeMemberNotFound, "member %d", id)
	}
	return nil
}

// Import upserts every member and relationship of snap with two bulk
// writes. Relationships are matched on (from, to, type).
func (s *Store) Import(ctx context.Context, snap family.Snapshot) error {
	if len(snap.Members) > 0 {
		models := make([]mongo.WriteModel, len(snap.Members))
		for i, m := range snap.Members {
			d := toMemberDoc(m)
			models[i] = mongo.NewReplaceOneModel().
				SetFilter(bson.D{{Key: "_id", Value: d.ID}}).
				SetReplacement(d).
				SetUpsert(true)
		}
		if _, err := s.members.BulkWrite(ctx, models); err != nil {
			return kerrors.Wrap(kerrors.ErrCodeStorage, err, "import members")
		}
	}
	if len(snap.Relationships) > 0 {
		models := make([]mongo.WriteModel, len(snap.Relationships))
		for i, r := range snap.Relationships {
			models[i] = relationshipUpsert(toRelationshipDoc(r))
		}
		if _, err := s.rels.BulkWrite(ctx, models); err != nil {
			return kerrors.Wrap(kerrors.ErrCodeStorage, err, "import relationships")
		}
	}
	return nil
}

// DeleteMember removes a member and every relationship referencing it.
func (s *Store) DeleteMember(ctx context.Context, id family.ID) error {
	res, err := s.members.DeleteOne(ctx, bson.D{{Key: "_id", Value: int64(id)}})
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeStorage, err, "delete member %d", id)
	}
	if res.DeletedCount == 0 {
		return kerrors.New(kerrors.ErrCodeMemberNotFound, "member %d", id)
	}
	_, err = s.rels.DeleteMany(ctx, bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "from", Value: int64(id)}},
		bson.D{{Key: "to", Value: int64(id)}},
	}}})
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeStorage, err, "delete relationships of member %d", id)
	}
	return nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// relationshipUpsert keeps an existing edge's ID and assigns a new one
// only on insert.
func relationshipUpsert(d relationshipDoc) mongo.WriteModel {
	id := d.ID
	if id == "" {
		id = uuid.NewString()
	}
	return mongo.NewUpdateOneModel().
		SetFilter(bson.D{{Key: "from", Value: d.From}, {Key: "to", Value: d.To}, {Key: "type", Value: d.Type}}).
		SetUpdate(bson.D{
			{Key: "$set", Value: bson.D{{Key: "sub_type", Value: d.SubType}, {Key: "status", Value: d.Status}}},
			{Key: "$setOnInsert", Value: bson.D{{Key: "_id", Value: id}}},
		}).
		SetUpsert(true)
}
