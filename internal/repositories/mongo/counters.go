package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Counters hands out monotonically increasing sequence numbers backed by the
// counters collection. A value is never handed out twice, even after the
// record that used it is deleted.
type Counters struct {
	col *mongo.Collection
}

func NewCounters(db *mongo.Database) *Counters {
	return &Counters{col: db.Collection("counters")}
}

type counterDoc struct {
	ID  string `bson:"_id"`
	Seq int    `bson:"seq"`
}

// Next atomically increments the named counter and returns the new value.
func (c *Counters) Next(ctx context.Context, name string) (int, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc counterDoc
	err := c.col.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Seq, nil
}

// RaiseTo makes sure the counter is at least floor.
func (c *Counters) RaiseTo(ctx context.Context, name string, floor int) error {
	_, err := c.col.UpdateOne(ctx,
		bson.M{"_id": name},
		bson.M{"$max": bson.M{"seq": floor}},
		options.Update().SetUpsert(true),
	)
	return err
}
