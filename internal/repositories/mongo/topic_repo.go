package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"codetrack/api/internal/models"
	"codetrack/api/internal/repositories"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TopicRepo wraps the topics collection.
type TopicRepo struct{ col *mongo.Collection }

func NewTopicRepo(ctx context.Context, c *Client) (*TopicRepo, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}

	r := &TopicRepo{col: db.Collection("topics")}
	_, err = r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create topic index: %w", err)
	}
	return r, nil
}

// List returns all topics sorted by name.
func (r *TopicRepo) List(ctx context.Context) ([]models.Topic, error) {
	cur, err := r.col.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Topic{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TopicRepo) GetByID(ctx context.Context, id string) (*models.Topic, error) {
	oid, err := repositories.ParseID(id)
	if err != nil {
		return nil, err
	}

	var t models.Topic
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&t); err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// ExistsByName is an exact, case-sensitive lookup.
func (r *TopicRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"name": name}, options.Count().SetLimit(1))
	return n > 0, err
}

// FindByNameFold finds a topic whose name equals name ignoring case, skipping
// the topic with id excludeID when it is set.
func (r *TopicRepo) FindByNameFold(ctx context.Context, name, excludeID string) (*models.Topic, error) {
	filter := bson.M{
		"name": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"},
	}
	if excludeID != "" {
		oid, err := repositories.ParseID(excludeID)
		if err != nil {
			return nil, err
		}
		filter["_id"] = bson.M{"$ne": oid}
	}

	var t models.Topic
	if err := r.col.FindOne(ctx, filter).Decode(&t); err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *TopicRepo) Create(ctx context.Context, t *models.Topic) (*models.Topic, error) {
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now

	res, err := r.col.InsertOne(ctx, t)
	if err != nil {
		return nil, translate(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		t.ID = oid
	}
	return t, nil
}

// Rename sets a new name and returns the updated topic.
func (r *TopicRepo) Rename(ctx context.Context, id, name string) (*models.Topic, error) {
	oid, err := repositories.ParseID(id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"name": name, "updatedAt": time.Now().UTC()}}

	var t models.Topic
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&t); err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *TopicRepo) Delete(ctx context.Context, id string) error {
	oid, err := repositories.ParseID(id)
	if err != nil {
		return err
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
