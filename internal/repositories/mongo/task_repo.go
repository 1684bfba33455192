package mongo

import (
	"context"
	"fmt"

	"codetrack/api/internal/models"
	"codetrack/api/internal/repositories"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaskRepo wraps the tasks collection.
type TaskRepo struct{ col *mongo.Collection }

func NewTaskRepo(ctx context.Context, c *Client) (*TaskRepo, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}

	r := &TaskRepo{col: db.Collection("tasks")}
	_, err = r.col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "time", Value: 1}}})
	if err != nil {
		return nil, fmt.Errorf("create task index: %w", err)
	}
	return r, nil
}

// List returns all tasks, earliest first.
func (r *TaskRepo) List(ctx context.Context) ([]models.Task, error) {
	cur, err := r.col.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "time", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Task{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TaskRepo) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	res, err := r.col.InsertOne(ctx, t)
	if err != nil {
		return nil, translate(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		t.ID = oid
	}
	return t, nil
}

// Update replaces the user editable fields and returns the updated task.
func (r *TaskRepo) Update(ctx context.Context, id string, t *models.Task) (*models.Task, error) {
	oid, err := repositories.ParseID(id)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{
		"heading": t.Heading,
		"content": t.Content,
		"time":    t.Time,
		"email":   t.Email,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Task
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&updated); err != nil {
		return nil, translate(err)
	}
	return &updated, nil
}

// MarkReminderSent sets beforeReminderSent on the task.
func (r *TaskRepo) MarkReminderSent(ctx context.Context, id string) error {
	oid, err := repositories.ParseID(id)
	if err != nil {
		return err
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"beforeReminderSent": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id string) error {
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
