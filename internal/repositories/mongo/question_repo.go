package mongo

import (
	"context"
	"fmt"
	"time"

	"codetrack/api/internal/models"
	"codetrack/api/internal/repositories"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const questionNumberCounter = "questionNumber"

// QuestionRepo wraps the questions collection.
type QuestionRepo struct {
	col      *mongo.Collection
	counters *Counters
}

// NewQuestionRepo ensures the unique indexes and seeds the number counter
// from the highest questionNumber already stored.
func NewQuestionRepo(ctx context.Context, c *Client) (*QuestionRepo, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}

	r := &QuestionRepo{
		col:      db.Collection("questions"),
		counters: NewCounters(db),
	}

	_, err = r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "questionNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "link", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "topic", Value: 1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("create question indexes: %w", err)
	}

	maxNumber, err := r.maxQuestionNumber(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.counters.RaiseTo(ctx, questionNumberCounter, maxNumber); err != nil {
		return nil, fmt.Errorf("seed question counter: %w", err)
	}

	return r, nil
}

func (r *QuestionRepo) maxQuestionNumber(ctx context.Context) (int, error) {
	var top models.Question
	opts := options.FindOne().
		SetSort(bson.D{{Key: "questionNumber", Value: -1}}).
		SetProjection(bson.D{{Key: "questionNumber", Value: 1}})
	err := r.col.FindOne(ctx, bson.D{}, opts).Decode(&top)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return top.QuestionNumber, nil
}

func (r *QuestionRepo) find(ctx context.Context, filter any, opts *options.FindOptions) ([]models.Question, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Question{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns every question matching filter ordered by questionNumber.
func (r *QuestionRepo) List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error) {
	opts := options.Find().SetSort(bson.D{{Key: "questionNumber", Value: 1}})
	return r.find(ctx, repositories.BuildQuestionFilter(filter), opts)
}

// ListPage returns one page of the filtered list ordered by questionNumber.
func (r *QuestionRepo) ListPage(ctx context.Context, filter models.QuestionFilter, skip, limit int) ([]models.Question, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "questionNumber", Value: 1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))
	return r.find(ctx, repositories.BuildQuestionFilter(filter), opts)
}

// ListByTopic returns the questions of one topic in creation order.
func (r *QuestionRepo) ListByTopic(ctx context.Context, topic string) ([]models.Question, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	return r.find(ctx, bson.M{"topic": topic}, opts)
}

func (r *QuestionRepo) Count(ctx context.Context, filter models.QuestionFilter) (int, error) {
	n, err := r.col.CountDocuments(ctx, repositories.BuildQuestionFilter(filter))
	return int(n), err
}

// ExistsForTopic reports whether any question still references topic.
func (r *QuestionRepo) ExistsForTopic(ctx context.Context, topic string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"topic": topic}, options.Count().SetLimit(1))
	return n > 0, err
}

// RenameTopic re-points every question of topic from to topic to.
func (r *QuestionRepo) RenameTopic(ctx context.Context, from, to string) (int64, error) {
	res, err := r.col.UpdateMany(ctx,
		bson.M{"topic": from},
		bson.M{"$set": bson.M{"topic": to, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Create assigns the next questionNumber and inserts q.
func (r *QuestionRepo) Create(ctx context.Context, q *models.Question) (*models.Question, error) {
	number, err := r.counters.Next(ctx, questionNumberCounter)
	if err != nil {
		return nil, fmt.Errorf("next question number: %w", err)
	}

	now := time.Now().UTC()
	q.QuestionNumber = number
	q.CreatedAt, q.UpdatedAt = now, now

	res, err := r.col.InsertOne(ctx, q)
	if err != nil {
		return nil, translate(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		q.ID = oid
	}
	return q, nil
}

func (r *QuestionRepo) GetByID(ctx context.Context, id string) (*models.Question, error) {
	oid, err := repositories.ParseID(id)
	if err != nil {
		return nil, err
	}

	var q models.Question
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&q); err != nil {
		return nil, translate(err)
	}
	return &q, nil
}

func (r *QuestionRepo) Delete(ctx context.Context, id string) error {
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

// ToggleDone flips isDone server side and returns the updated question.
func (r *QuestionRepo) ToggleDone(ctx context.Context, id string) (*models.Question, error) {
	oid, err := repositories.ParseID(id)
	if err != nil {
		return nil, err
	}

	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "isDone", Value: bson.D{{Key: "$not", Value: bson.A{"$isDone"}}}},
			{Key: "updatedAt", Value: "$$NOW"},
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var q models.Question
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&q); err != nil {
		return nil, translate(err)
	}
	return &q, nil
}

type statsFacet struct {
	Solved       []models.DifficultyCount `bson:"solvedStats"`
	Totals       []models.DifficultyCount `bson:"totalStats"`
	OverallTotal []struct {
		Count int `bson:"totalCount"`
	} `bson:"overallTotal"`
}

// Stats computes solved and total counts per difficulty in one aggregation.
func (r *QuestionRepo) Stats(ctx context.Context) (models.Stats, error) {
	groupByDifficulty := bson.A{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$difficulty"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "difficulty", Value: "$_id"},
			{Key: "count", Value: 1},
		}}},
	}
	solved := append(bson.A{bson.D{{Key: "$match", Value: bson.D{{Key: "isDone", Value: true}}}}}, groupByDifficulty...)

	pipeline := mongo.Pipeline{
		{{Key: "$facet", Value: bson.D{
			{Key: "solvedStats", Value: solved},
			{Key: "totalStats", Value: groupByDifficulty},
			{Key: "overallTotal", Value: bson.A{bson.D{{Key: "$count", Value: "totalCount"}}}},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return models.Stats{}, err
	}
	defer cur.Close(ctx)

	var facets []statsFacet
	if err := cur.All(ctx, &facets); err != nil {
		return models.Stats{}, err
	}
	if len(facets) == 0 {
		return models.BuildStats(0, nil, nil), nil
	}

	facet := facets[0]
	total := 0
	if len(facet.OverallTotal) > 0 {
		total = facet.OverallTotal[0].Count
	}
	return models.BuildStats(total, facet.Totals, facet.Solved), nil
}
