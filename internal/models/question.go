package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Question is a single practice problem. Topic is a soft reference to Topic.Name.
type Question struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Topic          string             `json:"topic" bson:"topic"`
	QuestionName   string             `json:"questionName" bson:"questionName"`
	PlatformName   string             `json:"platformName" bson:"platformName"` // derived from Link, never user supplied
	QuestionNumber int                `json:"questionNumber" bson:"questionNumber"`
	Link           string             `json:"link" bson:"link"`
	Difficulty     Difficulty         `json:"difficulty" bson:"difficulty"`
	IsDone         bool               `json:"isDone" bson:"isDone"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// Difficulties lists the enum in display order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// payload for POST /questions
type CreateQuestionRequest struct {
	Topic        string `json:"topic" validate:"required"`
	QuestionName string `json:"questionName" validate:"required"`
	Link         string `json:"link" validate:"required,httpurl"`
	Difficulty   string `json:"difficulty" validate:"required,oneof=Easy Medium Hard"`
}

// QuestionFilter carries the optional filters shared by the list endpoints.
// Zero values mean "no filter".
type QuestionFilter struct {
	Search     string
	Topic      string
	Difficulty string
}

// TopicGroup is one bucket of the grouped question listing.
type TopicGroup struct {
	Topic     string     `json:"topic"`
	Questions []Question `json:"questions"`
}

// DifficultyCount is one row of a group-by-difficulty aggregation.
type DifficultyCount struct {
	Difficulty Difficulty `bson:"difficulty"`
	Count      int        `bson:"count"`
}

// Stats is the flat payload of GET /questions/stats.
type Stats struct {
	TotalQuestions int `json:"totalQuestions"`
	TotalDone      int `json:"totalDone"`
	TotalEasy      int `json:"totalEasy"`
	EasyDone       int `json:"easyDone"`
	TotalMedium    int `json:"totalMedium"`
	MediumDone     int `json:"mediumDone"`
	TotalHard      int `json:"totalHard"`
	HardDone       int `json:"hardDone"`
}

// BuildStats merges per-difficulty totals and solved counts into Stats.
// Difficulties missing from either slice count as zero.
func BuildStats(totalQuestions int, totals, solved []DifficultyCount) Stats {
	stats := Stats{TotalQuestions: totalQuestions}

	for _, row := range solved {
		stats.TotalDone += row.Count
		switch row.Difficulty {
		case Easy:
			stats.EasyDone = row.Count
		case Medium:
			stats.MediumDone = row.Count
		case Hard:
			stats.HardDone = row.Count
		}
	}

	for _, row := range totals {
		switch row.Difficulty {
		case Easy:
			stats.TotalEasy = row.Count
		case Medium:
			stats.TotalMedium = row.Count
		case Hard:
			stats.TotalHard = row.Count
		}
	}

	return stats
}
