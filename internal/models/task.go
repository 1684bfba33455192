package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task is a user-defined reminder. BeforeReminderSent flips once, when the
// "coming up" mail goes out, and is never reset.
type Task struct {
	ID                 primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Heading            string             `json:"heading" bson:"heading"`
	Content            string             `json:"content" bson:"content"`
	Time               time.Time          `json:"time" bson:"time"`
	Email              string             `json:"email" bson:"email"`
	BeforeReminderSent bool               `json:"beforeReminderSent" bson:"beforeReminderSent"`
}

// payload for POST /tasks; Email falls back to the configured default recipient
type CreateTaskRequest struct {
	Heading string     `json:"heading" validate:"required"`
	Content string     `json:"content" validate:"required"`
	Time    *time.Time `json:"time" validate:"required"`
	Email   string     `json:"email" validate:"omitempty,email"`
}

// payload for PUT /tasks/{id}; every field is mandatory
type UpdateTaskRequest struct {
	Heading string     `json:"heading" validate:"required"`
	Content string     `json:"content" validate:"required"`
	Time    *time.Time `json:"time" validate:"required"`
	Email   string     `json:"email" validate:"required,email"`
}
