package repositories

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"codetrack/api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrInvalidID = errors.New("invalid id")
)

// DuplicateKeyError reports a unique index violation on Field.
type DuplicateKeyError struct {
	Field string
	Value string
}

func (e *DuplicateKeyError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("Duplicate field value entered for %s", e.Field)
	}
	return fmt.Sprintf("Duplicate field value entered for %s: %s", e.Field, e.Value)
}

var numericSearch = regexp.MustCompile(`^\d+$`)

// BuildQuestionFilter turns the list filters into a Mongo query. A purely
// numeric search matches questionNumber exactly, anything else is a literal
// case-insensitive substring match on questionName.
func BuildQuestionFilter(filter models.QuestionFilter) bson.M {
	query := bson.M{}

	if filter.Search != "" {
		if numericSearch.MatchString(filter.Search) {
			if n, err := strconv.Atoi(filter.Search); err == nil {
				query["questionNumber"] = n
			} else {
				// too large to be a question number
				query["questionNumber"] = -1
			}
		} else {
			query["questionName"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		}
	}

	if filter.Topic != "" {
		query["topic"] = filter.Topic
	}

	if filter.Difficulty != "" {
		query["difficulty"] = filter.Difficulty
	}

	return query
}

// ParseID converts a hex id from the URL into an ObjectID.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	return oid, nil
}
