package mongo

import (
	"errors"
	"regexp"

	"codetrack/api/internal/repositories"

	"go.mongodb.org/mongo-driver/mongo"
)

// matches `dup key: { link: "https://..." }` in server messages
var dupKeyPattern = regexp.MustCompile(`dup key: \{ ?"?([A-Za-z0-9_.]+)"?: ?"?([^"}]*?)"? ?\}`)

// translate maps driver errors onto the repository error set.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repositories.ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		dup := &repositories.DuplicateKeyError{Field: "field"}
		if m := dupKeyPattern.FindStringSubmatch(err.Error()); m != nil {
			dup.Field, dup.Value = m[1], m[2]
		}
		return dup
	}
	return err
}
