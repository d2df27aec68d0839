package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// AnonymousAuthorName is shown for comments posted without a name.
const AnonymousAuthorName = "Utente Anonimo"

const (
	maxCommentBody   = 2000
	maxAuthorNameLen = 100
)

// Comment is a store review. Comments are append-only.
type Comment struct {
	ID         int64
	Rating     int
	Body       string
	AuthorName string
	Anonymous  bool
	CreatedAt  time.Time
}

// NewComment validates a submission and applies the anonymous placeholder.
func NewComment(rating int, body, authorName string, anonymous bool, now time.Time) (Comment, error) {
	if rating < 1 || rating > 5 {
		return Comment{}, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return Comment{}, fmt.Errorf("%w: comment body is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(body) > maxCommentBody {
		return Comment{}, fmt.Errorf("%w: comment body must be <= %d characters", ErrInvalidInput, maxCommentBody)
	}
	authorName = strings.TrimSpace(authorName)
	if anonymous || authorName == "" {
		authorName = AnonymousAuthorName
		anonymous = true
	}
	if utf8.RuneCountInString(authorName) > maxAuthorNameLen {
		return Comment{}, fmt.Errorf("%w: author name must be <= %d characters", ErrInvalidInput, maxAuthorNameLen)
	}
	return Comment{
		Rating:     rating,
		Body:       body,
		AuthorName: authorName,
		Anonymous:  anonymous,
		CreatedAt:  now,
	}, nil
}
