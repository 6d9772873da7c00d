package domain

import "context"

// ConversationStore persists one ordered history per user.
//
// Load returns (nil, nil) for a user with no record; absence is not an
// error. Append replaces the stored record with the previous history plus
// the new turns, so callers must serialize Load/Append cycles per user.
// Reset deletes the record and is a no-op for absent users.
type ConversationStore interface {
	Load(ctx context.Context, userID int64) ([]Message, error)
	Append(ctx context.Context, userID int64, turns ...Message) error
	Reset(ctx context.Context, userID int64) error
}
