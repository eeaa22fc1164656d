package app

import "github.com/google/uuid"

// newID returns a random UUIDv4 string for a game session.
func newID() string { return uuid.NewString() }

// validID reports whether id is a well-formed UUID.
func validID(id string) bool {
    _, err := uuid.Parse(id)
    return err == nil
}
