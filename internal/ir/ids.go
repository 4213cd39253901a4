package ir

import "github.com/google/uuid"

// DefnID is a stable, globally unique handle for a class, trait, type
// parameter, function, field, global, or variable. Definitions form a
// graph (classes point at supertypes, methods, type parameters; type
// parameters point back at their bounds); rather than own references
// that could form reference cycles in Go, every definition is looked
// up by id through a Table, and relationships are stored as id-to-id
// edges.
type DefnID uuid.UUID

var NilDefnID DefnID

func NewDefnID() DefnID {
	return DefnID(uuid.New())
}

func (id DefnID) String() string {
	return uuid.UUID(id).String()
}

func (id DefnID) IsNil() bool {
	return id == NilDefnID
}
