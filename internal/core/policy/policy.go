// Package policy decides whether an actor may act on a resource.
package policy

import "github.com/sbbdoc/board-api/internal/core/domain"

// Operation is the kind of access being requested.
type Operation int

const (
	Read Operation = iota
	Modify
	Delete
)

func (o Operation) String() string {
	switch o {
	case Read:
		return "read"
	case Modify:
		return "modify"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// Policy is a stateless set of access predicates. The zero value is the
// production default: ownership alone grants modify and delete.
type Policy struct {
	// AdminOverride lets admin-role actors pass every check.
	AdminOverride bool
}

// Allows reports whether actor may perform op on r. A nil actor is anonymous.
// Ownership compares ids only.
func (p Policy) Allows(actor *domain.Actor, r domain.Resource, op Operation) bool {
	if p.AdminOverride && actor.IsAdmin() {
		return true
	}

	owner := actor != nil && actor.ID == r.OwnerID()

	switch op {
	case Read:
		return r.IsPublished() || owner
	case Modify, Delete:
		return owner
	default:
		return false
	}
}

// Allows evaluates the default Policy.
func Allows(actor *domain.Actor, r domain.Resource, op Operation) bool {
	return Policy{}.Allows(actor, r, op)
}
