package policy

import (
	"testing"

	"github.com/sbbdoc/board-api/internal/core/domain"
)

func TestAllows_Matrix(t *testing.T) {
	owner := &domain.Actor{ID: 5, Username: "owner", Role: domain.RoleStandard}
	stranger := &domain.Actor{ID: 9, Username: "stranger", Role: domain.RoleStandard}
	admin := &domain.Actor{ID: 1, Username: "root", Role: domain.RoleAdmin}
	// Same username as owner but a different id: must not be treated as owner.
	impostor := &domain.Actor{ID: 77, Username: "owner", Role: domain.RoleStandard}

	published := &domain.Post{ID: 1, AuthorID: 5, Published: true, Listed: true}
	draft := &domain.Post{ID: 2, AuthorID: 5}

	cases := []struct {
		name  string
		actor *domain.Actor
		res   domain.Resource
		op    Operation
		want  bool
	}{
		{"anonymous reads published", nil, published, Read, true},
		{"anonymous reads draft", nil, draft, Read, false},
		{"stranger reads published", stranger, published, Read, true},
		{"stranger reads draft", stranger, draft, Read, false},
		{"owner reads draft", owner, draft, Read, true},
		{"impostor reads draft", impostor, draft, Read, false},

		{"anonymous modifies", nil, published, Modify, false},
		{"stranger modifies", stranger, published, Modify, false},
		{"owner modifies", owner, published, Modify, true},
		{"impostor modifies", impostor, published, Modify, false},

		{"anonymous deletes", nil, draft, Delete, false},
		{"stranger deletes", stranger, draft, Delete, false},
		{"owner deletes", owner, draft, Delete, true},

		{"admin without override modifies", admin, published, Modify, false},
		{"admin without override reads draft", admin, draft, Read, false},
		{"unknown operation", owner, published, Operation(42), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Allows(tc.actor, tc.res, tc.op); got != tc.want {
				t.Errorf("Allows(%v, %s) = %v, want %v", tc.actor, tc.op, got, tc.want)
			}
		})
	}
}

func TestAllows_OwnershipIsIDEquality(t *testing.T) {
	for authorID := int64(1); authorID <= 5; authorID++ {
		post := &domain.Post{ID: 100, AuthorID: authorID, Published: true}
		for actorID := int64(1); actorID <= 5; actorID++ {
			actor := &domain.Actor{ID: actorID}
			want := actorID == authorID
			if got := Allows(actor, post, Modify); got != want {
				t.Errorf("actor %d on post by %d: Modify = %v, want %v", actorID, authorID, got, want)
			}
			if got := Allows(actor, post, Delete); got != want {
				t.Errorf("actor %d on post by %d: Delete = %v, want %v", actorID, authorID, got, want)
			}
		}
	}
}

func TestAllows_CommentFollowsOwnership(t *testing.T) {
	comment := &domain.Comment{ID: 3, PostID: 1, AuthorID: 5}

	if !Allows(nil, comment, Read) {
		t.Error("comments carry no visibility flag of their own")
	}
	if Allows(&domain.Actor{ID: 9}, comment, Delete) {
		t.Error("non-author must not delete a comment")
	}
	if !Allows(&domain.Actor{ID: 5}, comment, Modify) {
		t.Error("author must be able to modify a comment")
	}
}

func TestPolicy_AdminOverride(t *testing.T) {
	p := Policy{AdminOverride: true}
	admin := &domain.Actor{ID: 1, Role: domain.RoleAdmin}
	draft := &domain.Post{ID: 2, AuthorID: 5}

	for _, op := range []Operation{Read, Modify, Delete} {
		if !p.Allows(admin, draft, op) {
			t.Errorf("admin override must allow %s", op)
		}
	}
	if p.Allows(&domain.Actor{ID: 9, Role: domain.RoleStandard}, draft, Delete) {
		t.Error("override must not extend to standard actors")
	}
	if p.Allows(nil, draft, Read) {
		t.Error("override must not extend to anonymous callers")
	}
}
