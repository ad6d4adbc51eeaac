package service

import (
	"github.com/aussiebroadwan/todo/internal/todo/domain"
	"github.com/aussiebroadwan/todo/pkg/jwtx"
)

// Operation is a todo API operation subject to role policy.
type Operation string

const (
	OpList   Operation = "list"
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Policy maps each operation to the role names that grant it.
type Policy map[Operation][]string

// SharedRolePolicy grants all five operations to one shared role. This is
// the default deployment shape; per-operation roles are an override.
func SharedRolePolicy(role string) Policy {
	return Policy{
		OpList:   {role},
		OpRead:   {role},
		OpCreate: {role},
		OpUpdate: {role},
		OpDelete: {role},
	}
}

// Decision is the outcome of authorizing one (identity, operation) pair.
// Computed fresh per request, never stored.
type Decision struct {
	// Allowed reports whether the operation may proceed at all.
	Allowed bool

	// Owner scopes data access to a single owner when set. nil means the
	// caller operates across all owners (service-to-service callers).
	Owner *string

	subject string
}

// NewOwner is the owner written onto records the caller creates: the
// caller's subject when one is derivable, else the system sentinel.
func (d Decision) NewOwner() string {
	if d.subject != "" {
		return d.subject
	}
	return domain.SystemOwner
}

// Authorizer decides, per request, whether an operation is allowed and
// what row-ownership filter applies.
type Authorizer struct {
	policy Policy
}

func NewAuthorizer(policy Policy) *Authorizer {
	return &Authorizer{policy: policy}
}

// Authorize applies the role policy and computes the ownership filter.
//
// Interactive users are scoped to their own records; service callers
// (no session claim) operate across the whole collection. A user session
// without a derivable subject fails closed: an empty-string owner filter
// must never reach the store, where it would match only records owned by
// the empty string.
func (a *Authorizer) Authorize(id jwtx.Identity, op Operation) Decision {
	if !anyRole(id, a.policy[op]) {
		return Decision{}
	}

	if id.IsUserSession() {
		if id.Subject == "" {
			return Decision{}
		}
		owner := id.Subject
		return Decision{Allowed: true, Owner: &owner, subject: id.Subject}
	}

	return Decision{Allowed: true, subject: id.Subject}
}

func anyRole(id jwtx.Identity, accepted []string) bool {
	for _, role := range accepted {
		if id.HasRole(role) {
			return true
		}
	}
	return false
}
