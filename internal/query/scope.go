// Package query turns requester identity and caller-supplied filters into
// query plans. The ownership scope is resolved once per request and threaded
// through every read path; call sites never re-derive role logic.
package query

import "freshtrack/internal/model"

// Scope is the ownership restriction applied to a query. It is a closed set:
// either unrestricted, or restricted to a single owner.
type Scope struct {
	all     bool
	ownerID int64
}

// AllScope returns the unrestricted scope.
func AllScope() Scope {
	return Scope{all: true}
}

// OwnerScope returns a scope restricted to one owner's rows.
func OwnerScope(ownerID int64) Scope {
	return Scope{ownerID: ownerID}
}

// All reports whether the scope carries no ownership restriction.
func (s Scope) All() bool {
	return s.all
}

// OwnerID returns the restricting owner and true, or false for an
// unrestricted scope.
func (s Scope) OwnerID() (int64, bool) {
	if s.all {
		return 0, false
	}
	return s.ownerID, true
}

// ResolveScope derives the ownership scope for a request. USER and ADMIN are
// always confined to their own rows; any target-user filter they supply is
// ignored. SUPER_ADMIN sees everything, optionally narrowed to one target
// user.
func ResolveScope(requesterID int64, role model.Role, targetUserID *int64) Scope {
	if role == model.RoleSuperAdmin {
		if targetUserID != nil {
			return OwnerScope(*targetUserID)
		}
		return AllScope()
	}
	return OwnerScope(requesterID)
}
