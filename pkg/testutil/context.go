package testutil

import (
	"net/http"

	id "credverify/pkg/domain"
	"credverify/pkg/requestcontext"
)

// WithOwner simulates the auth middleware for handler tests.
func WithOwner(req *http.Request, ownerID id.OwnerID, role id.Role) *http.Request {
	return req.WithContext(requestcontext.WithOwner(req.Context(), ownerID, role))
}

// AsApplicant is WithOwner for the applicant role.
func AsApplicant(req *http.Request, ownerID id.OwnerID) *http.Request {
	return WithOwner(req, ownerID, id.RoleApplicant)
}

// AsStaff is WithOwner for the staff role.
func AsStaff(req *http.Request, ownerID id.OwnerID) *http.Request {
	return WithOwner(req, ownerID, id.RoleStaff)
}
