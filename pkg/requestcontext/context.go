// Package requestcontext provides HTTP-independent accessors for request-scoped
// values: the authenticated owner, their role, the correlation id and the
// request time.
//
// Middleware sets these values; services read them. Services never consult
// any other ambient state, so tests inject everything through the context:
//
//	ctx = requestcontext.WithOwner(ctx, ownerID, id.RoleApplicant)
//	ctx = requestcontext.WithRequestID(ctx, "req-1")
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "credverify/pkg/domain"
)

type (
	ownerIDKey     struct{}
	roleKey        struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// OwnerID returns the authenticated owner, or the nil id when unauthenticated.
func OwnerID(ctx context.Context) id.OwnerID {
	if ownerID, ok := ctx.Value(ownerIDKey{}).(id.OwnerID); ok {
		return ownerID
	}
	return id.OwnerID{}
}

// Role returns the caller's role, or the empty role when unauthenticated.
func Role(ctx context.Context) id.Role {
	if role, ok := ctx.Value(roleKey{}).(id.Role); ok {
		return role
	}
	return ""
}

// IsStaff reports whether the caller is a staff operator.
func IsStaff(ctx context.Context) bool {
	return Role(ctx) == id.RoleStaff
}

// WithOwner injects the authenticated owner and role.
func WithOwner(ctx context.Context, ownerID id.OwnerID, role id.Role) context.Context {
	ctx = context.WithValue(ctx, ownerIDKey{}, ownerID)
	return context.WithValue(ctx, roleKey{}, role)
}

// RequestID returns the correlation id for the current request.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now returns the request-scoped time.
// Falls back to time.Now() outside HTTP requests (workers, tests without injection).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the request time. Background workers use it to keep one
// timestamp across a unit of work.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// Detach returns a context carrying the same request values as ctx but none of
// its cancellation, for work that outlives the originating request.
func Detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
