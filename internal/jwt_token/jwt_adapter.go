package jwttoken

import (
	"credverify/internal/platform/middleware"
	id "credverify/pkg/domain"
)

// Adapter exposes JWTService as a middleware.TokenValidator.
type Adapter struct {
	service *JWTService
}

func NewAdapter(service *JWTService) *Adapter {
	return &Adapter{service: service}
}

func (a *Adapter) ValidateToken(tokenString string) (*middleware.Principal, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	ownerID, err := id.ParseOwnerID(claims.Subject)
	if err != nil {
		return nil, err
	}
	return &middleware.Principal{OwnerID: ownerID, Role: id.Role(claims.Role)}, nil
}
