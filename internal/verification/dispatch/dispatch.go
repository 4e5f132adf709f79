// Package dispatch routes a new verification request to its processing path.
package dispatch

import (
	instmodels "credverify/internal/institution/models"
	"credverify/internal/verification/models"
)

// Decide picks the processing path from the institution's configuration.
// Auto institutions without usable API credentials fall back to document
// analysis; manual institutions reachable by API still need a staff member
// to trigger the call.
func Decide(inst *instmodels.Institution) models.Route {
	if inst.Process == instmodels.ProcessAuto {
		if inst.HasAPICredentials() {
			return models.RouteAPIAuto
		}
		return models.RouteAIDocument
	}
	if inst.Connection == instmodels.ConnectionAPI && inst.HasAPICredentials() {
		return models.RouteAPIManual
	}
	return models.RouteManual
}
