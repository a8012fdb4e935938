package api

import (
	"errors"

	"github.com/xraph/forge"

	"github.com/terralink/cadastre"
)

// mapError maps domain errors to Forge HTTP errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return forge.NotFound(err.Error())
	}
	if errors.Is(err, cadastre.ErrMalformedPolicy) {
		return forge.BadRequest(err.Error())
	}
	if errors.Is(err, cadastre.ErrDuplicateAssignment) || errors.Is(err, cadastre.ErrDuplicateMembership) {
		return forge.BadRequest(err.Error())
	}
	if errors.Is(err, cadastre.ErrUnknownPrincipal) || errors.Is(err, cadastre.ErrScopeArchived) {
		return forge.BadRequest(err.Error())
	}
	if errors.Is(err, cadastre.ErrAccessDenied) {
		return forge.Forbidden(err.Error())
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, cadastre.ErrPolicyNotFound) ||
		errors.Is(err, cadastre.ErrAssignmentNotFound) ||
		errors.Is(err, cadastre.ErrOrganizationNotFound) ||
		errors.Is(err, cadastre.ErrProjectNotFound) ||
		errors.Is(err, cadastre.ErrPartyNotFound) ||
		errors.Is(err, cadastre.ErrSpatialUnitNotFound) ||
		errors.Is(err, cadastre.ErrTenureNotFound)
}

func defaultLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}
