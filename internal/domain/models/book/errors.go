package book

import "granth/internal/domain"

func newConflict(resourceType, id, msg string) error {
	return &domain.ConflictError{Message: msg, ResourceType: resourceType, ResourceID: id}
}

func newValidation(msg string) error {
	return &domain.ValidationError{Message: msg}
}
