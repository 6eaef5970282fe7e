package services

import "context"

// EmailValidator screens an address before account or newsletter signup.
type EmailValidator interface {
	Validate(ctx context.Context, email string) error
}

type LocalValidator struct{}

func NewLocalValidator() *LocalValidator {
	return &LocalValidator{}
}

func (v *LocalValidator) Validate(
	ctx context.Context,
	email string,
) error {
	// format is already checked by the caller, accept everything else
	return nil
}
