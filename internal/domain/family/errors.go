package family

import "errors"

var (
	ErrFamilyNotFound       = errors.New("family not found")
	ErrFamilyCodeNotFound   = errors.New("family code not found")
	ErrAlreadyMember        = errors.New("already a member")
	ErrMembershipNotFound   = errors.New("membership not found")
	ErrCodeGenerationFailed = errors.New("invite code generation failed")
)
