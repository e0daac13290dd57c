package domain

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrDuplicateUsername     = errors.New("username already taken")
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrUserNotFound          = errors.New("user not found")
	ErrPostNotFound          = errors.New("post not found")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidImage          = errors.New("invalid image format")
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrForbidden             = errors.New("forbidden")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrInvalidInput, "InvalidInput"},
	{ErrDuplicateUsername, "DuplicateUsername"},
	{ErrDuplicateEmail, "DuplicateEmail"},
	{ErrUserNotFound, "UserNotFound"},
	{ErrPostNotFound, "PostNotFound"},
	{ErrInvalidCredentials, "InvalidCredentials"},
	{ErrInvalidImage, "InvalidImage"},
	{ErrTokenMalformed, "TokenMalformed"},
	{ErrTokenExpired, "TokenExpired"},
	{ErrTokenSignatureInvalid, "TokenSignatureInvalid"},
	{ErrForbidden, "Forbidden"},
}

// Kind names the category of err, or "Internal" when it is not one of the
// errors declared in this package.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Internal"
}
