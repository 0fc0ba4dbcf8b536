package services

import "errors"

// Every failure the services can produce is one of these kinds. They are
// raised at the point of detection and travel unchanged to the HTTP
// boundary, which owns the mapping to status codes. NotFound and
// Unauthorized are deliberately distinct: a caller probing a foreign
// resource id must not learn whether it exists.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrUnauthorized    = errors.New("unauthorized access")
	ErrInvalidArgument = errors.New("invalid argument")

	ErrRootFolderAlreadyExists = errors.New("user already has a root folder")
	ErrFolderNameNotUnique     = errors.New("folder name must be unique within the directory")
	ErrInvalidFolderName       = errors.New("folder name contains forbidden characters")
	ErrRootFolderImmutable     = errors.New("the root folder cannot be renamed or deleted")
	ErrFolderNotEmpty          = errors.New("folder still contains subfolders or files")

	ErrFileAlreadyExists     = errors.New("a file with the same name and type already exists in the folder")
	ErrIncompleteFileDetails = errors.New("file details are incomplete")

	ErrEmailAlreadyExists = errors.New("an account with that email address already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenExpired          = errors.New("token has expired")
	ErrTokenSignatureInvalid = errors.New("token signature is invalid")
)
