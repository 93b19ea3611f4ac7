package repositories

import "errors"

// Store errors, translated once at the repository boundary so services never
// see raw driver errors.
var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicateKey        = errors.New("duplicate key value violates a unique constraint")
	ErrForeignKeyViolation = errors.New("referenced record does not exist")
)

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsDuplicateKeyError(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}

func IsForeignKeyError(err error) bool {
	return errors.Is(err, ErrForeignKeyViolation)
}
