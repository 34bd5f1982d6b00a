package expenses

import "errors"

// ErrExpenseNotFound also covers mutations that target another user's
// expense: the owner-scoped predicate affects zero rows and the row's
// existence is not disclosed.
var ErrExpenseNotFound = errors.New("expense not found")
