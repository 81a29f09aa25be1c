package repository

import "strings"

// isDuplicateKey reports whether err is a MySQL duplicate entry error
// (error code 1062). Matching on the message avoids pulling the driver's
// error types into every repository.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "1062")
}
