package subject

import "github.com/trezcool/studytrack/core"

const msgForbidden = "Unauthorized access to this subject."

// Authorize allows userID to access subj only if they own it.
func Authorize(userID string, subj Subject) error {
	if subj.UserID != userID {
		return core.NewForbiddenError(msgForbidden)
	}
	return nil
}
