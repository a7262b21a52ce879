package assignment

import (
	"github.com/trezcool/studytrack/core"
	"github.com/trezcool/studytrack/core/subject"
)

const msgNotFound = "Assignment not found for this subject."

// Authorize allows userID to access a through subj:
// userID must own subj (Forbidden) and a must belong to subj (NotFound).
func Authorize(userID string, subj subject.Subject, a Assignment) error {
	if err := subject.Authorize(userID, subj); err != nil {
		return err
	}
	if a.SubjectID != subj.ID {
		return core.NewNotFoundError(msgNotFound)
	}
	return nil
}
