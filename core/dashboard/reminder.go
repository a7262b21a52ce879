package dashboard

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/trezcool/studytrack/core"
	"github.com/trezcool/studytrack/core/user"
)

const ReminderTemplate = "upcoming_assignments"

type (
	reminderEntry struct {
		DueDate     time.Time
		SubjectName string
		Name        string
		IsDueSoon   bool
	}

	reminderData struct {
		Name        string
		Assignments []reminderEntry
	}
)

// NewReminder builds the digest of usr's upcoming assignments. It is nil when nothing is upcoming.
func NewReminder(usr user.User, upcoming []Item) *core.EmailMessage {
	if len(upcoming) == 0 {
		return nil
	}
	data := reminderData{Name: usr.Name, Assignments: make([]reminderEntry, 0, len(upcoming))}
	for _, it := range upcoming {
		data.Assignments = append(data.Assignments, reminderEntry{
			DueDate:     it.DueDate,
			SubjectName: it.Subject.Name,
			Name:        it.Name,
			IsDueSoon:   it.IsDueSoon,
		})
	}
	return &core.EmailMessage{
		To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject:      fmt.Sprintf("%d upcoming assignment(s)", len(upcoming)),
		TemplateName: ReminderTemplate,
		TemplateData: data,
	}
}
