package emailsvc

import (
	"bytes"
	"net/mail"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/studytrack/core"
)

func TestConsoleService(t *testing.T) {
	ResetSentMessages()
	defer ResetSentMessages()

	out := new(bytes.Buffer)
	svc := consoleService{
		from:       mail.Address{Name: "Studytrack", Address: "noreply@localhost"},
		subjPrefix: "[Studytrack] ",
		out:        out,
		wg:         new(sync.WaitGroup),
	}

	svc.SendMessages(
		&core.EmailMessage{
			To:      []mail.Address{{Name: "Jane", Address: "jane@test.cd"}},
			Subject: "Hello",
			BodyStr: "Hi Jane!",
		},
		&core.EmailMessage{Subject: "No recipient", BodyStr: "lost"},
		&core.EmailMessage{To: []mail.Address{{Address: "empty@test.cd"}}, Subject: "No content"},
	)
	svc.Wait()

	sent := SentMessages()
	if assert.Len(t, sent, 1, "messages without recipient or content are dropped") {
		assert.Equal(t, "Hello", sent[0].Subject)
		assert.Equal(t, "Hi Jane!", sent[0].TextContent)
	}

	written := out.String()
	assert.Contains(t, written, "From: \"Studytrack\" <noreply@localhost>\r\n")
	assert.Contains(t, written, "Subject: [Studytrack] Hello\r\n")
	assert.Contains(t, written, "To: \"Jane\" <jane@test.cd>\r\n")
	assert.Contains(t, written, "Content-Type: text/plain; charset=utf-8")
	assert.Contains(t, written, "Hi Jane!")
	assert.NotContains(t, written, "lost")
}
