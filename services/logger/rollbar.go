package logsvc

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/studytrack/core"
	"github.com/trezcool/studytrack/core/user"
)

// RollbarLogger writes every entry to std and reports it to rollbar with its own client,
// so that loggers never share a person.
type RollbarLogger struct {
	std    *log.Logger
	client *rollbar.Client
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	client := rollbar.New(conf.RollbarToken, conf.Env, conf.Build, conf.Server.Host, "")
	client.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std, client: client}
}

func (l *RollbarLogger) Enable(enabled bool) {
	l.client.SetEnabled(enabled)
}

// Close waits for the queued reports.
func (l *RollbarLogger) Close() error {
	return l.client.Close()
}

// entry is a log call split by argument kind.
// Accepted args: error, map[string]interface{}, user.User (or *user.User); anything else goes to "args".
type entry struct {
	msg    string
	err    error
	extras map[string]interface{}
	person *rollbar.Person
	rest   []interface{}
}

func newEntry(msg string, args []interface{}) entry {
	e := entry{msg: msg, extras: make(map[string]interface{})}
	for _, arg := range args {
		switch v := arg.(type) {
		case error:
			if e.err == nil {
				e.err = v
				continue
			}
			e.rest = append(e.rest, v)
		case map[string]interface{}:
			for key, val := range v {
				e.extras[key] = val
			}
		case user.User:
			e.setPerson(v)
		case *user.User:
			if v != nil {
				e.setPerson(*v)
			}
		default:
			e.rest = append(e.rest, v)
		}
	}
	if len(e.rest) > 0 {
		e.extras["args"] = e.rest
	}
	if e.err != nil && e.err.Error() != msg {
		e.extras["message"] = msg
	}
	return e
}

// setPerson keeps the first identified user.
func (e *entry) setPerson(usr user.User) {
	if e.person == nil && usr.ID != "" {
		e.person = &rollbar.Person{Id: usr.ID, Username: usr.Name, Email: usr.Email}
	}
}

func (e entry) context() context.Context {
	ctx := context.Background()
	if e.person != nil {
		ctx = rollbar.NewPersonContext(ctx, e.person)
	}
	return ctx
}

func (l *RollbarLogger) log(level string, msg string, args []interface{}) {
	e := newEntry(msg, args)
	if e.err != nil {
		l.client.ErrorWithStackSkipWithExtrasAndContext(e.context(), level, e.err, 2, e.extras)
	} else {
		l.client.MessageWithExtrasAndContext(e.context(), level, e.msg, e.extras)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", strings.ToUpper(level), msg)
	if e.err != nil {
		fmt.Fprintf(&b, "\n%+v", e.err)
	}
	for _, arg := range e.rest {
		fmt.Fprintf(&b, "\n%+v", arg)
	}
	l.std.Println(b.String())
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) {
	l.log(rollbar.DEBUG, msg, args)
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	l.log(rollbar.INFO, msg, args)
}

func (l *RollbarLogger) Warn(msg string, args ...interface{}) {
	l.log(rollbar.WARN, msg, args)
}

func (l *RollbarLogger) Error(msg string, args ...interface{}) {
	l.log(rollbar.ERR, msg, args)
}

// Fatal reports a critical entry, waits for it to be sent then exits.
func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.log(rollbar.CRIT, msg, args)
	l.client.Wait()
	l.std.Fatal(msg)
}
