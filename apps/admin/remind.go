package main

import (
	"context"
	"fmt"

	"github.com/trezcool/studytrack/core"
	"github.com/trezcool/studytrack/core/dashboard"
)

// remind emails every user with upcoming assignments their digest.
func (cli *commandLine) remind() error {
	ctx := context.Background()
	users, err := cli.usrSvc.QueryAll(ctx)
	if err != nil {
		return err
	}

	messages := make([]*core.EmailMessage, 0, len(users))
	for _, usr := range users {
		upcoming, err := cli.dashSvc.Upcoming(ctx, usr.ID)
		if err != nil {
			return err
		}
		if msg := dashboard.NewReminder(usr, upcoming); msg != nil {
			messages = append(messages, msg)
		}
	}
	cli.mailSvc.SendMessages(messages...)
	if w, ok := cli.mailSvc.(interface{ Wait() }); ok {
		w.Wait()
	}
	fmt.Printf("Sent %d reminder(s)\n", len(messages))
	return nil
}
