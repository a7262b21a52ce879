package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/studytrack/core/user"
)

// addUser creates a user.User along with their default assignment types.
func (cli *commandLine) addUser(name, email, pwd string) error {
	ctx := context.Background()
	if _, err := cli.usrSvc.GetByEmail(ctx, email); err == nil {
		return user.ErrEmailExists
	} else if errors.Cause(err) != user.ErrNotFound {
		return err
	}
	_, err := cli.usrSvc.Create(ctx, name, email, pwd)
	return err
}
