package main

import (
	"context"
	"fmt"
)

// seedTypes gives every user the default assignment types they do not have yet.
func (cli *commandLine) seedTypes() error {
	ctx := context.Background()
	users, err := cli.usrSvc.QueryAll(ctx)
	if err != nil {
		return err
	}
	for _, usr := range users {
		if err := cli.typeSvc.SeedDefaultTypes(ctx, usr.ID); err != nil {
			return err
		}
	}
	fmt.Printf("Seeded default assignment types for %d user(s)\n", len(users))
	return nil
}
