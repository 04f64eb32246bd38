package main

import (
	"context"
	"fmt"

	"github.com/trezcool/dotcoder/core/user"
)

// addUser creates the user, or updates their name, password and role when the email is known.
func (cli *commandLine) addUser(name, email, pwd string, isAdmin bool) error {
	role := user.RoleUser
	if isAdmin {
		role = user.RoleAdmin
	}
	usr, err := cli.usrSvc.Save(context.Background(), name, email, pwd, role)
	if err != nil {
		return err
	}
	fmt.Printf("saved %s <%s> (%s)\n", usr.Name, usr.Email, usr.Role)
	return nil
}

func (cli *commandLine) setAdmin(email string, grant bool) error {
	role := user.RoleUser
	if grant {
		role = user.RoleAdmin
	}
	usr, err := cli.usrSvc.SetRole(context.Background(), email, role)
	if err != nil {
		return err
	}
	fmt.Printf("%s is now %s\n", usr.Email, usr.Role)
	return nil
}

func (cli *commandLine) resetPassword(email, pwd string) error {
	_, err := cli.usrSvc.SetPassword(context.Background(), email, pwd)
	return err
}
