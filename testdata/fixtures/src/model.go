package model

import (
	"fmt"

	"example.com/demo/internal/util"
)

// User is a registered account.
type User struct {
	Name string
}

// Repository loads users.
type Repository interface {
	Find(name string) (*User, error)
}

// Describe renders a user for logs.
func (u *User) Describe() string {
	return fmt.Sprintf("user %s", util.Title(u.Name))
}

func newUser(name string) *User {
	return &User{Name: name}
}
