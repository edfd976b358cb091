package dto

import "time"

type RegisterInput struct {
	Email    string
	Name     string
	Password string
	Confirm  string
}

type UserOutput struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
}
