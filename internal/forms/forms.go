// Package forms parses url-encoded request bodies into typed form
// structs and validates them.
package forms

import (
	"net/http"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Struct(s any) error {
	return v.validate.Struct(s)
}

type RegisterForm struct {
	Login       string `validate:"required"`
	Password    string `validate:"required"`
	DisplayName string `validate:"required"`
}

func ParseRegister(r *http.Request) RegisterForm {
	return RegisterForm{
		Login:       r.FormValue("login"),
		Password:    r.FormValue("password"),
		DisplayName: r.FormValue("display_name"),
	}
}

type LoginForm struct {
	Login    string `validate:"required"`
	Password string `validate:"required"`
}

func ParseLogin(r *http.Request) LoginForm {
	return LoginForm{
		Login:    r.FormValue("login"),
		Password: r.FormValue("password"),
	}
}

// SettingsForm carries no validation tags: every field may be blank.
// An empty display name means "keep the current one", an empty bio
// clears the bio, and an empty password leaves the credential alone.
type SettingsForm struct {
	DisplayName string
	Bio         string
	Password    string
}

func ParseSettings(r *http.Request) SettingsForm {
	return SettingsForm{
		DisplayName: r.FormValue("display_name"),
		Bio:         r.FormValue("bio"),
		Password:    r.FormValue("password"),
	}
}

type AddFriendForm struct {
	Login string `validate:"required"`
}

func ParseAddFriend(r *http.Request) AddFriendForm {
	return AddFriendForm{Login: r.FormValue("login")}
}

type RemoveFriendForm struct {
	UserID string
}

func ParseRemoveFriend(r *http.Request) RemoveFriendForm {
	return RemoveFriendForm{UserID: r.FormValue("user_id")}
}
