package auth

import (
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const totpIssuer = "PeopleOps"

func GenerateMFASecret(accountEmail string) (*otp.Key, error) {
	return totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: accountEmail,
	})
}

func ValidateMFACode(code, secret string) bool {
	return totp.Validate(code, secret)
}
