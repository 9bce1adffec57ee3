// Package security hashes passwords and issues the bearer tokens the
// development backend hands out on sign-in.
package security

import (
	"github.com/alexedwards/argon2id"
)

// HashParams is used for every new hash. Tests lower it.
var HashParams = argon2id.DefaultParams

func HashPassword(password string) (string, error) {
	return argon2id.CreateHash(password, HashParams)
}

// ComparePassword reports whether password matches hash. A malformed hash is
// an error, a wrong password is not.
func ComparePassword(password, hash string) (bool, error) {
	return argon2id.ComparePasswordAndHash(password, hash)
}
