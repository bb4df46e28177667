package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the bcrypt hash of password. bcrypt embeds a fresh
// per-record salt in the hash, so equal passwords never share a hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
// It never returns an error: a wrong password and a malformed hash both
// read as a mismatch.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
