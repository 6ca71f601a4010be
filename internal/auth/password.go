package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password; out-of-range costs fall back to bcrypt's default.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

var (
	decoyOnce sync.Once
	decoyHash []byte
)

// BurnComparison spends one bcrypt comparison so that logins for unknown
// emails take as long as logins with a wrong password.
func BurnComparison(plain string, cost int) {
	decoyOnce.Do(func() {
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			cost = bcrypt.DefaultCost
		}
		decoyHash, _ = bcrypt.GenerateFromPassword([]byte("decoy-password"), cost)
	})
	_ = bcrypt.CompareHashAndPassword(decoyHash, []byte(plain))
}
