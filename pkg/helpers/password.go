package helpers

import "golang.org/x/crypto/bcrypt"

// DefaultPasswordCost matches the 10 rounds used for stored credentials.
const DefaultPasswordCost = 10

// HashPassword hashes the plain text password using bcrypt
func HashPassword(plain string) (string, error) {
	return HashPasswordCost(plain, DefaultPasswordCost)
}

// HashPasswordCost hashes with an explicit bcrypt cost; out-of-range costs fall back to the default.
func HashPasswordCost(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultPasswordCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CompareHashAndPassword compares a bcrypt hash with a plain password
func CompareHashAndPassword(hash string, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// BcryptHasher adapts the bcrypt helpers to the application's PasswordHasher.
type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) BcryptHasher { return BcryptHasher{Cost: cost} }

func (h BcryptHasher) Hash(plain string) (string, error) { return HashPasswordCost(plain, h.Cost) }

func (h BcryptHasher) Compare(hash, plain string) bool { return CompareHashAndPassword(hash, plain) }
