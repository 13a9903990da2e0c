// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinBcryptCost = 10
	MaxBcryptCost = 31

	tempPasswordLength = 16
)

// Hasher wraps bcrypt with a cost fixed at construction time. The cost
// comes from configuration so deployments can track hardware baselines
// without a code change.
type Hasher struct {
	cost      int
	dummyHash string
}

func NewHasher(cost int) (*Hasher, error) {
	if cost < MinBcryptCost || cost > MaxBcryptCost {
		return nil, fmt.Errorf(
			"bcrypt cost %d outside [%d, %d]",
			cost,
			MinBcryptCost,
			MaxBcryptCost,
		)
	}

	// Pre-computed hash compared against when no account exists, so a
	// login miss costs the same as a wrong password.
	dummy, err := bcrypt.GenerateFromPassword(
		[]byte("dummy_password_for_timing_attack_prevention"),
		cost,
	)
	if err != nil {
		return nil, fmt.Errorf("generate dummy hash: %w", err)
	}

	return &Hasher{cost: cost, dummyHash: string(dummy)}, nil
}

func (h *Hasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (h *Hasher) Verify(password, encodedHash string) bool {
	return bcrypt.CompareHashAndPassword(
		[]byte(encodedHash),
		[]byte(password),
	) == nil
}

// VerifyTimingSafe behaves like Verify but accepts a nil hash for the
// account-does-not-exist case: it still runs a full bcrypt comparison
// and always reports failure, keeping response timing uniform.
func (h *Hasher) VerifyTimingSafe(password string, encodedHash *string) bool {
	hashToVerify := h.dummyHash
	if encodedHash != nil && *encodedHash != "" {
		hashToVerify = *encodedHash
	}

	valid := h.Verify(password, hashToVerify)

	if encodedHash == nil || *encodedHash == "" {
		return false
	}

	return valid
}

var tempPasswordClasses = []string{
	"ABCDEFGHJKLMNPQRSTUVWXYZ",
	"abcdefghijkmnopqrstuvwxyz",
	"23456789",
	"!@#$%^&*-_=+",
}

// GenerateTempPassword returns a random password with at least one
// character from every class, so generated credentials satisfy the
// same strength policy enforced on user-chosen passwords.
func GenerateTempPassword() (string, error) {
	chars := make([]byte, 0, tempPasswordLength)

	for _, class := range tempPasswordClasses {
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	all := ""
	for _, class := range tempPasswordClasses {
		all += class
	}

	for len(chars) < tempPasswordLength {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	if err := shuffle(chars); err != nil {
		return "", err
	}

	return string(chars), nil
}

func randomChar(alphabet string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		return 0, fmt.Errorf("generate random index: %w", err)
	}
	return alphabet[n.Int64()], nil
}

func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return fmt.Errorf("shuffle: %w", err)
		}
		j := n.Int64()
		b[i], b[j] = b[j], b[i]
	}
	return nil
}
