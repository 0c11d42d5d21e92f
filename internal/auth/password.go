package auth

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

const (
	BcryptCost        = 10
	MinPasswordLength = 8
	// MaxPasswordBytes is bcrypt's input limit, applied to every algorithm.
	MaxPasswordBytes = 72

	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

var (
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong  = fmt.Errorf("password must be at most %d bytes", MaxPasswordBytes)
	ErrPasswordMismatch = errors.New("password does not match")
)

// CheckPassword applies the length rules shared by registration and admin
// resets. The minimum counts characters, the maximum counts bytes.
func CheckPassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// Hasher is a one-way password hash.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	if err := CheckPassword(password); err != nil {
		return "", err
	}
	cost := h.Cost
	if cost == 0 {
		cost = BcryptCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", err
	}
	return string(hashed), nil
}

func (h BcryptHasher) Compare(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return err
	}
	return nil
}

type Argon2idHasher struct {
	Params *argon2id.Params
}

func (h Argon2idHasher) Hash(password string) (string, error) {
	if err := CheckPassword(password); err != nil {
		return "", err
	}
	params := h.Params
	if params == nil {
		params = argon2id.DefaultParams
	}
	return argon2id.CreateHash(password, params)
}

func (h Argon2idHasher) Compare(hash, password string) error {
	ok, err := argon2id.ComparePasswordAndHash(password, hash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPasswordMismatch
	}
	return nil
}

// MultiHasher hashes with Primary and verifies any supported format, so
// stored hashes keep working after the algorithm is switched.
type MultiHasher struct {
	Primary  Hasher
	bcrypt   BcryptHasher
	argon2id Argon2idHasher
}

func NewHasher(algorithm string) (*MultiHasher, error) {
	m := &MultiHasher{bcrypt: BcryptHasher{Cost: BcryptCost}}
	switch algorithm {
	case "", AlgorithmBcrypt:
		m.Primary = m.bcrypt
	case AlgorithmArgon2id:
		m.Primary = m.argon2id
	default:
		return nil, fmt.Errorf("unsupported password algorithm %q", algorithm)
	}
	return m, nil
}

func (m *MultiHasher) Hash(password string) (string, error) {
	return m.Primary.Hash(password)
}

func (m *MultiHasher) Compare(hash, password string) error {
	if strings.HasPrefix(hash, "$argon2id$") {
		return m.argon2id.Compare(hash, password)
	}
	return m.bcrypt.Compare(hash, password)
}
