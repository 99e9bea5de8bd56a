package auth

import (
	"crypto/rand"
	"math/big"

	goerrors "github.com/goliatone/go-errors"
	"golang.org/x/crypto/bcrypt"
)

const codeDigits = "0123456789"

// GenerateCode produces a numeric one-time code and its bcrypt hash. The
// hash goes into the token payload, the plaintext only ever leaves through
// the mailer.
func GenerateCode(length int) (plain string, hash string, err error) {
	if length <= 0 {
		return "", "", goerrors.New("code length must be positive", goerrors.CategoryInternal)
	}

	buf := make([]byte, length)
	max := big.NewInt(int64(len(codeDigits)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read random source")
		}
		buf[i] = codeDigits[n.Int64()]
	}

	plain = string(buf)

	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash code")
	}

	return plain, string(h), nil
}

// CompareCode checks a user supplied code against the hash recovered from a
// token. bcrypt comparison is constant time for matching cost parameters.
func CompareCode(code, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)); err != nil {
		return ErrCodeMismatch
	}
	return nil
}
