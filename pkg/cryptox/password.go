package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	// ErrInvalidHash reports a stored hash that could not be parsed. This is
	// distinct from a mismatch: it means the stored credential is corrupted.
	ErrInvalidHash = errors.New("cryptox: malformed password hash")

	// ErrPasswordMismatch reports that the password does not match the hash.
	ErrPasswordMismatch = errors.New("cryptox: password does not match")
)

// HashPassword derives an Argon2id hash of the password with a fresh random
// salt and returns it as a PHC-format string. The output embeds the algorithm
// parameters and salt, so verification needs nothing beyond the string itself.
// Two calls with the same password produce different strings.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("cryptox: generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password+GetPepper()), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyPassword recomputes the hash using the parameters and salt embedded
// in encodedHash and compares in constant time. A wrong password returns
// ErrPasswordMismatch; a hash that cannot be parsed returns ErrInvalidHash.
func VerifyPassword(password, encodedHash string) error {
	mem, iters, par, salt, want, err := decodeHash(encodedHash)
	if err != nil {
		return err
	}

	// #nosec G115 -- key length is bounded by the decoded hash size
	got := argon2.IDKey([]byte(password+GetPepper()), salt, iters, mem, par, uint32(len(want)))

	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

// decodeHash splits a PHC string of the form
// $argon2id$v=19$m=X,t=Y,p=Z$salt$hash into its components.
func decodeHash(encodedHash string) (mem, iters uint32, par uint8, salt, hash []byte, err error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return 0, 0, 0, nil, nil, fmt.Errorf("%w: expected 6 segments", ErrInvalidHash)
	}
	if parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, fmt.Errorf("%w: unsupported algorithm %q", ErrInvalidHash, parts[1])
	}
	if parts[2] != "v=19" {
		return 0, 0, 0, nil, nil, fmt.Errorf("%w: unsupported version %q", ErrInvalidHash, parts[2])
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("%w: bad parameters: %v", ErrInvalidHash, err)
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("%w: bad salt encoding", ErrInvalidHash)
	}
	hash, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("%w: bad hash encoding", ErrInvalidHash)
	}
	if len(hash) == 0 {
		return 0, 0, 0, nil, nil, fmt.Errorf("%w: empty hash", ErrInvalidHash)
	}

	return mem, iters, par, salt, hash, nil
}
