// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

// Argon2id cost parameters. Bumping any of these transparently rehashes
// existing credentials on the next successful login.
const (
	argonIterations  = 2
	argonMemoryKiB   = 64 * 1024
	argonParallelism = 4
	argonKeyLength   = 32
	argonSaltLength  = 16
)

var ErrMalformedHash = errors.New("malformed password hash")

func HashPassword(password string) (string, error) {
	salt := make([]byte, argonSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey(
		[]byte(password),
		salt,
		argonIterations,
		argonMemoryKiB,
		argonParallelism,
		argonKeyLength,
	)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemoryKiB,
		argonIterations,
		argonParallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return encoded, nil
}

func VerifyPassword(password, encodedHash string) (bool, error) {
	params, salt, key, err := parseHash(encodedHash)
	if err != nil {
		return false, err
	}

	candidate := argon2.IDKey(
		[]byte(password),
		salt,
		params.iterations,
		params.memoryKiB,
		params.parallelism,
		params.keyLength,
	)

	return subtle.ConstantTimeCompare(key, candidate) == 1, nil
}

// VerifyPasswordWithRehash additionally returns a fresh hash when the
// stored one was produced with outdated cost parameters. An empty
// string means no rehash is needed.
func VerifyPasswordWithRehash(
	password, encodedHash string,
) (bool, string, error) {
	valid, err := VerifyPassword(password, encodedHash)
	if err != nil || !valid {
		return false, "", err
	}

	if staleParameters(encodedHash) {
		newHash, hashErr := HashPassword(password)
		if hashErr != nil {
			//nolint:nilerr // verified fine; a failed rehash upgrade is non-critical
			return true, "", nil
		}
		return true, newHash, nil
	}

	return true, "", nil
}

// decoyHash gives unknown-account login attempts a real argon2 workload
// so response timing does not reveal whether the email exists.
var decoyHash = sync.OnceValue(func() string {
	hash, err := HashPassword("decoy-credential-for-constant-timing")
	if err != nil {
		panic(fmt.Sprintf("security: decoy hash: %v", err))
	}
	return hash
})

func VerifyPasswordTimingSafe(
	password string,
	encodedHash *string,
) (bool, string, error) {
	hashToVerify := decoyHash()
	if encodedHash != nil && *encodedHash != "" {
		hashToVerify = *encodedHash
	}

	valid, newHash, err := VerifyPasswordWithRehash(password, hashToVerify)

	if encodedHash == nil || *encodedHash == "" {
		return false, "", nil
	}

	return valid, newHash, err
}

type hashParams struct {
	memoryKiB   uint32
	iterations  uint32
	parallelism uint8
	keyLength   uint32
}

func parseHash(encodedHash string) (*hashParams, []byte, []byte, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return nil, nil, nil, ErrMalformedHash
	}

	if parts[1] != "argon2id" {
		return nil, nil, nil, fmt.Errorf(
			"%w: unsupported algorithm %q",
			ErrMalformedHash,
			parts[1],
		)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: version", ErrMalformedHash)
	}

	if version != argon2.Version {
		return nil, nil, nil, fmt.Errorf(
			"%w: incompatible version %d",
			ErrMalformedHash,
			version,
		)
	}

	params := &hashParams{}
	_, err := fmt.Sscanf(
		parts[3],
		"m=%d,t=%d,p=%d",
		&params.memoryKiB,
		&params.iterations,
		&params.parallelism,
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: cost params", ErrMalformedHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: salt", ErrMalformedHash)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: key", ErrMalformedHash)
	}

	//nolint:gosec // G115: derived keys are always small
	params.keyLength = uint32(len(key))

	return params, salt, key, nil
}

func staleParameters(encodedHash string) bool {
	params, _, _, err := parseHash(encodedHash)
	if err != nil {
		return true
	}

	return params.memoryKiB != argonMemoryKiB ||
		params.iterations != argonIterations ||
		params.parallelism != argonParallelism ||
		params.keyLength != argonKeyLength
}

func GenerateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

func GenerateRefreshToken() (string, error) {
	return GenerateSecureToken(32)
}

func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func CompareTokenHash(token, hash string) bool {
	tokenHash := HashToken(token)
	return subtle.ConstantTimeCompare([]byte(tokenHash), []byte(hash)) == 1
}
