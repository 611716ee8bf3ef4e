package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"
	"unicode"

	"sevensystem/internal/model"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 100_000
	registroSaltLen  = 16
)

func hashFunc(algoritmo string) (func() hash.Hash, int, error) {
	switch algoritmo {
	case model.AlgPBKDF2SHA256, "":
		return sha256.New, sha256.Size, nil
	case model.AlgPBKDF2SHA512:
		return sha512.New, sha512.Size, nil
	}
	return nil, 0, fmt.Errorf("algoritmo de senha desconhecido %q", algoritmo)
}

// HashSenha derives the hex encoded PBKDF2 hash of senha with the given salt.
func HashSenha(algoritmo, senha string, salt []byte) (string, error) {
	h, size, err := hashFunc(algoritmo)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(pbkdf2.Key([]byte(senha), salt, pbkdf2Iterations, size, h)), nil
}

// NovaSenhaRegistro hashes a password for a new registry account: SHA-256
// with a 16-byte random salt. Hash and salt are returned hex encoded.
func NovaSenhaRegistro(senha string) (hashHex, saltHex string, err error) {
	salt := make([]byte, registroSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", "", err
	}
	hashHex, err = HashSenha(model.AlgPBKDF2SHA256, senha, salt)
	return hashHex, hex.EncodeToString(salt), err
}

// NovaSenhaAlteracao hashes a changed password: SHA-512 with a salt made of
// the 64 ASCII hex digits of SHA-256 over 60 random bytes.
func NovaSenhaAlteracao(senha string) (hashHex, saltHex string, err error) {
	seed := make([]byte, 60)
	if _, err := rand.Read(seed); err != nil {
		return "", "", err
	}
	sum := sha256.Sum256(seed)
	salt := []byte(hex.EncodeToString(sum[:]))
	hashHex, err = HashSenha(model.AlgPBKDF2SHA512, senha, salt)
	return hashHex, hex.EncodeToString(salt), err
}

// ConferirSenha reports whether senha matches the stored hex hash and salt.
func ConferirSenha(algoritmo, senha, hashHex, saltHex string) bool {
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	got, err := HashSenha(algoritmo, senha, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(strings.ToLower(hashHex))) == 1
}

const simbolosSenha = "!@#$%^&*()-_=+[]{}|;:,.<>?"

// SenhaForte: at least 8 characters with a lowercase letter, an uppercase
// letter, a digit and one of simbolosSenha.
func SenhaForte(s string) bool {
	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
		if strings.ContainsRune(simbolosSenha, r) {
			symbol = true
		}
	}
	return len([]rune(s)) >= 8 && lower && upper && digit && symbol
}
