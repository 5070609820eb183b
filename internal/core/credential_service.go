package core

import (
	"fmt"

	"ageback-backend-go/internal/crypto"
)

// Credential lengths.
const (
	CredentialLengthStandard = 8
	CredentialLengthPayment  = 10
)

// IssuedCredential is a freshly generated credential. Plain is shown to
// the user once; Hash and Sealed are what gets stored.
type IssuedCredential struct {
	Plain  string
	Hash   string
	Sealed string
}

type credentialService struct {
	key []byte
}

// NewCredentialService seals admin-display copies with key (32 bytes).
func NewCredentialService(key []byte) CredentialService {
	return &credentialService{key: key}
}

func (s *credentialService) Issue(length int) (*IssuedCredential, error) {
	plain, err := crypto.GenerateCredential(length)
	if err != nil {
		return nil, fmt.Errorf("generate credential: %w", err)
	}
	hash, err := crypto.HashCredential(plain)
	if err != nil {
		return nil, fmt.Errorf("hash credential: %w", err)
	}
	sealed, err := crypto.Encrypt(plain, s.key)
	if err != nil {
		return nil, fmt.Errorf("seal credential: %w", err)
	}
	return &IssuedCredential{Plain: plain, Hash: hash, Sealed: sealed}, nil
}

func (s *credentialService) Verify(credential, hash string) (bool, error) {
	return crypto.VerifyCredential(credential, hash)
}

func (s *credentialService) Reveal(sealed string) (string, error) {
	return crypto.Decrypt(sealed, s.key)
}
