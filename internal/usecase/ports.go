package usecase

import (
	"github.com/polkiloo/safepick/internal/domain/model"
	"github.com/polkiloo/safepick/internal/pkg/credential"
	"github.com/polkiloo/safepick/internal/pkg/scantoken"
)

// CredentialIssuer issues, recovers and verifies one-time pickup codes.
type CredentialIssuer interface {
	Issue() (*credential.Issued, error)
	Recover(cipherText string) (string, error)
	Verify(hash, code string) error
}

// TokenCodec mints and checks scan tokens.
type TokenCodec interface {
	Encode(p scantoken.Payload) (string, error)
	Decode(token string) (*scantoken.Payload, error)
	Verify(token string, order *model.WithdrawalOrder, credential *model.PickerCredential) (*scantoken.Payload, error)
}

// Notifier hands guardian notifications to an asynchronous sink.
type Notifier interface {
	// Enqueue never blocks; it returns false when the notification was dropped.
	Enqueue(n model.Notification) bool
}
