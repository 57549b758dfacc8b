package credential

import (
	"go.uber.org/fx"

	"github.com/polkiloo/safepick/internal/config"
	"github.com/polkiloo/safepick/internal/pkg/auth"
)

// Module provides the pickup code issuer.
var Module = fx.Provide(newIssuer)

type issuerParams struct {
	fx.In

	Config *config.Config
}

func newIssuer(p issuerParams) (*Issuer, error) {
	key, err := DeriveKey(p.Config.CodeEncryptionKey)
	if err != nil {
		return nil, err
	}
	return NewIssuer(auth.NewBcryptHasher(p.Config.CodeHashCost), key, Options{
		ExpiryHour: p.Config.CodeExpiryHour,
		Location:   p.Config.Location,
	})
}
