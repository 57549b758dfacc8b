package usecase

import (
	"go.uber.org/fx"

	"github.com/polkiloo/safepick/internal/pkg/credential"
	"github.com/polkiloo/safepick/internal/pkg/scantoken"
)

// Module provides core business use cases to the fx container.
var Module = fx.Options(
	fx.Provide(
		func(i *credential.Issuer) CredentialIssuer { return i },
		func(c *scantoken.Codec) TokenCodec { return c },
	),
	fx.Provide(
		NewAuthUseCase,
		NewChildUseCase,
		NewPickerAuthUseCase,
		NewWithdrawalUseCase,
	),
)
