package providers

import (
	"crypto/sha256"

	"github.com/samber/do/v2"

	"github.com/booksphere/booksphere-server/internal/auth"
	"github.com/booksphere/booksphere-server/internal/config"
	"github.com/booksphere/booksphere-server/internal/logger"
	"github.com/booksphere/booksphere-server/internal/signedurl"
)

// AuthKey wraps the authentication key bytes.
type AuthKey []byte

// ProvideAuthKey loads or generates the authentication key.
func ProvideAuthKey(i do.Injector) (AuthKey, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	key, err := auth.LoadOrGenerateKey(cfg.Data.BasePath)
	if err != nil {
		return nil, err
	}

	// Update config with the loaded key
	cfg.Auth.AccessTokenKey = key

	log.Info("Authentication key loaded",
		"access_token_duration", cfg.Auth.AccessTokenDuration,
	)

	return AuthKey(key), nil
}

// ProvideTokenService provides the PASETO token service.
func ProvideTokenService(i do.Injector) (*auth.TokenService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	return auth.NewTokenService([]byte(authKey), cfg.Auth.AccessTokenDuration)
}

// ProvideSigner provides the signed URL signer for background images.
// A dedicated SIGNED_URL_SECRET decouples file URLs from token rotation;
// without one the auth key is reused.
func ProvideSigner(i do.Injector) (*signedurl.Signer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	authKey := do.MustInvoke[AuthKey](i)

	key := []byte(authKey)
	if cfg.Auth.SignedURLSecret != "" {
		derived := sha256.Sum256([]byte(cfg.Auth.SignedURLSecret))
		key = derived[:]
	}

	return signedurl.NewSigner(key, cfg.Auth.SignedURLTTL)
}
