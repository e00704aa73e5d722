package app

import (
	"context"
	"crypto/rand"
	"sync"

	cryptoDomain "github.com/allisson/configvault/internal/crypto/domain"
	cryptoService "github.com/allisson/configvault/internal/crypto/service"
	apperrors "github.com/allisson/configvault/internal/errors"
)

// fallbackKeyID is used when DEFAULT_KEY_ID is not configured.
const fallbackKeyID = "primary"

type cryptoComponents struct {
	keeperInit    sync.Once
	keeper        cryptoDomain.KMSKeeper
	providerInit  sync.Once
	provider      cryptoDomain.KeyProvider
	encryptorInit sync.Once
	encryptor     *cryptoService.EncryptorService
}

// Keeper returns the KMS keeper configured through KMS_KEY_URI.
func (c *Container) Keeper(ctx context.Context) (cryptoDomain.KMSKeeper, error) {
	c.crypto.keeperInit.Do(func() {
		if c.config.KMSKeyURI == "" {
			c.initErrors["keeper"] = apperrors.New("KMS_KEY_URI is not set")
			return
		}
		keeper, err := cryptoService.NewKMSService().OpenKeeper(ctx, c.config.KMSKeyURI)
		if err != nil {
			c.initErrors["keeper"] = err
			return
		}
		c.crypto.keeper = keeper
	})
	if err, ok := c.initErrors["keeper"]; ok {
		return nil, err
	}
	return c.crypto.keeper, nil
}

// KeyProvider returns the key provider. With KMS_KEY_URI set the provider
// unwraps PROVIDER_KEYS through the keeper; without it an ephemeral static
// key is generated, which only suits local development since values
// encrypted under it are unreadable after a restart.
func (c *Container) KeyProvider(ctx context.Context) (cryptoDomain.KeyProvider, error) {
	c.crypto.providerInit.Do(func() {
		if c.config.KMSKeyURI != "" {
			keeper, err := c.Keeper(ctx)
			if err != nil {
				c.initErrors["keyProvider"] = err
				return
			}
			provider, err := cryptoService.NewKeeperKeyProvider(keeper, c.config.ProviderKeys)
			if err != nil {
				c.initErrors["keyProvider"] = err
				return
			}
			c.crypto.provider = provider
			return
		}

		material := make([]byte, 32)
		if _, err := rand.Read(material); err != nil {
			c.initErrors["keyProvider"] = apperrors.Wrap(err, "generate ephemeral key")
			return
		}
		provider := cryptoService.NewStaticKeyProvider()
		if err := provider.AddKey(c.defaultKeyID(), material); err != nil {
			c.initErrors["keyProvider"] = err
			return
		}
		c.Logger().Warn(
			"KMS_KEY_URI is not set, using an ephemeral in-memory key",
			"key_id", c.defaultKeyID(),
		)
		c.crypto.provider = provider
	})
	if err, ok := c.initErrors["keyProvider"]; ok {
		return nil, err
	}
	return c.crypto.provider, nil
}

// Encryptor returns the encryption service.
func (c *Container) Encryptor(ctx context.Context) (*cryptoService.EncryptorService, error) {
	c.crypto.encryptorInit.Do(func() {
		provider, err := c.KeyProvider(ctx)
		if err != nil {
			c.initErrors["encryptor"] = err
			return
		}
		algorithm := cryptoDomain.Algorithm(c.config.PayloadAlgorithm)
		switch algorithm {
		case cryptoDomain.AESGCM, cryptoDomain.ChaCha20:
		default:
			c.initErrors["encryptor"] = apperrors.Wrapf(
				cryptoDomain.ErrUnsupportedAlgorithm, "PAYLOAD_ALGORITHM %q", c.config.PayloadAlgorithm,
			)
			return
		}
		c.crypto.encryptor = cryptoService.NewEncryptor(
			provider,
			cryptoService.NewAEADManager(),
			algorithm,
			c.defaultKeyID(),
		)
	})
	if err, ok := c.initErrors["encryptor"]; ok {
		return nil, err
	}
	return c.crypto.encryptor, nil
}

func (c *Container) defaultKeyID() string {
	if c.config.DefaultKeyID != "" {
		return c.config.DefaultKeyID
	}
	return fallbackKeyID
}
