package app

import (
	"context"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/pastecrypt/internal/crypto/domain"
	cryptoHTTP "github.com/allisson/pastecrypt/internal/crypto/http"
	cryptoRepository "github.com/allisson/pastecrypt/internal/crypto/repository"
	cryptoService "github.com/allisson/pastecrypt/internal/crypto/service"
	cryptoUseCase "github.com/allisson/pastecrypt/internal/crypto/usecase"
	"github.com/allisson/pastecrypt/internal/metrics"
)

// KMSService returns the KMS service.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = c.initKMSService()
	})
	return c.kmsService
}

// KMSKeeper returns the keeper for KMS_KEY_URI, or nil when no KMS is configured.
func (c *Container) KMSKeeper() (cryptoDomain.KMSKeeper, error) {
	var err error
	c.kmsKeeperInit.Do(func() {
		c.kmsKeeper, err = c.initKMSKeeper()
		if err != nil {
			c.initErrors["kmsKeeper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["kmsKeeper"]; exists {
		return nil, storedErr
	}
	return c.kmsKeeper, nil
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = c.initAEADManager()
	})
	return c.aeadManager
}

// EnvelopeCipher returns the envelope cipher configured with FIELD_CIPHER_ALGORITHM.
func (c *Container) EnvelopeCipher() (cryptoService.EnvelopeCipher, error) {
	var err error
	c.envelopeCipherInit.Do(func() {
		c.envelopeCipher, err = c.initEnvelopeCipher()
		if err != nil {
			c.initErrors["envelopeCipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["envelopeCipher"]; exists {
		return nil, storedErr
	}
	return c.envelopeCipher, nil
}

// KeyringRepository returns the file-backed keyring repository.
func (c *Container) KeyringRepository() *cryptoRepository.FileKeyringRepository {
	c.keyringRepositoryInit.Do(func() {
		c.keyringRepository = c.initKeyringRepository()
	})
	return c.keyringRepository
}

// KeyringUseCase returns the keyring use case. The keyring is not loaded until
// LoadKeyring is called.
func (c *Container) KeyringUseCase() (cryptoUseCase.KeyringUseCase, error) {
	var err error
	c.keyringUseCaseInit.Do(func() {
		c.keyringUseCase, err = c.initKeyringUseCase()
		if err != nil {
			c.initErrors["keyringUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyringUseCase"]; exists {
		return nil, storedErr
	}
	return c.keyringUseCase, nil
}

// FieldUseCase returns the field encryption use case, decorated with metrics.
func (c *Container) FieldUseCase() (cryptoUseCase.FieldUseCase, error) {
	var err error
	c.fieldUseCaseInit.Do(func() {
		c.fieldUseCase, err = c.initFieldUseCase()
		if err != nil {
			c.initErrors["fieldUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["fieldUseCase"]; exists {
		return nil, storedErr
	}
	return c.fieldUseCase, nil
}

// RotationWorker returns the background key rotation worker.
func (c *Container) RotationWorker() (*cryptoUseCase.RotationWorker, error) {
	var err error
	c.rotationWorkerInit.Do(func() {
		c.rotationWorker, err = c.initRotationWorker()
		if err != nil {
			c.initErrors["rotationWorker"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["rotationWorker"]; exists {
		return nil, storedErr
	}
	return c.rotationWorker, nil
}

// KeyringHandler returns the HTTP handler for keyring status.
func (c *Container) KeyringHandler() (*cryptoHTTP.KeyringHandler, error) {
	var err error
	c.keyringHandlerInit.Do(func() {
		c.keyringHandler, err = c.initKeyringHandler()
		if err != nil {
			c.initErrors["keyringHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyringHandler"]; exists {
		return nil, storedErr
	}
	return c.keyringHandler, nil
}

// LoadKeyring bootstraps the keyring from KEYRING_PATH, seeding it from
// KEYRING_SEED when no keyring exists yet.
func (c *Container) LoadKeyring(ctx context.Context) (*cryptoDomain.Keyring, error) {
	keyringUseCase, err := c.KeyringUseCase()
	if err != nil {
		return nil, err
	}
	keyring, err := keyringUseCase.Bootstrap(ctx, c.config.KeyringSeed)
	if err != nil {
		return nil, fmt.Errorf("failed to bootstrap keyring: %w", err)
	}
	return keyring, nil
}

// initKMSService creates the KMS service for unwrapping seed keys.
func (c *Container) initKMSService() cryptoService.KMSService {
	return cryptoService.NewKMSService()
}

// initKMSKeeper opens the configured KMS keeper.
func (c *Container) initKMSKeeper() (cryptoDomain.KMSKeeper, error) {
	if c.config.KMSKeyURI == "" {
		return nil, nil
	}
	keeper, err := c.KMSService().OpenKeeper(context.Background(), c.config.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open kms keeper: %w", err)
	}
	return keeper, nil
}

// initAEADManager creates the AEAD manager service.
func (c *Container) initAEADManager() cryptoService.AEADManager {
	return cryptoService.NewAEADManager()
}

// initEnvelopeCipher creates the envelope cipher for the configured algorithm.
func (c *Container) initEnvelopeCipher() (cryptoService.EnvelopeCipher, error) {
	envelopeCipher, err := cryptoService.NewEnvelopeCipher(
		c.AEADManager(),
		cryptoDomain.Algorithm(c.config.FieldCipherAlgorithm),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create envelope cipher: %w", err)
	}
	return envelopeCipher, nil
}

// initKeyringRepository creates the keyring repository at KEYRING_PATH.
func (c *Container) initKeyringRepository() *cryptoRepository.FileKeyringRepository {
	return cryptoRepository.NewFileKeyringRepository(c.config.KeyringPath, c.Logger())
}

// initKeyringUseCase creates the keyring use case. Seed values are unwrapped
// through KMS when KMS_KEY_URI is set. When metrics are enabled the keyring
// state is exported as gauges.
func (c *Container) initKeyringUseCase() (cryptoUseCase.KeyringUseCase, error) {
	keeper, err := c.KMSKeeper()
	if err != nil {
		return nil, fmt.Errorf("failed to get kms keeper for keyring use case: %w", err)
	}

	var seedDecoder cryptoDomain.SeedDecoder
	if keeper != nil {
		seedDecoder = cryptoService.NewKMSSeedDecoder(context.Background(), keeper)
	}

	keyringUseCase := cryptoUseCase.NewKeyringUseCase(
		c.KeyringRepository(),
		c.Clock(),
		seedDecoder,
		c.Logger(),
	)

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for keyring use case: %w", err)
	}
	if provider != nil {
		clock := c.Clock()
		c.keyringGauges, err = metrics.RegisterKeyringGauges(
			provider.MeterProvider(),
			c.config.MetricsNamespace,
			func() (metrics.KeyringSnapshot, bool) {
				keyring, err := keyringUseCase.Current()
				if err != nil {
					return metrics.KeyringSnapshot{}, false
				}
				return metrics.KeyringSnapshot{
					Keys:         keyring.Len(),
					ActiveKeyAge: keyring.ActiveKey().Age(clock.Now()),
				}, true
			},
		)
		if err != nil {
			c.Logger().Warn("failed to register keyring gauges", slog.Any("error", err))
		}
	}

	return keyringUseCase, nil
}

// initFieldUseCase creates the field use case with all its dependencies.
func (c *Container) initFieldUseCase() (cryptoUseCase.FieldUseCase, error) {
	keyringUseCase, err := c.KeyringUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get keyring use case for field use case: %w", err)
	}

	envelopeCipher, err := c.EnvelopeCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope cipher for field use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for field use case: %w", err)
	}

	fieldUseCase := cryptoUseCase.NewFieldUseCase(keyringUseCase, envelopeCipher, c.Logger())
	return cryptoUseCase.NewFieldUseCaseWithMetrics(fieldUseCase, businessMetrics), nil
}

// initRotationWorker creates the rotation worker driven by the field use case so
// worker rotations are counted in the business metrics.
func (c *Container) initRotationWorker() (*cryptoUseCase.RotationWorker, error) {
	fieldUseCase, err := c.FieldUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get field use case for rotation worker: %w", err)
	}

	return cryptoUseCase.NewRotationWorker(
		fieldUseCase,
		c.Clock(),
		cryptoUseCase.RotationWorkerConfig{
			CheckInterval: c.config.KeyRotationCheckInterval,
			IntervalDays:  c.config.KeyRotationIntervalDays,
		},
		c.Logger(),
	), nil
}

// initKeyringHandler creates the keyring status handler.
func (c *Container) initKeyringHandler() (*cryptoHTTP.KeyringHandler, error) {
	keyringUseCase, err := c.KeyringUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get keyring use case for keyring handler: %w", err)
	}

	return cryptoHTTP.NewKeyringHandler(
		keyringUseCase,
		c.Clock(),
		c.config.KeyRotationIntervalDays,
		c.Logger(),
	), nil
}
