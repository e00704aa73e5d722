package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"

	accessService "github.com/allisson/configvault/internal/access/service"
	auditRepository "github.com/allisson/configvault/internal/audit/repository"
	auditService "github.com/allisson/configvault/internal/audit/service"
	apperrors "github.com/allisson/configvault/internal/errors"
	storeRepository "github.com/allisson/configvault/internal/store/repository"
	storeUsecase "github.com/allisson/configvault/internal/store/usecase"
)

type storeComponents struct {
	resolverInit   sync.Once
	resolver       *accessService.Resolver
	auditInit      sync.Once
	audit          *auditService.AuditLoggerService
	repositoryInit sync.Once
	repository     storeRepository.EntryRepository
	storeInit      sync.Once
	store          storeUsecase.SecureStore
}

// AccessResolver returns the role based access resolver, seeded from
// ROLE_ASSIGNMENTS.
func (c *Container) AccessResolver() (*accessService.Resolver, error) {
	c.store.resolverInit.Do(func() {
		resolver := accessService.NewResolver()
		if err := resolver.LoadAssignments(c.config.RoleAssignments); err != nil {
			c.initErrors["accessResolver"] = err
			return
		}
		c.store.resolver = resolver
	})
	if err, ok := c.initErrors["accessResolver"]; ok {
		return nil, err
	}
	return c.store.resolver, nil
}

// AuditLogger returns the audit trail logger. When AUDIT_SIGNING_SECRET is
// not set an ephemeral secret is generated, so signatures do not verify
// across restarts. With the archive enabled the trail is rehydrated from it
// so queries and reports see history from previous processes.
func (c *Container) AuditLogger(ctx context.Context) (*auditService.AuditLoggerService, error) {
	c.store.auditInit.Do(func() {
		secret := []byte(c.config.AuditSigningSecret)
		if len(secret) == 0 {
			raw := make([]byte, 32)
			if _, err := rand.Read(raw); err != nil {
				c.initErrors["auditLogger"] = apperrors.Wrap(err, "generate audit signing secret")
				return
			}
			secret = []byte(hex.EncodeToString(raw))
			c.Logger().Warn("AUDIT_SIGNING_SECRET is not set, using an ephemeral secret")
		}

		opts := []auditService.LoggerOption{
			auditService.WithCapacity(c.config.AuditCapacity),
		}
		if c.config.AuditArchiveEnabled {
			archive, err := c.auditArchiveRepository()
			if err != nil {
				c.initErrors["auditLogger"] = err
				return
			}
			opts = append(opts, auditService.WithArchive(archive))
		}

		audit := auditService.NewAuditLoggerService(
			auditService.NewEntrySigner(), secret, c.Logger(), opts...,
		)
		if c.config.AuditArchiveEnabled {
			if err := audit.LoadArchive(ctx); err != nil {
				c.initErrors["auditLogger"] = err
				return
			}
		}
		c.store.audit = audit
	})
	if err, ok := c.initErrors["auditLogger"]; ok {
		return nil, err
	}
	return c.store.audit, nil
}

func (c *Container) auditArchiveRepository() (auditService.ArchiveRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}
	switch c.config.DBDriver {
	case "postgres":
		return auditRepository.NewPostgreSQLArchiveRepository(db), nil
	case "mysql":
		return auditRepository.NewMySQLArchiveRepository(db), nil
	default:
		return nil, apperrors.Wrapf(
			apperrors.ErrInvalidArgument, "unsupported DB_DRIVER %q for audit archive", c.config.DBDriver,
		)
	}
}

// EntryRepository returns the configuration entry repository selected by
// STORAGE_BACKEND.
func (c *Container) EntryRepository() (storeRepository.EntryRepository, error) {
	c.store.repositoryInit.Do(func() {
		switch c.config.StorageBackend {
		case "memory":
			c.store.repository = storeRepository.NewMemoryEntryRepository()
		case "postgres":
			db, err := c.DB()
			if err != nil {
				c.initErrors["entryRepository"] = err
				return
			}
			c.store.repository = storeRepository.NewPostgreSQLEntryRepository(db)
		case "mysql":
			db, err := c.DB()
			if err != nil {
				c.initErrors["entryRepository"] = err
				return
			}
			c.store.repository = storeRepository.NewMySQLEntryRepository(db)
		default:
			c.initErrors["entryRepository"] = apperrors.Wrapf(
				apperrors.ErrInvalidArgument, "unsupported STORAGE_BACKEND %q", c.config.StorageBackend,
			)
		}
	})
	if err, ok := c.initErrors["entryRepository"]; ok {
		return nil, err
	}
	return c.store.repository, nil
}

// SecureStore returns the fully assembled configuration store, wrapped with
// operation metrics.
func (c *Container) SecureStore(ctx context.Context) (storeUsecase.SecureStore, error) {
	c.store.storeInit.Do(func() {
		repo, err := c.EntryRepository()
		if err != nil {
			c.initErrors["secureStore"] = err
			return
		}
		encryptor, err := c.Encryptor(ctx)
		if err != nil {
			c.initErrors["secureStore"] = err
			return
		}
		audit, err := c.AuditLogger(ctx)
		if err != nil {
			c.initErrors["secureStore"] = err
			return
		}
		resolver, err := c.AccessResolver()
		if err != nil {
			c.initErrors["secureStore"] = err
			return
		}
		bm, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["secureStore"] = err
			return
		}

		store := storeUsecase.NewSecureStoreService(
			repo,
			encryptor,
			resolver,
			audit,
			c.Logger(),
			storeUsecase.WithSweepWorkers(c.config.IntegritySweepWorkers),
		)
		c.store.store = storeUsecase.NewSecureStoreWithMetrics(store, bm)
	})
	if err, ok := c.initErrors["secureStore"]; ok {
		return nil, err
	}
	return c.store.store, nil
}
