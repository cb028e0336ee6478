package app

import (
	"fmt"

	"github.com/allisson/pastecrypt/internal/database"
	pasteRepository "github.com/allisson/pastecrypt/internal/paste/repository"
	pasteUseCase "github.com/allisson/pastecrypt/internal/paste/usecase"
)

// PasteRepository returns the paste repository based on database driver.
func (c *Container) PasteRepository() (pasteUseCase.PasteRepository, error) {
	var err error
	c.pasteRepositoryInit.Do(func() {
		c.pasteRepository, err = c.initPasteRepository()
		if err != nil {
			c.initErrors["pasteRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["pasteRepository"]; exists {
		return nil, storedErr
	}
	return c.pasteRepository, nil
}

// MessageRepository returns the message repository based on database driver.
func (c *Container) MessageRepository() (pasteUseCase.MessageRepository, error) {
	var err error
	c.messageRepositoryInit.Do(func() {
		c.messageRepository, err = c.initMessageRepository()
		if err != nil {
			c.initErrors["messageRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["messageRepository"]; exists {
		return nil, storedErr
	}
	return c.messageRepository, nil
}

// PasteUseCase returns the paste use case.
func (c *Container) PasteUseCase() (pasteUseCase.PasteUseCase, error) {
	var err error
	c.pasteUseCaseInit.Do(func() {
		c.pasteUseCase, err = c.initPasteUseCase()
		if err != nil {
			c.initErrors["pasteUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["pasteUseCase"]; exists {
		return nil, storedErr
	}
	return c.pasteUseCase, nil
}

// initPasteRepository creates the paste repository based on the database driver.
func (c *Container) initPasteRepository() (pasteUseCase.PasteRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for paste repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return pasteRepository.NewPostgreSQLPasteRepository(db), nil
	case database.DriverMySQL:
		return pasteRepository.NewMySQLPasteRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initMessageRepository creates the message repository based on the database driver.
func (c *Container) initMessageRepository() (pasteUseCase.MessageRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for message repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverPostgres:
		return pasteRepository.NewPostgreSQLMessageRepository(db), nil
	case database.DriverMySQL:
		return pasteRepository.NewMySQLMessageRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initPasteUseCase creates the paste use case with all its dependencies.
func (c *Container) initPasteUseCase() (pasteUseCase.PasteUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for paste use case: %w", err)
	}

	pasteRepo, err := c.PasteRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get paste repository for paste use case: %w", err)
	}

	messageRepo, err := c.MessageRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get message repository for paste use case: %w", err)
	}

	fieldUseCase, err := c.FieldUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get field use case for paste use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for paste use case: %w", err)
	}

	useCase := pasteUseCase.NewPasteUseCase(
		txManager,
		pasteRepo,
		messageRepo,
		fieldUseCase,
		c.Clock(),
		c.Logger(),
	)
	return pasteUseCase.NewPasteUseCaseWithMetrics(useCase, businessMetrics), nil
}
