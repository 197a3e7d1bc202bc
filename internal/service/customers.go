package service

import (
	"fmt"

	"github.com/microfin/collection-service/internal/models"
	"github.com/microfin/collection-service/internal/utils"
)

// CreateCustomer registers a new borrower. The ID-document number is
// encrypted before it reaches the database.
func (s *Service) CreateCustomer(c *models.Customer) (*models.Customer, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("customer name is required")
	}
	if c.IDNumber != "" {
		encrypted, err := utils.Encrypt(c.IDNumber, s.config.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt ID number: %w", err)
		}
		c.IDNumber = encrypted
	}

	if err := s.repo.CreateCustomer(c); err != nil {
		return nil, err
	}

	s.log.Infof("Customer created: %s (id %d)", c.Name, c.ID)
	return c, nil
}

// GetCustomer retrieves a customer with the ID number decrypted
func (s *Service) GetCustomer(id int64) (*models.Customer, error) {
	c, err := s.repo.FindCustomerByID(id)
	if err != nil {
		return nil, err
	}
	if c.IDNumber != "" {
		plain, err := utils.Decrypt(c.IDNumber, s.config.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt ID number: %w", err)
		}
		c.IDNumber = plain
	}
	return c, nil
}

// ListCustomers retrieves customers matching an optional search term
func (s *Service) ListCustomers(search string) ([]models.Customer, error) {
	return s.repo.ListCustomers(search)
}

// UpdateCustomer updates a customer's contact details
func (s *Service) UpdateCustomer(c *models.Customer) (*models.Customer, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("customer name is required")
	}
	if err := s.repo.UpdateCustomer(c); err != nil {
		return nil, err
	}
	s.log.Infof("Customer updated: %d", c.ID)
	return c, nil
}
