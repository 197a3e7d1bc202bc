package repository

import (
	"database/sql"
	"fmt"

	"github.com/microfin/collection-service/internal/models"
)

// CreateCustomer creates a new customer in the database
func (r *Repository) CreateCustomer(c *models.Customer) error {
	query := `
		INSERT INTO collection.customers (name, phone, email, address, id_number, photo_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, c.Name, c.Phone, c.Email, c.Address, c.IDNumber, c.PhotoPath).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// FindCustomerByID retrieves a customer by id
func (r *Repository) FindCustomerByID(id int64) (*models.Customer, error) {
	c := &models.Customer{}
	query := `
		SELECT id, name, phone, email, address, id_number, photo_path, created_at, updated_at
		FROM collection.customers
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.IDNumber, &c.PhotoPath, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("customer not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return c, nil
}

// ListCustomers retrieves customers, optionally filtered by a name or
// phone search term
func (r *Repository) ListCustomers(search string) ([]models.Customer, error) {
	query := `
		SELECT id, name, phone, email, address, id_number, photo_path, created_at, updated_at
		FROM collection.customers
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%' OR phone LIKE '%' || $1 || '%')
		ORDER BY name`
	rows, err := r.db.Query(query, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		var c models.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.IDNumber, &c.PhotoPath, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// UpdateCustomer updates a customer's editable fields
func (r *Repository) UpdateCustomer(c *models.Customer) error {
	query := `
		UPDATE collection.customers
		SET name = $1, phone = $2, email = $3, address = $4, photo_path = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $6
		RETURNING updated_at`
	err := r.db.QueryRow(query, c.Name, c.Phone, c.Email, c.Address, c.PhotoPath, c.ID).
		Scan(&c.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("customer not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}
