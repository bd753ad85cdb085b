package bearer

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Product is a catalog record managed over the protected CRUD routes.
type Product struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	SKU         string     `json:"sku"`
	Price       float64    `json:"price"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// ErrProductNotFound is returned when a product id has no record.
var ErrProductNotFound = errors.New("product not found", errors.CategoryNotFound).
	WithTextCode("PRODUCT_NOT_FOUND").
	WithCode(errors.CodeNotFound)

// ProductStore keeps catalog records in process memory, safe for
// concurrent handlers.
type ProductStore struct {
	mu       sync.RWMutex
	products map[uuid.UUID]*Product
}

// NewProductStore creates an empty store.
func NewProductStore() *ProductStore {
	return &ProductStore{
		products: make(map[uuid.UUID]*Product),
	}
}

// List returns all products ordered by name.
func (s *ProductStore) List(ctx context.Context) ([]*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Product, 0, len(s.products))
	for _, p := range s.products {
		clone := *p
		out = append(out, &clone)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})

	return out, nil
}

// Get returns a product by id.
func (s *ProductStore) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}

	clone := *p
	return &clone, nil
}

// Create inserts a product, assigning an id when missing.
func (s *ProductStore) Create(ctx context.Context, product *Product) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}

	if _, exists := s.products[product.ID]; exists {
		return nil, errors.New("product already exists", errors.CategoryConflict).
			WithCode(errors.CodeConflict).
			WithMetadata(map[string]any{"id": product.ID.String()})
	}

	product.CreatedAt = time.Now()

	clone := *product
	s.products[product.ID] = &clone

	return product, nil
}

// Update replaces the mutable fields of an existing product.
func (s *ProductStore) Update(ctx context.Context, product *Product) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products[product.ID]
	if !ok {
		return nil, ErrProductNotFound
	}

	now := time.Now()
	existing.Name = product.Name
	existing.Description = product.Description
	existing.SKU = product.SKU
	existing.Price = product.Price
	existing.UpdatedAt = &now

	clone := *existing
	return &clone, nil
}

// Delete removes a product by id.
func (s *ProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return ErrProductNotFound
	}

	delete(s.products, id)
	return nil
}
