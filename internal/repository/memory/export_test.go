package memory

import (
	"fmt"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

// SetProductPrice reprices a stored product.
func (s *Store) SetProductPrice(productID uuid.UUID, price domain.Money) error {
	return liveExecutor{s: s}.write(func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return fmt.Errorf("product[%s]: %w", productID, ErrProductNotFound)
		}
		p.Price = price
		st.products[productID] = p
		return nil
	})
}
