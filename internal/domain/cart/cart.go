// Package cart models the per-user cart snapshot: a mapping from product and
// size to the desired quantity.
package cart

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
)

// MaxQuantity caps a single (product, size) entry
const MaxQuantity = 99

// ErrConflict is returned when a save is attempted against a stale version
var ErrConflict = shared.NewDomainError("CART_CONFLICT", "Cart was modified by another session")

// Items maps product ID to size label to quantity.
// Entries with a quantity of zero or less are treated as absent.
type Items map[string]map[string]int

// Line is one (product, size, quantity) entry of a cart
type Line struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

// Cart is the cart snapshot of one user. Version increases on every
// successful save and is used for compare-and-swap persistence.
type Cart struct {
	UserID    uuid.UUID
	Items     Items
	Version   int64
	UpdatedAt time.Time
}

// New returns an empty cart for a user
func New(userID uuid.UUID) *Cart {
	return &Cart{UserID: userID, Items: Items{}}
}

// FromItems rebuilds a cart from stored items, dropping non-positive entries
func FromItems(userID uuid.UUID, items Items, version int64, updatedAt time.Time) *Cart {
	c := &Cart{UserID: userID, Items: items.Normalize(), Version: version, UpdatedAt: updatedAt}
	return c
}

// Set upserts the entry, or removes it when quantity <= 0
func (c *Cart) Set(productID, size string, quantity int) error {
	productID, size, err := normalizeKey(productID, size)
	if err != nil {
		return err
	}
	if quantity > MaxQuantity {
		return shared.NewDomainError("INVALID_INPUT", "Quantity cannot exceed 99")
	}
	if c.Items == nil {
		c.Items = Items{}
	}
	if quantity <= 0 {
		c.remove(productID, size)
		return nil
	}
	sizes, ok := c.Items[productID]
	if !ok {
		sizes = make(map[string]int)
		c.Items[productID] = sizes
	}
	sizes[size] = quantity
	return nil
}

// Add increments the entry by one
func (c *Cart) Add(productID, size string) error {
	return c.Set(productID, size, c.Quantity(productID, size)+1)
}

// Quantity returns the quantity of an entry, zero when absent
func (c *Cart) Quantity(productID, size string) int {
	q := c.Items[strings.TrimSpace(productID)][strings.TrimSpace(size)]
	if q < 0 {
		return 0
	}
	return q
}

// Count sums the quantities of all entries
func (c *Cart) Count() int {
	total := 0
	for _, sizes := range c.Items {
		for _, q := range sizes {
			if q > 0 {
				total += q
			}
		}
	}
	return total
}

// IsEmpty reports whether the cart has no positive entries
func (c *Cart) IsEmpty() bool {
	return c.Count() == 0
}

// Clear removes every entry
func (c *Cart) Clear() {
	c.Items = Items{}
}

// Lines returns the entries sorted by product ID then size
func (c *Cart) Lines() []Line {
	lines := make([]Line, 0)
	for pid, sizes := range c.Items {
		for size, q := range sizes {
			if q > 0 {
				lines = append(lines, Line{ProductID: pid, Size: size, Quantity: q})
			}
		}
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].ProductID != lines[j].ProductID {
			return lines[i].ProductID < lines[j].ProductID
		}
		return lines[i].Size < lines[j].Size
	})
	return lines
}

// ProductIDs returns the distinct product IDs with a positive entry, sorted
func (c *Cart) ProductIDs() []string {
	ids := make([]string, 0, len(c.Items))
	for pid, sizes := range c.Items {
		for _, q := range sizes {
			if q > 0 {
				ids = append(ids, pid)
				break
			}
		}
	}
	sort.Strings(ids)
	return ids
}

// PriceResolver returns the current price of a product and whether it exists
type PriceResolver func(productID string) (decimal.Decimal, bool)

// Amount sums price times quantity over all entries.
// Entries whose product no longer resolves contribute nothing.
func (c *Cart) Amount(resolve PriceResolver) decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines() {
		price, ok := resolve(line.ProductID)
		if !ok {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Merge folds incoming entries into the cart. On a (product, size) collision
// the incoming quantity wins; an incoming quantity <= 0 removes the entry.
func (c *Cart) Merge(incoming Items) error {
	for pid, sizes := range incoming {
		for size, q := range sizes {
			if err := c.Set(pid, size, q); err != nil {
				return err
			}
		}
	}
	return nil
}

// Replace swaps the whole snapshot for items
func (c *Cart) Replace(items Items) error {
	c.Clear()
	return c.Merge(items)
}

// Snapshot returns a normalized deep copy of the items
func (c *Cart) Snapshot() Items {
	return c.Items.Normalize()
}

func (c *Cart) remove(productID, size string) {
	sizes, ok := c.Items[productID]
	if !ok {
		return
	}
	delete(sizes, size)
	if len(sizes) == 0 {
		delete(c.Items, productID)
	}
}

// Normalize returns a deep copy without blank keys or non-positive quantities
func (items Items) Normalize() Items {
	out := Items{}
	for pid, sizes := range items {
		pid = strings.TrimSpace(pid)
		if pid == "" {
			continue
		}
		for size, q := range sizes {
			size = strings.TrimSpace(size)
			if size == "" || q <= 0 {
				continue
			}
			if q > MaxQuantity {
				q = MaxQuantity
			}
			if out[pid] == nil {
				out[pid] = make(map[string]int)
			}
			out[pid][size] = q
		}
	}
	return out
}

func normalizeKey(productID, size string) (string, string, error) {
	productID = strings.TrimSpace(productID)
	size = strings.TrimSpace(size)
	if productID == "" {
		return "", "", shared.NewDomainError("INVALID_INPUT", "Item ID is required")
	}
	if size == "" {
		return "", "", shared.NewDomainError("INVALID_INPUT", "Size is required")
	}
	return productID, size, nil
}
