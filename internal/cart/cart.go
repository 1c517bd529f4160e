// Package cart holds the shopping cart state container: a pure line-item
// collection plus a Store that snapshots it through the local store after
// every mutation.
package cart

import "context"

type LineItem struct {
	ProductID   string   `json:"product_id"`
	Quantity    int      `json:"quantity"`
	Color       string   `json:"color,omitempty"`
	Size        string   `json:"size,omitempty"`
	Material    string   `json:"material,omitempty"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
}

// Key is the identity of a purchasable configuration. Two line items with
// the same key are the same cart entry and must be merged, never duplicated.
type Key struct {
	ProductID string
	Color     string
	Size      string
	Material  string
}

func (it LineItem) Key() Key {
	return Key{ProductID: it.ProductID, Color: it.Color, Size: it.Size, Material: it.Material}
}

// PriceLookup resolves a current unit price for a product. ok is false when
// the product is unknown to the catalog.
type PriceLookup interface {
	PriceFor(ctx context.Context, productID string) (price float64, ok bool)
}

// Cart is the pure collection. It never touches storage; Store layers the
// persistence side effect on top so these operations stay testable alone.
type Cart struct {
	Items []LineItem `json:"items"`
}

// Add merges item into the cart. An existing entry with the same identity
// key gets its quantity incremented; otherwise the item is appended.
func (c *Cart) Add(item LineItem) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	key := item.Key()
	for i := range c.Items {
		if c.Items[i].Key() == key {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// Remove drops every line item for productID, regardless of variant.
// Variant-level removal is intentionally not supported.
func (c *Cart) Remove(productID string) {
	kept := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	c.Items = kept
}

// UpdateQuantity sets the quantity on every line item for productID.
// A quantity below one removes the items instead of storing a non-positive
// count.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity < 1 {
		c.Remove(productID)
		return
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
		}
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

// Count is the sum of quantities across all line items.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Total prices the cart. A line item's embedded price snapshot wins; items
// without one are priced through lookup, and items the catalog cannot
// resolve contribute zero.
func (c *Cart) Total(ctx context.Context, lookup PriceLookup) float64 {
	var total float64
	for _, it := range c.Items {
		unit, ok := c.unitPrice(ctx, lookup, it)
		if !ok {
			continue
		}
		total += unit * float64(it.Quantity)
	}
	return total
}

func (c *Cart) unitPrice(ctx context.Context, lookup PriceLookup, it LineItem) (float64, bool) {
	if it.Price != nil {
		return *it.Price, true
	}
	if lookup == nil {
		return 0, false
	}
	return lookup.PriceFor(ctx, it.ProductID)
}
