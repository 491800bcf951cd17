package models

// ItemCategory classifies a menu item.
type ItemCategory string

const (
	CategoryDrink   ItemCategory = "drink"
	CategoryDish    ItemCategory = "dish"
	CategoryDessert ItemCategory = "dessert"
)

// MenuItem is a single line item on the shared bill. Items are generated
// when a guest joins and are immutable afterwards except for Quantity.
type MenuItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string `json:"id"`

	// Name is the display name of the item (e.g., "Pabellón Criollo").
	Name string `json:"name"`

	// Description is a short decorative description.
	Description string `json:"description"`

	// Category is one of drink, dish or dessert.
	Category ItemCategory `json:"category"`

	// Price is the unit price, a non-negative fixed-point currency value.
	Price float64 `json:"price"`

	// Quantity is the ordered count (positive).
	Quantity int `json:"quantity"`

	// Emoji is a decorative icon for the frontend.
	Emoji string `json:"emoji"`

	// ImageURL optionally points at a product image.
	ImageURL string `json:"imageUrl,omitempty"`
}

// LineTotal returns Price × Quantity for this item.
func (m MenuItem) LineTotal() float64 {
	return m.Price * float64(m.Quantity)
}
