// Package menu generates demo data: the restaurant catalogue, random item
// assignment for newly seated guests, guest display names, and shareable
// table codes.
package menu

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/ArtP10/prototype-partela-server/internal/models"
)

// tableIDAlphabet omits easily confused characters (I, O, 0, 1).
const tableIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateGuestItems builds a random order of 1 to 3 items for a new
// guest: always one main dish, then a drink, then a 50/50 chance of a
// dessert or a second drink. Names never repeat within one order.
func GenerateGuestItems() []models.MenuItem {
	itemCount := rand.IntN(3) + 1
	usedNames := make(map[string]bool)

	dish := Dishes[rand.IntN(len(Dishes))]
	items := []models.MenuItem{newItem(dish)}
	usedNames[dish.Name] = true

	if itemCount >= 2 {
		drink := Drinks[rand.IntN(len(Drinks))]
		if !usedNames[drink.Name] {
			items = append(items, newItem(drink))
			usedNames[drink.Name] = true
		}
	}

	if itemCount >= 3 {
		var extra Template
		if rand.IntN(2) == 0 {
			extra = Desserts[rand.IntN(len(Desserts))]
		} else {
			extra = Drinks[rand.IntN(len(Drinks))]
		}
		if !usedNames[extra.Name] {
			items = append(items, newItem(extra))
		}
	}

	return items
}

func newItem(t Template) models.MenuItem {
	return models.MenuItem{
		ID:          uuid.NewString(),
		Name:        t.Name,
		Description: t.Description,
		Category:    t.Category,
		Price:       t.Price,
		Quantity:    1,
		Emoji:       t.Emoji,
		ImageURL:    t.ImageURL,
	}
}

// GuestName derives a display name from the guest's position at the table.
func GuestName(index int) string {
	return fmt.Sprintf("Comensal %d", index+1)
}

// GenerateTableID produces a short shareable table code, e.g. "MESA-A7B3".
func GenerateTableID() string {
	code := make([]byte, 4)
	for i := range code {
		code[i] = tableIDAlphabet[rand.IntN(len(tableIDAlphabet))]
	}
	return "MESA-" + string(code)
}
