package menu

import "github.com/ArtP10/prototype-partela-server/internal/models"

// Template describes a catalogue entry; actual MenuItems are stamped from
// templates with a fresh ID and quantity 1.
type Template struct {
	Name        string
	Description string
	Category    models.ItemCategory
	Price       float64
	Emoji       string
	ImageURL    string
}

// Dishes is the demo catalogue of main dishes.
var Dishes = []Template{
	{Name: "Tequeños Artesanales", Description: "8 unidades con salsa de ajo", Category: models.CategoryDish, Price: 18.50, Emoji: "🧀"},
	{Name: "Arepa Reina Pepiada", Description: "Pollo, aguacate y mayonesa", Category: models.CategoryDish, Price: 22.00, Emoji: "🫓"},
	{Name: "Pabellón Criollo", Description: "Carne mechada, caraotas, arroz y tajadas", Category: models.CategoryDish, Price: 35.00, Emoji: "🍛"},
	{Name: "Cachapa con Queso", Description: "Cachapa tradicional con queso de mano", Category: models.CategoryDish, Price: 28.00, Emoji: "🥞"},
	{Name: "Hamburguesa Gourmet", Description: "200g de carne, bacon y queso cheddar", Category: models.CategoryDish, Price: 32.00, Emoji: "🍔"},
	{Name: "Sushi Roll Especial", Description: "8 piezas con salmón y aguacate", Category: models.CategoryDish, Price: 45.00, Emoji: "🍣"},
	{Name: "Pizza Margherita", Description: "Tomate, mozzarella y albahaca", Category: models.CategoryDish, Price: 38.00, Emoji: "🍕"},
	{Name: "Ensalada César", Description: "Lechuga, pollo, parmesano y crutones", Category: models.CategoryDish, Price: 24.00, Emoji: "🥗"},
	{Name: "Empanadas de Carne", Description: "3 unidades con guasacaca", Category: models.CategoryDish, Price: 15.00, Emoji: "🥟"},
	{Name: "Pasta Carbonara", Description: "Espagueti con bacon, huevo y parmesano", Category: models.CategoryDish, Price: 29.00, Emoji: "🍝"},
}

// Drinks is the demo catalogue of drinks.
var Drinks = []Template{
	{Name: "Limonada de Panela", Description: "Refrescante y natural", Category: models.CategoryDrink, Price: 8.00, Emoji: "🍋"},
	{Name: "Cerveza Artesanal", Description: "IPA local 330ml", Category: models.CategoryDrink, Price: 12.00, Emoji: "🍺"},
	{Name: "Copa de Vino Tinto", Description: "Malbec argentino", Category: models.CategoryDrink, Price: 18.00, Emoji: "🍷"},
	{Name: "Café Espresso", Description: "Doble shot", Category: models.CategoryDrink, Price: 6.00, Emoji: "☕"},
	{Name: "Mojito Clásico", Description: "Ron, menta, limón y soda", Category: models.CategoryDrink, Price: 15.00, Emoji: "🍹"},
	{Name: "Agua Mineral", Description: "500ml", Category: models.CategoryDrink, Price: 4.00, Emoji: "💧"},
	{Name: "Jugo de Parchita", Description: "Natural sin azúcar añadida", Category: models.CategoryDrink, Price: 10.00, Emoji: "🧃"},
	{Name: "Piña Colada", Description: "Ron, coco y piña", Category: models.CategoryDrink, Price: 16.00, Emoji: "🍍"},
	{Name: "Té Helado", Description: "Té negro con limón", Category: models.CategoryDrink, Price: 7.00, Emoji: "🧊"},
	{Name: "Sangría", Description: "Copa de sangría de la casa", Category: models.CategoryDrink, Price: 14.00, Emoji: "🍇"},
}

// Desserts is the demo catalogue of desserts.
var Desserts = []Template{
	{Name: "Quesillo", Description: "Postre tradicional venezolano", Category: models.CategoryDessert, Price: 14.00, Emoji: "🍮"},
	{Name: "Brownie con Helado", Description: "Chocolate belga con helado de vainilla", Category: models.CategoryDessert, Price: 16.00, Emoji: "🍫"},
	{Name: "Tiramisú", Description: "Receta italiana original", Category: models.CategoryDessert, Price: 18.00, Emoji: "🍰"},
	{Name: "Tres Leches", Description: "Bizcocho bañado en tres leches", Category: models.CategoryDessert, Price: 15.00, Emoji: "🥛"},
	{Name: "Helado Artesanal", Description: "2 bolas, sabor a elección", Category: models.CategoryDessert, Price: 12.00, Emoji: "🍨"},
	{Name: "Cheesecake", Description: "New York style con frutos rojos", Category: models.CategoryDessert, Price: 17.00, Emoji: "🧁"},
}
