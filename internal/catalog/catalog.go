// Package catalog holds the fixed expense category list. It is
// compiled in and never persisted; expense rows store only the id.
package catalog

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// The order is significant for display; the last entry ("lainnya") is
// the fallback for ids the catalog no longer knows.
var categories = []Category{
	{ID: "makan", Name: "Makan", Icon: "🍔"},
	{ID: "minuman", Name: "Minuman", Icon: "☕"},
	{ID: "groceries", Name: "Groceries", Icon: "🛒"},
	{ID: "transport", Name: "Transport", Icon: "🚗"},
	{ID: "bensin", Name: "Bensin", Icon: "⛽"},
	{ID: "belanja", Name: "Belanja", Icon: "🛍️"},
	{ID: "hiburan", Name: "Hiburan", Icon: "🎬"},
	{ID: "kesehatan", Name: "Kesehatan", Icon: "💊"},
	{ID: "pulsa", Name: "Pulsa/Data", Icon: "📱"},
	{ID: "listrik", Name: "Listrik/Air", Icon: "💡"},
	{ID: "rumah", Name: "Rumah", Icon: "🏠"},
	{ID: "pet", Name: "Pet", Icon: "🐾"},
	{ID: "kendaraan", Name: "Kendaraan", Icon: "🔧"},
	{ID: "skincare", Name: "Skincare", Icon: "✨"},
	{ID: "bayi", Name: "Bayi", Icon: "🍼"},
	{ID: "lainnya", Name: "Lainnya", Icon: "📦"},
}

// All returns the catalog in display order.
func All() []Category {
	result := make([]Category, len(categories))
	copy(result, categories)
	return result
}

// Get resolves a category id, falling back to the last entry for
// unknown ids. The stored id is never rewritten; the fallback is for
// display only.
func Get(id string) Category {
	for _, category := range categories {
		if category.ID == id {
			return category
		}
	}
	return categories[len(categories)-1]
}
