package find_product

// Query selects the product an update or delete acts on. A non-empty ID
// (a pinned list selection) wins; otherwise Name is matched exactly.
type Query struct {
	ID   string
	Name string
}
