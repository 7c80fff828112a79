package domain

// Product is a catalog entry as shown on the product screen.
type Product struct {
	ID    string
	Name  string
	Price float64
}

// NewProduct validates and builds a product. The name is kept exactly as
// typed because name lookups compare it verbatim.
func NewProduct(id, name string, price float64) (Product, error) {
	if id == "" {
		return Product{}, ErrEmptyProductID
	}
	if err := ValidateName(name); err != nil {
		return Product{}, err
	}
	return Product{ID: id, Name: name, Price: price}, nil
}

// WithDetails returns p under the same id with a new name and price.
func (p Product) WithDetails(name string, price float64) (Product, error) {
	return NewProduct(p.ID, name, price)
}

// Line renders the list row for p, e.g. "Pen: $1.5".
func (p Product) Line() string {
	return p.Name + ": $" + FormatPrice(p.Price)
}

// ValidateName rejects empty names. Any other text, spaces included, is a name.
func ValidateName(name string) error {
	if name == "" {
		return ErrEmptyProductName
	}
	return nil
}
