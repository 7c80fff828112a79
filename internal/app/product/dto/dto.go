package dto

// ProductRowDTO is one rendered list row.
type ProductRowDTO struct {
	ProductID string
	Name      string
	// Price is the display form, e.g. "1.5" or "10.0".
	Price    string
	Line     string
	Selected bool
}

// ScreenDTO is a point-in-time view of the product screen.
type ScreenDTO struct {
	NameInput  string
	PriceInput string
	SelectedID string
	Rows       []ProductRowDTO
	// Revision counts list replacements since activation.
	Revision uint64
}
