package domain

// Category as returned by the commerce backend's category listing.
type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug,omitempty"`
	Count int    `json:"count,omitempty"`
}

// Product as returned by the commerce backend's product listing. Only
// the fields the storefront renders or filters on are decoded.
type Product struct {
	ID       int64          `json:"id"`
	Name     string         `json:"name"`
	Slug     string         `json:"slug,omitempty"`
	Price    string         `json:"price,omitempty"`
	Featured bool           `json:"featured"`
	Status   string         `json:"status"`
	Type     string         `json:"type"`
	Images   []ProductImage `json:"images,omitempty"`
}

type ProductImage struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}
