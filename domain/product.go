package domain

type Product struct {
	ID           string  `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	Category     string  `db:"category" json:"category"`
	Brand        string  `db:"brand" json:"brand"`
	Unit         string  `db:"unit" json:"unit"`
	Barcode      *string `db:"barcode" json:"barcode,omitempty"`
	DefaultPrice float64 `db:"default_price" json:"default_price"`
	ImageURL     *string `db:"image_url" json:"image_url,omitempty"`
	IsCommon     bool    `db:"is_common" json:"is_common"`
	CreatedAt    string  `db:"created_at" json:"created_at"`
}
