package types

// ProductImage describes one catalog image reference. Stored as jsonb on the
// product row; image hosting itself is external.
type ProductImage struct {
	Src  string `json:"src"`
	Alt  string `json:"alt,omitempty"`
	Hint string `json:"hint,omitempty"`
}

// ProductImages is the jsonb-serialized image list.
type ProductImages []ProductImage
