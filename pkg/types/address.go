package types

// ShippingAddress is the checkout delivery address snapshot stored on orders.
type ShippingAddress struct {
	FullName      string `json:"full_name"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `json:"pincode"`
	PhoneNumber   string `json:"phone_number"`
}
