package model

// CartLine pairs a menu item with a quantity.
type CartLine struct {
	Product  MenuItem `json:"product"`
	Quantity int      `json:"quantity"`
}

// CartSnapshot is a point-in-time copy of a cart.
type CartSnapshot struct {
	TotalCount int        `json:"cartItems"`
	Lines      []CartLine `json:"cartProducts"`
}

// AddToCartRequest is the payload for adding a catalogue item to the cart.
type AddToCartRequest struct {
	MenuID   int `json:"menuId"`
	Quantity int `json:"quantity"`
}

// SubmitItemRequest is the payload for ordering a single item immediately.
type SubmitItemRequest struct {
	MenuID int `json:"menuId"`
}
