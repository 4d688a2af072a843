package model

type CartItem struct {
	Id       string  `json:"id" firestore:"id"`
	Title    string  `json:"title" firestore:"title,omitempty"`
	Author   string  `json:"author" firestore:"author,omitempty"`
	ImageUrl string  `json:"imageUrl" firestore:"imageUrl,omitempty"`
	Price    float64 `json:"price" firestore:"price"` // USD, per unit
	Quantity int     `json:"quantity" firestore:"quantity"`
}

// CartDoc is the persisted cart. Epoch increases monotonically with every
// save; loads apply last-writer-wins by epoch so a stale read can never
// clobber newer in-memory state.
type CartDoc struct {
	Items []CartItem `json:"items" firestore:"items"`
	Epoch int64      `json:"epoch" firestore:"epoch"`
}
