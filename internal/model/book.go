package model

// Book is a normalized catalog entry. Price and rating are synthesized by the
// catalog client since the book-search source carries no pricing.
type Book struct {
	Id          string  `json:"id" firestore:"id,omitempty"`
	Title       string  `json:"title" firestore:"title,omitempty"`
	Author      string  `json:"author" firestore:"author,omitempty"`
	Genre       string  `json:"genre" firestore:"genre,omitempty"`
	ImageUrl    string  `json:"imageUrl" firestore:"imageUrl,omitempty"`
	Description string  `json:"description" firestore:"description,omitempty"`
	PriceUSD    float64 `json:"priceUSD" firestore:"priceUSD,omitempty"`
	Rating      float64 `json:"rating" firestore:"rating,omitempty"`
}
