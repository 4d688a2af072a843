package cart

const (
	// collection name; one doc per user at carts/{uid}
	cartsNode string = "carts"

	// Fields' name and path
	ItemsFieldPath string = "items"
	EpochFieldPath string = "epoch"
)
