package filter

// Where is a query predicate applied to a notify subscription.
type Where struct {
	Path  string
	Op    string
	Value interface{}
}
