package domain

// Operation is a business operation tag from the operations dictionary
// (pay supplier, receive material, sell goods and so on). Every entry
// references exactly one operation.
type Operation struct {
	Name string
	ID   int64
}
