package model

// Category names one of the four emission categories.
type Category string

const (
	CategoryTransportation Category = "transportation"
	CategoryEnergy         Category = "energy"
	CategoryFood           Category = "food"
	CategoryWaste          Category = "waste"
)

// Categories returns every category in tie-break precedence order.
func Categories() []Category {
	return []Category{CategoryTransportation, CategoryEnergy, CategoryFood, CategoryWaste}
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryTransportation, CategoryEnergy, CategoryFood, CategoryWaste:
		return true
	default:
		return false
	}
}

// Source tells whether a result was computed by the remote service or locally.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)
