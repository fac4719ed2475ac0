package types

// Character is one row of the reference data used by the characters chart.
// Names are not required to be unique.
type Character struct {
	Name  string `json:"name"`
	Votes int    `json:"votes"`
}
