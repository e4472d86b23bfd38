package entity

// TokenHolder represents one entry of a token's top-holder page
type TokenHolder struct {
	Address    string  `json:"address"`
	Balance    string  `json:"balance"`
	Percentage float64 `json:"percentage"`
}
