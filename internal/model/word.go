package model

// WordWithCategory is what the word supplier hands out when a round starts
// without an explicit secret word.
type WordWithCategory struct {
	Word     string
	Category string
}
