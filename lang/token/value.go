package token

// Value carries a scanned token's literal text and, for literal tokens, its
// decoded value alongside the position where it starts.
type Value struct {
	Raw    string
	Pos    Pos
	Int    int64
	Float  float64
	String string
}
