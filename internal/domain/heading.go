package domain

// Heading is an ATX heading line found in a document body.
type Heading struct {
	Level int
	Text  string
}
