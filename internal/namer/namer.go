// Package namer titles generated songs.
package namer

import "context"

// DefaultTitle is used until a real title generator is wired in
const DefaultTitle = "random name"

// Namer picks a title for a story
type Namer interface {
	Title(ctx context.Context, story string) string
}

// Fixed always returns the same title
type Fixed string

// Title implements Namer
func (f Fixed) Title(context.Context, string) string {
	if f == "" {
		return DefaultTitle
	}
	return string(f)
}

// Default returns the stub namer
func Default() Namer {
	return Fixed(DefaultTitle)
}
