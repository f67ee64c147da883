package service

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// SlugLength is the length of generated public link identifiers.
const SlugLength = 10

// SlugGenerator produces random URL-safe identifiers. With 64 symbols and
// 10 characters there are 2^60 possible slugs.
type SlugGenerator struct {
	length int
}

func NewSlugGenerator(length int) *SlugGenerator {
	if length <= 0 {
		length = SlugLength
	}
	return &SlugGenerator{length: length}
}

// Next returns a fresh slug.
func (g *SlugGenerator) Next() (string, error) {
	return gonanoid.New(g.length)
}
