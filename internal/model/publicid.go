package model

import (
	"math/rand/v2"
	"strings"
)

const (
	publicIDPrefix  = "SCH-"
	publicIDLength  = 4
	publicIDCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// GeneratePublicID returns a display code such as SCH-7K2Q. Codes are not
// checked against existing schools; 36^4 possible values.
func GeneratePublicID() string {
	var b strings.Builder
	b.Grow(len(publicIDPrefix) + publicIDLength)
	b.WriteString(publicIDPrefix)
	for i := 0; i < publicIDLength; i++ {
		b.WriteByte(publicIDCharset[rand.IntN(len(publicIDCharset))])
	}
	return b.String()
}
