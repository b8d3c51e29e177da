package util

import (
	"crypto/rand"
	"math/big"
)

const (
	// transportCodePrefix keeps codes recognizable on printed documents
	transportCodePrefix = "TR"
	// transportCodeLength is the random suffix length
	transportCodeLength = 6
	// charset deliberately excludes lowercase to keep codes easy to read aloud
	charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// GenerateTransportCode generates a transport code like "TR4K7Q2M". Codes
// are drawn at random rather than incremented from the last row, so
// concurrent creations cannot race on the same "next" value; the unique
// index on the column catches the rare collision.
func GenerateTransportCode() string {
	result := make([]byte, transportCodeLength)

	for i := 0; i < transportCodeLength; i++ {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		result[i] = charset[num.Int64()]
	}

	return transportCodePrefix + string(result)
}
