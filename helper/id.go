package helper

import (
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const shortIDAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewObjectID returns a 24 character hex id, the shape restaurant ids have
// always had.
func NewObjectID() string {
	return primitive.NewObjectID().Hex()
}

// NewShortID returns a random alphanumeric id of length n.
func NewShortID(n int) string {
	var sb strings.Builder
	max := big.NewInt(int64(len(shortIDAlphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		sb.WriteByte(shortIDAlphabet[idx.Int64()])
	}
	return sb.String()
}

// NewAssetToken returns 32 random hex characters for a blob key.
func NewAssetToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
