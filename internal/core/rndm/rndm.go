package rndm

import (
	"encoding/hex"
	"math/big"
	"math/rand"
	"strings"
	"time"
)

func init() {
	rand.Seed(time.Now().UnixNano())
}

func String(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}

func Bytes(l int) []byte {
	token := make([]byte, l)
	rand.Read(token)
	return token
}

// Address returns random lower-case hex account address.
func Address() string {
	return "0x" + hex.EncodeToString(Bytes(20))
}

// MixedCaseAddress returns the same address with random letter case.
func MixedCaseAddress(a string) string {
	b := []byte(strings.ToLower(a))
	for i := 2; i < len(b); i++ {
		if b[i] >= 'a' && b[i] <= 'f' && rand.Intn(2) == 0 {
			b[i] -= 'a' - 'A'
		}
	}
	return string(b)
}

func Hash() string {
	return "0x" + hex.EncodeToString(Bytes(32))
}

func BigInt() *big.Int {
	return new(big.Int).SetUint64(rand.Uint64())
}
