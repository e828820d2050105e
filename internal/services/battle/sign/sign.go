// Package sign computes the request digest the battle API requires on every
// mutating call.
//
// The digest is AES-256-CBC over the compact JSON body under a fixed key and
// IV, base64 encoded, then MD5 hashed and rendered as upper-case hex. The key
// and IV are published constants of the remote service, not secrets.
package sign

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

// HeaderName is the request header carrying the digest.
const HeaderName = "Hash"

var (
	key = []byte("uPrwNC7WZr9vEYMGv1pnkeQuogTY8t6P")
	iv  = []byte("BJcmqPomKAYdbfIi")
)

// Checksum returns the digest for payload.
func Checksum(payload []byte) string {
	// A new cipher and mode per call; CBC chaining state must not carry over.
	block, err := aes.NewCipher(key)
	if err != nil {
		panic("sign: invalid AES key: " + err.Error())
	}
	mode := cipher.NewCBCEncrypter(block, iv)

	padded := pad(payload, block.BlockSize())
	encrypted := make([]byte, len(padded))
	mode.CryptBlocks(encrypted, padded)

	encoded := base64.StdEncoding.EncodeToString(encrypted)
	sum := md5.Sum([]byte(encoded))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// pad appends n bytes of value n so the result is a multiple of blockSize.
// Aligned input gains a full block.
func pad(payload []byte, blockSize int) []byte {
	n := blockSize - len(payload)%blockSize
	out := make([]byte, 0, len(payload)+n)
	out = append(out, payload...)
	return append(out, bytes.Repeat([]byte{byte(n)}, n)...)
}
