package builtins

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"strings"

	"calc/types"

	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"
)

// ============================================================================
// HASHING BUILTINS
// ============================================================================

// DefaultHash is the digest used when hash() is given no algorithm
const DefaultHash = "sha256"

// getHasher returns a hash.Hash for the given algorithm name
func getHasher(algo string) (hash.Hash, bool) {
	switch strings.ToLower(algo) {
	case "md5":
		return md5.New(), true
	case "sha1":
		return sha1.New(), true
	case "sha224":
		return sha256.New224(), true
	case "sha256", "":
		return sha256.New(), true
	case "sha384":
		return sha512.New384(), true
	case "sha512":
		return sha512.New(), true
	case "sha3-256":
		return sha3.New256(), true
	case "sha3-512":
		return sha3.New512(), true
	case "ripemd160":
		return ripemd160.New(), true
	default:
		return nil, false
	}
}

// HashAlgorithms lists the names accepted by hash()
func HashAlgorithms() []string {
	return []string{"md5", "ripemd160", "sha1", "sha224", "sha256", "sha3-256", "sha3-512", "sha384", "sha512"}
}

// builtinHash hashes a string (or the rendering of any other value)
// hash(value [, algo]) -> str
func (r *Registry) builtinHash(scope *types.Map) types.Result {
	v, f := required(scope, "hash", "value")
	if f != nil {
		return types.Result{Err: f}
	}

	algo := DefaultHash
	if a, ok := param(scope, "algo"); ok {
		s, err := types.AsString(a)
		if err != nil {
			return types.Fail(err)
		}
		algo = s
	}

	hasher, ok := getHasher(algo)
	if !ok {
		return types.Errf(types.E_INVARG, "hash", "unknown algorithm %q", algo)
	}

	var text string
	if s, ok := v.(types.StrValue); ok {
		text = s.Value()
	} else {
		s, err := r.Stringify(v, types.DefaultDepth)
		if err != nil {
			return types.Fail(err)
		}
		text = s
	}

	hasher.Write([]byte(text))
	return types.Ok(types.NewStr(strings.ToUpper(hex.EncodeToString(hasher.Sum(nil)))))
}
