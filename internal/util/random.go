package util

import (
	"crypto/rand"
	"math/big"
)

// CertificateAlphabet omits 0/O and 1/I so identifiers survive being read aloud or retyped.
const CertificateAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

const CertificateIDLength = 16

func randomFrom(alphabet string, n int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[idx.Int64()]
	}
	return string(buf), nil
}

// NewCertificateID returns a fixed length identifier with 80 bits of entropy.
func NewCertificateID() (string, error) {
	return randomFrom(CertificateAlphabet, CertificateIDLength)
}

// IsCertificateID reports whether s has the shape of an issued identifier.
func IsCertificateID(s string) bool {
	if len(s) != CertificateIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		found := false
		for j := 0; j < len(CertificateAlphabet); j++ {
			if s[i] == CertificateAlphabet[j] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func GenerateRandomString(n int) string {
	s, err := randomFrom("abcdefghijklmnopqrstuvwxyz0123456789", n)
	if err != nil {
		panic(err)
	}
	return s
}
