package auth

import (
	"crypto/rand"
	"math/big"
)

const (
	upperChars = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerChars = "abcdefghijkmnopqrstuvwxyz"
	digitChars = "23456789"
	allChars   = upperChars + lowerChars + digitChars

	minGeneratedLength = 8
	maxGeneratedLength = 12
)

// GenerateRandomPassword returns 8 to 12 characters with at least one upper
// case letter, one lower case letter and one digit. Look-alike characters
// are excluded.
func GenerateRandomPassword() (string, error) {
	extra, err := randInt(maxGeneratedLength - minGeneratedLength + 1)
	if err != nil {
		return "", err
	}
	length := minGeneratedLength + extra

	buf := make([]byte, 0, length)
	for _, set := range []string{upperChars, lowerChars, digitChars} {
		c, err := pick(set)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}
	for len(buf) < length {
		c, err := pick(allChars)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}

	// Fisher-Yates so the mandatory classes are not always in front.
	for i := len(buf) - 1; i > 0; i-- {
		j, err := randInt(i + 1)
		if err != nil {
			return "", err
		}
		buf[i], buf[j] = buf[j], buf[i]
	}

	return string(buf), nil
}

func pick(set string) (byte, error) {
	i, err := randInt(len(set))
	if err != nil {
		return 0, err
	}
	return set[i], nil
}

func randInt(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
