package rewards

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// voucherAlphabet avoids ambiguous characters (0/O, 1/I) so codes can be
// read back over the phone.
const (
	voucherAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	voucherLength   = 12
	voucherPrefix   = "TP"
)

// GenerateVoucherCode returns a random voucher code like
// "TP-7KQ2-M9XW-4RT3". The code space is large enough that collisions are
// rare, but uniqueness is still enforced by the store and collisions are
// retried rather than trusted away.
func GenerateVoucherCode() (string, error) {
	buf := make([]byte, voucherLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	var b strings.Builder
	b.WriteString(voucherPrefix)
	for i, c := range buf {
		if i%4 == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(voucherAlphabet[int(c)%len(voucherAlphabet)])
	}
	return b.String(), nil
}
