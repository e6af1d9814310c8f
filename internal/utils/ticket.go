package utils

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"
)

const ticketIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewTicketID генерирует номер билета вида TKT<миллисекунды><5 символов>,
// например TKT1735689600000A3F9K
func NewTicketID() string {
	suffix := make([]byte, 5)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(ticketIDAlphabet))))
		if err != nil {
			// crypto/rand недоступен только при неисправной системе,
			// в этом случае берем детерминированный символ
			suffix[i] = ticketIDAlphabet[0]
			continue
		}
		suffix[i] = ticketIDAlphabet[n.Int64()]
	}
	return "TKT" + strconv.FormatInt(time.Now().UnixMilli(), 10) + string(suffix)
}
