package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTicketID_Format(t *testing.T) {
	// TKT, миллисекунды эпохи, затем 5 символов [0-9A-Z]
	pattern := regexp.MustCompile(`^TKT\d{13}[0-9A-Z]{5}$`)

	id := NewTicketID()
	assert.Regexp(t, pattern, id)
}

func TestNewTicketID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewTicketID()
		assert.False(t, seen[id], "повторный номер билета: %s", id)
		seen[id] = true
	}
}
