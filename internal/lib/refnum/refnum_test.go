package refnum

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionNumber(t *testing.T) {
	re := regexp.MustCompile(`^SUB-[0-9A-F]{8}$`)
	for i := 0; i < 100; i++ {
		n := SubscriptionNumber()
		assert.Regexp(t, re, n)
	}
}

func TestOrderNumber(t *testing.T) {
	re := regexp.MustCompile(`^ORD-[0-9A-F]{12}$`)
	for i := 0; i < 100; i++ {
		n := OrderNumber()
		assert.Regexp(t, re, n)
	}
}

func TestSubscriptionNumber_Varies(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		seen[SubscriptionNumber()] = true
	}
	assert.Greater(t, len(seen), 990)
}
