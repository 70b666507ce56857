package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemcacheService(t *testing.T) {
	svc := NewMemcacheService("localhost:11211")

	err := svc.Set("menuworker_test_key", []byte("value"), time.Minute)
	if err != nil {
		t.Skip("Memcache is not available, skipping test")
	}

	value, err := svc.Get("menuworker_test_key")
	assert.NoError(t, err)
	assert.Equal(t, []byte("value"), value)

	assert.NoError(t, svc.Delete("menuworker_test_key"))

	_, err = svc.Get("menuworker_test_key")
	assert.Error(t, err)
}
