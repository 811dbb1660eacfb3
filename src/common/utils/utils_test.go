package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToValidateAddress(t *testing.T) {
	assert.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", ToValidateAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"))
	assert.Equal(t, "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359", ToValidateAddress("0XFB6916095CA1DF60BB79CE92CE3EA74C37C5D359"))
}

func TestIntersect(t *testing.T) {
	assert.Equal(t, []string{"2", "3"}, Intersect([]string{"1", "2", "3", "2"}, []string{"3", "2"}))
	assert.Equal(t, []string{}, Intersect(nil, []string{"1"}))
}

func TestVerifyAddress(t *testing.T) {
	type req struct {
		Address string `validate:"omitempty,address"`
	}
	assert.NoError(t, Verify(req{}))
	assert.NoError(t, Verify(req{Address: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"}))
	assert.Error(t, Verify(req{Address: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeA"}))
}

func TestRetry(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), "op", 3, time.Millisecond, func() error {
		calls++
		if calls < 2 {
			return errors.New("temporary")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	err = Retry(context.Background(), "op", 2, time.Millisecond, func() error {
		calls++
		return errors.New("permanent")
	})
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}
