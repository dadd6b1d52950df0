package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignedDelta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ  EntryType
		want int64
	}{
		{TypeDeposit, 250},
		{TypeReserveRelease, 0},
		{TypeWithdraw, -250},
		{TypeReserveCommit, -250},
		{EntryType("UNKNOWN"), 0},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(string(tt.typ), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, SignedDelta(tt.typ, 250))
		})
	}
}
