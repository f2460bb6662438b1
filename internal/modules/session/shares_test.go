package session

import (
	"testing"

	"edukaster/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestComputeShares_CustomFeesVerbatim(t *testing.T) {
	profile := &domain.TutorProfile{TutorFee: d(4000), AdminFee: d(1000)}

	tutorShare, adminShare := ComputeShares(d(5000), profile)
	assert.True(t, tutorShare.Equal(d(4000)))
	assert.True(t, adminShare.Equal(d(1000)))

	// Custom fees are independent of the amount paid.
	tutorShare, adminShare = ComputeShares(d(99999), profile)
	assert.True(t, tutorShare.Equal(d(4000)))
	assert.True(t, adminShare.Equal(d(1000)))
}

func TestComputeShares_DefaultSplit(t *testing.T) {
	profile := &domain.TutorProfile{}

	tutorShare, adminShare := ComputeShares(d(10000), profile)
	assert.True(t, tutorShare.Equal(d(8000)))
	assert.True(t, adminShare.Equal(d(2000)))
}

func TestComputeShares_RemainderGoesToPlatform(t *testing.T) {
	tests := []struct {
		amount     int64
		wantTutor  string
		wantAdmin  string
	}{
		{101, "81", "20"},
		{103, "82", "21"},
		{1, "1", "0"},
	}

	for _, tt := range tests {
		tutorShare, adminShare := ComputeShares(d(tt.amount), nil)
		assert.Equal(t, tt.wantTutor, tutorShare.String(), "amount %d", tt.amount)
		assert.Equal(t, tt.wantAdmin, adminShare.String(), "amount %d", tt.amount)
		assert.True(t, tutorShare.Add(adminShare).Equal(d(tt.amount)), "amount %d", tt.amount)
	}
}
