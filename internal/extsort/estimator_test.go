package extsort

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockSize(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		fileSize int64
		maxRuns  int
		free     int64
		want     int64
		wantErr  error
	}{
		{
			name:     "tiny naive share widened to half of free memory",
			fileSize: 100,
			maxRuns:  10,
			free:     1000,
			want:     500,
		},
		{
			name:     "naive share dominates when above half of free memory",
			fileSize: 10000,
			maxRuns:  10,
			free:     1500,
			want:     1000,
		},
		{
			name:     "naive share rounds up",
			fileSize: 1001,
			maxRuns:  10,
			free:     150,
			want:     101,
		},
		{
			name:     "naive share exactly fills free memory",
			fileSize: 1000,
			maxRuns:  1,
			free:     1000,
			want:     1000,
		},
		{
			name:     "naive share exceeds free memory",
			fileSize: 1001,
			maxRuns:  1,
			free:     1000,
			wantErr:  ErrCapacity,
		},
		{
			name:     "empty file still gets half of free memory",
			fileSize: 0,
			maxRuns:  1024,
			free:     1000,
			want:     500,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := BlockSize(tc.fileSize, tc.maxRuns, tc.free)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.LessOrEqual(t, got, tc.free, "block size must never exceed free memory")
		})
	}
}

func TestBlockSizeRejectsInvalidMaxRuns(t *testing.T) {
	t.Parallel()
	_, err := BlockSize(1000, 0, 1000)
	require.Error(t, err)
	_, err = BlockSize(1000, -5, 1000)
	require.Error(t, err)
}

func TestSizeEstimatorMonotonic(t *testing.T) {
	t.Parallel()
	est := SizeEstimator{Overhead: DefaultTokenOverhead}

	var prev int64
	for i := 1; i <= 64; i++ {
		size := est.Token(strings.Repeat("x", i))
		assert.Greater(t, size, prev, "size must grow with token length")
		prev = size
	}
}

func TestSizeEstimatorCountsRunesNotBytes(t *testing.T) {
	t.Parallel()
	est := SizeEstimator{Overhead: DefaultTokenOverhead}
	// Both tokens are five characters, the accented one is longer in bytes.
	assert.Equal(t, est.Token("hello"), est.Token("héllo"))
}

func TestRuntimeMemoryEstimator(t *testing.T) {
	free := RuntimeMemoryEstimator{}.FreeMemory()
	assert.GreaterOrEqual(t, free, int64(minFreeMemory))
}

func TestFixedMemoryEstimator(t *testing.T) {
	t.Parallel()
	assert.Equal(t, int64(12345), FixedMemoryEstimator(12345).FreeMemory())
}
