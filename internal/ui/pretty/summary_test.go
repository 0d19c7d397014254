package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/edixml/internal/ui/pretty"
	"github.com/yaklabco/edixml/pkg/runner"
)

func TestFormatSummary_AllConverted(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	result := styles.FormatSummary(runner.Stats{
		FilesDiscovered: 4,
		FilesConverted:  4,
		FilesWritten:    3,
		SegmentsTotal:   120,
		BytesIn:         2048,
		BytesOut:        9000,
	})

	assert.Contains(t, result, "Summary")
	assert.Contains(t, result, "Files found:")
	assert.Contains(t, result, "Written:")
	assert.Contains(t, result, "120")
	assert.Contains(t, result, "9000")
	assert.Contains(t, result, "Conversion succeeded")
	assert.NotContains(t, result, "Failed:")
	assert.NotContains(t, result, "Skipped:")
}

func TestFormatSummary_Failures(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	result := styles.FormatSummary(runner.Stats{
		FilesDiscovered: 5,
		FilesConverted:  2,
		FilesFailed:     1,
		FilesSkipped:    2,
	})

	assert.Contains(t, result, "Failed:")
	assert.Contains(t, result, "Skipped:")
	assert.Contains(t, result, "Conversion finished with failures")
}

func TestFormatSummary_StoppedEarly(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	result := styles.FormatSummary(runner.Stats{FilesDiscovered: 2, FilesConverted: 1, FilesSkipped: 1})
	assert.Contains(t, result, "Conversion stopped early")
}

func TestFormatSummaryOneLine(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)

	tests := []struct {
		name  string
		stats runner.Stats
		want  string
	}{
		{
			name:  "nothing found",
			stats: runner.Stats{},
			want:  "No inputs found\n",
		},
		{
			name:  "one file",
			stats: runner.Stats{FilesDiscovered: 1, FilesConverted: 1, SegmentsTotal: 1},
			want:  "1 converted (1 file, 1 segment)\n",
		},
		{
			name: "mixed",
			stats: runner.Stats{
				FilesDiscovered: 5,
				FilesConverted:  3,
				FilesFailed:     1,
				FilesSkipped:    1,
				FilesWritten:    2,
				SegmentsTotal:   42,
			},
			want: "3 converted, 1 failed, 1 skipped (5 files, 42 segments, 2 written)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, styles.FormatSummaryOneLine(tt.stats))
		})
	}
}
