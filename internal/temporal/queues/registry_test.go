package queues

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgsst/profesiograma-go/internal/temporal/versioning"
)

func TestDefaultConfigs(t *testing.T) {
	configs := DefaultConfigs()
	assert.Len(t, configs, 2)
	require.Contains(t, configs, versioning.QueueSubmit)
	require.Contains(t, configs, versioning.QueuePersist)

	assert.True(t, configs[versioning.QueueSubmit].Workflows)
	assert.False(t, configs[versioning.QueuePersist].Workflows)
	assert.Equal(t, []string{"PersistProfile"}, configs[versioning.QueuePersist].Activities)
	assert.Equal(t, 2, configs[versioning.QueuePersist].Options.MaxConcurrentActivityExecutionSize)
}

func TestParseQueues(t *testing.T) {
	all := []string{versioning.QueueSubmit, versioning.QueuePersist}
	tests := []struct {
		name    string
		raw     []string
		want    []string
		wantErr string
	}{
		{"empty defaults to all", nil, all, ""},
		{"short name submit", []string{"submit"}, []string{versioning.QueueSubmit}, ""},
		{"short name persist", []string{"persist"}, []string{versioning.QueuePersist}, ""},
		{"full name", []string{"profesiograma-submit"}, []string{versioning.QueueSubmit}, ""},
		{"multiple", []string{"persist", "submit"}, []string{versioning.QueuePersist, versioning.QueueSubmit}, ""},
		{"deduplicate", []string{"submit", "profesiograma-submit"}, []string{versioning.QueueSubmit}, ""},
		{"spaces trimmed", []string{" submit ", ""}, []string{versioning.QueueSubmit}, ""},
		{"unknown queue", []string{"bogus"}, nil, `unknown queue "bogus"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQueues(tt.raw)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
