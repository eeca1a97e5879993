package orchestrator

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSummary() Summary {
	summary := Summary{Title: "Deploy collection"}
	summary.Add("Collection", "Drop (DROP)")
	summary.Add("Deployment fee", "0.001 ETH")
	return summary
}

func TestPromptConfirmer(t *testing.T) {
	tests := map[string]struct {
		input string
		want  bool
	}{
		"yes":         {input: "y\n", want: true},
		"full yes":    {input: " YES \n", want: true},
		"no":          {input: "n\n", want: false},
		"empty":       {input: "\n", want: false},
		"closed file": {input: "", want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var out bytes.Buffer
			confirmer := NewPromptConfirmer(strings.NewReader(tt.input), &out)

			ok, err := confirmer.Confirm(context.Background(), testSummary())
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			assert.Contains(t, out.String(), "Deploy collection")
			assert.Contains(t, out.String(), "0.001 ETH")
		})
	}
}

func TestPromptConfirmerHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	confirmer := NewPromptConfirmer(blockingReader{}, &bytes.Buffer{})
	_, err := confirmer.Confirm(ctx, testSummary())
	require.ErrorIs(t, err, context.Canceled)
}

func TestAutoConfirmer(t *testing.T) {
	ok, err := AutoConfirmer{}.Confirm(context.Background(), testSummary())
	require.NoError(t, err)
	assert.True(t, ok)

	var out bytes.Buffer
	ok, err = AutoConfirmer{Out: &out}.Confirm(context.Background(), testSummary())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "Drop (DROP)")
}

type blockingReader struct{}

func (blockingReader) Read([]byte) (int, error) {
	select {}
}
