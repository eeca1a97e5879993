package allowlist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fsjson "github.com/dropforge/launchpad/internal/infra/filesystem/json"
)

const (
	checksummed = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	lowercase   = "0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359"
	badChecksum = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAeD"
)

func TestIsValidAddress(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{checksummed, true},
		{lowercase, true},
		{"0x" + strings.ToUpper(lowercase[2:]), true},
		{strings.ToUpper(lowercase[2:]), false},
		{badChecksum, false},
		{"0x1234", false},
		{"", false},
		{"hello", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidAddress(tt.input), tt.input)
	}
}

func TestParseHandlesCommentsLimitsAndInvalidLines(t *testing.T) {
	input := strings.Join([]string{
		"# presale wallets",
		checksummed + ",3",
		"",
		lowercase,
		badChecksum,
		lowercase + ",-1",
		lowercase + ",abc",
	}, "\n")

	entries, report, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, common.HexToAddress(checksummed), entries[0].Address)
	require.NotNil(t, entries[0].Limit)
	assert.Equal(t, uint32(3), *entries[0].Limit)
	assert.Nil(t, entries[1].Limit)

	assert.Equal(t, 5, report.Lines)
	assert.Equal(t, 3, report.Invalid)
	assert.Equal(t, []int{5, 6, 7}, report.InvalidLines)
}

func TestParseDuplicateLastWins(t *testing.T) {
	input := checksummed + ",1\n" + lowercase + "\n" + strings.ToLower(checksummed) + ",7\n"

	entries, report, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, 1, report.Duplicates)
	require.NotNil(t, entries[0].Limit)
	assert.Equal(t, uint32(7), *entries[0].Limit)
}

func TestCompileFileRewritesCleanedCopy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allowlist.txt")
	raw := checksummed + ",2\n" + "not-an-address\n" + lowercase + ",2\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	compiler := NewCompiler(fsjson.NewWriter())
	commitment, report, err := compiler.CompileFile(path, ModeVariableLimit)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Invalid)
	assert.Equal(t, 2, commitment.LeafCount())

	cleaned, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, checksummed+",2\n"+common.HexToAddress(lowercase).Hex()+",2\n", string(cleaned))

	again, report, err := compiler.CompileFile(path, ModeVariableLimit)
	require.NoError(t, err)
	assert.False(t, report.Changed())
	assert.Equal(t, commitment.Root, again.Root)
}

func TestCompileFileWithoutWriterLeavesInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allowlist.txt")
	raw := "junk\n" + lowercase + "\n"
	require.NoError(t, os.WriteFile(path, []byte(raw), 0644))

	_, _, err := NewCompiler(nil).CompileFile(path, ModePresence)
	require.NoError(t, err)

	unchanged, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, raw, string(unchanged))
}

func TestCompileFileEmptyPath(t *testing.T) {
	commitment, _, err := NewCompiler(nil).CompileFile("", ModePresence)
	require.NoError(t, err)
	assert.Equal(t, common.Hash{}, commitment.Root)
}

func TestCompileFileMissing(t *testing.T) {
	_, _, err := NewCompiler(nil).CompileFile(filepath.Join(t.TempDir(), "nope.txt"), ModePresence)
	require.ErrorIs(t, err, os.ErrNotExist)
}
