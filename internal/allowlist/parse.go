package allowlist

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

type (
	// Entry is one allowlisted wallet. A nil Limit means the stage's flat
	// wallet limit applies.
	Entry struct {
		Address common.Address
		Limit   *uint32
	}

	// Report summarises what Parse dropped or merged.
	Report struct {
		Lines        int
		Invalid      int
		Duplicates   int
		InvalidLines []int
	}
)

// Changed reports whether the parsed set differs from the raw file contents.
func (r Report) Changed() bool {
	return r.Invalid > 0 || r.Duplicates > 0
}

// IsValidAddress accepts 0x-prefixed 20-byte hex strings. Mixed-case input must
// carry a correct EIP-55 checksum; single-case input is accepted as is.
func IsValidAddress(value string) bool {
	if !strings.HasPrefix(value, "0x") && !strings.HasPrefix(value, "0X") {
		return false
	}
	if !common.IsHexAddress(value) {
		return false
	}

	digits := value[2:]
	if digits == strings.ToLower(digits) || digits == strings.ToUpper(digits) {
		return true
	}

	return common.HexToAddress(value).Hex() == "0x"+digits
}

// Parse reads newline-delimited "address" or "address,limit" lines. Blank lines
// and '#' comments are skipped. Invalid lines are dropped and counted, never
// fatal. When an address repeats, the last occurrence wins.
func Parse(r io.Reader) ([]Entry, Report, error) {
	var (
		report  Report
		entries []Entry
		seen    = make(map[common.Address]int)
	)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		report.Lines++

		entry, ok := parseLine(line)
		if !ok {
			report.Invalid++
			report.InvalidLines = append(report.InvalidLines, lineNo)
			continue
		}

		if idx, dup := seen[entry.Address]; dup {
			report.Duplicates++
			entries[idx] = entry
			continue
		}
		seen[entry.Address] = len(entries)
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, report, fmt.Errorf("failed to read allowlist: %w", err)
	}

	return entries, report, nil
}

func parseLine(line string) (Entry, bool) {
	addressPart, limitPart, hasLimit := strings.Cut(line, ",")
	addressPart = strings.TrimSpace(addressPart)
	if !IsValidAddress(addressPart) {
		return Entry{}, false
	}

	entry := Entry{Address: common.HexToAddress(addressPart)}
	if !hasLimit {
		return entry, true
	}

	limit, err := strconv.ParseUint(strings.TrimSpace(limitPart), 10, 32)
	if err != nil {
		return Entry{}, false
	}
	value := uint32(limit)
	entry.Limit = &value

	return entry, true
}

// Format renders entries back into the allowlist file format using checksummed
// addresses.
func Format(entries []Entry) []byte {
	var b strings.Builder
	for _, entry := range entries {
		b.WriteString(entry.Address.Hex())
		if entry.Limit != nil {
			b.WriteString(",")
			b.WriteString(strconv.FormatUint(uint64(*entry.Limit), 10))
		}
		b.WriteString("\n")
	}

	return []byte(b.String())
}
