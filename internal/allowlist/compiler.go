package allowlist

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dropforge/launchpad/internal/infra/filesystem"
	"github.com/dropforge/launchpad/internal/logger"
)

// Compiler turns allowlist files into Merkle commitments.
type Compiler struct {
	writer filesystem.Writer
	logger *slog.Logger
}

// NewCompiler creates a compiler. The writer is used to rewrite cleaned
// allowlist files; pass nil to never touch the input on disk.
func NewCompiler(writer filesystem.Writer) *Compiler {
	return &Compiler{
		writer: writer,
		logger: logger.Named("allowlist_compiler"),
	}
}

// CompileFile reads an allowlist file and compiles it. An empty path compiles to
// the zero root. When lines were dropped or merged and a writer is configured,
// the cleaned list replaces the file so later runs see the same set.
func (c *Compiler) CompileFile(path string, mode Mode) (*Commitment, Report, error) {
	if path == "" {
		return Compile(nil, mode), Report{}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, Report{}, fmt.Errorf("failed to open allowlist %s: %w", path, err)
	}
	defer file.Close()

	entries, report, err := Parse(file)
	if err != nil {
		return nil, report, fmt.Errorf("failed to parse allowlist %s: %w", path, err)
	}

	log := c.logger.With("path", path, "mode", mode)
	if report.Invalid > 0 {
		log.With("invalid", report.Invalid, "lines", report.InvalidLines).Warn("dropped invalid allowlist entries")
	}
	if report.Duplicates > 0 {
		log.With("duplicates", report.Duplicates).Warn("merged duplicate allowlist addresses, last entry wins")
	}

	if report.Changed() && c.writer != nil {
		if err := c.writer.WriteBytes(path, Format(entries)); err != nil {
			return nil, report, fmt.Errorf("failed to rewrite cleaned allowlist %s: %w", path, err)
		}
		log.Info("rewrote cleaned allowlist")
	}

	commitment := Compile(entries, mode)
	log.With("leaves", commitment.LeafCount(), "root", commitment.Root.Hex()).Debug("allowlist compiled")

	return commitment, report, nil
}
