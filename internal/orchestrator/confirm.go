package orchestrator

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

type (
	// Summary is what the operator sees before an irreversible step.
	Summary struct {
		Title string
		Rows  []SummaryRow
	}

	SummaryRow struct {
		Field string
		Value string
	}

	// Confirmer asks the operator to approve a summary.
	Confirmer interface {
		Confirm(ctx context.Context, summary Summary) (bool, error)
	}

	// PromptConfirmer renders the summary as a table and reads y/N.
	PromptConfirmer struct {
		in  *bufio.Reader
		out io.Writer
	}

	// AutoConfirmer approves everything. It backs the explicit --yes flag.
	AutoConfirmer struct {
		Out io.Writer
	}
)

func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{
		in:  bufio.NewReader(in),
		out: out,
	}
}

func (s *Summary) Add(field, value string) {
	s.Rows = append(s.Rows, SummaryRow{Field: field, Value: value})
}

func (p *PromptConfirmer) Confirm(ctx context.Context, summary Summary) (bool, error) {
	if err := renderSummary(p.out, summary); err != nil {
		return false, err
	}

	color.New(color.FgYellow, color.Bold).Fprint(p.out, "Proceed? [y/N]: ")

	answer := make(chan string, 1)
	go func() {
		line, _ := p.in.ReadString('\n')
		answer <- line
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case line := <-answer:
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		default:
			color.New(color.FgRed).Fprintln(p.out, "Aborted.")
			return false, nil
		}
	}
}

func (a AutoConfirmer) Confirm(_ context.Context, summary Summary) (bool, error) {
	if a.Out == nil {
		return true, nil
	}
	if err := renderSummary(a.Out, summary); err != nil {
		return false, err
	}
	color.New(color.FgGreen).Fprintln(a.Out, "Confirmed by --yes.")
	return true, nil
}

func renderSummary(out io.Writer, summary Summary) error {
	color.New(color.FgCyan, color.Bold).Fprintf(out, "\n%s\n", summary.Title)

	table := tablewriter.NewWriter(out)
	table.Header("Field", "Value")
	for _, row := range summary.Rows {
		if err := table.Append([]string{row.Field, row.Value}); err != nil {
			return fmt.Errorf("failed to render summary: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}

	return nil
}
