// Package cli provides the interactive chat loop.
// Framework/driver layer - the outermost circle; it drives retrieval and
// answering through the Asker port and owns all terminal presentation.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/shelfrag/bookrag/internal/domain/entities"
)

// Asker is the chat-facing subset of the application core.
type Asker interface {
	Ask(ctx context.Context, question string) (*entities.ChatResponse, error)
}

var (
	bannerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	answerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Chat reads questions line by line from in and prints answers to out.
type Chat struct {
	asker Asker
	in    io.Reader
	out   io.Writer
}

// New creates a chat loop over the given streams.
func New(asker Asker, in io.Reader, out io.Writer) *Chat {
	return &Chat{asker: asker, in: in, out: out}
}

// Run prints the banner and loops until the user enters "q" (case and
// surrounding whitespace ignored) or input ends. A retrieval or generation
// error is returned as-is: the loop performs no recovery of its own.
func (c *Chat) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, bannerStyle.Render("Book Q&A Assistant (type 'q' to quit)"))
	fmt.Fprintln(c.out, separatorStyle.Render("-----------------------------------------"))

	scanner := bufio.NewScanner(c.in)
	for {
		fmt.Fprint(c.out, "\nAsk your question: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			fmt.Fprintln(c.out)
			return nil
		}

		question := scanner.Text()
		if strings.ToLower(strings.TrimSpace(question)) == "q" {
			fmt.Fprintln(c.out, "Exiting Book Q&A. Goodbye!")
			return nil
		}

		resp, err := c.asker.Ask(ctx, question)
		if err != nil {
			return err
		}

		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, answerStyle.Render("Answer:"))
		fmt.Fprintln(c.out, resp.Answer)
		fmt.Fprintln(c.out, separatorStyle.Render("--------------------------------------------------"))
	}
}
