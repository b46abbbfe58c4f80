package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shelfrag/bookrag/internal/domain/entities"
)

type mockAsker struct {
	questions []string
	answer    string
	err       error
}

func (m *mockAsker) Ask(ctx context.Context, question string) (*entities.ChatResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.questions = append(m.questions, question)
	return &entities.ChatResponse{Answer: m.answer}, nil
}

func TestChat_QuitCommand(t *testing.T) {
	var out bytes.Buffer
	asker := &mockAsker{}
	chat := New(asker, strings.NewReader("q\n"), &out)

	if err := chat.Run(context.Background()); err != nil {
		t.Fatalf("quit should end the loop cleanly: %v", err)
	}
	if len(asker.questions) != 0 {
		t.Error("quit command must not reach the pipeline")
	}
	if !strings.Contains(out.String(), "Goodbye") {
		t.Error("quit should print the farewell")
	}
}

func TestChat_QuitIsCaseAndSpaceInsensitive(t *testing.T) {
	var out bytes.Buffer
	asker := &mockAsker{}
	chat := New(asker, strings.NewReader("  Q  \n"), &out)

	if err := chat.Run(context.Background()); err != nil {
		t.Fatalf("normalized quit should end the loop: %v", err)
	}
	if len(asker.questions) != 0 {
		t.Error("normalized quit must not reach the pipeline")
	}
}

func TestChat_AnswersThenQuits(t *testing.T) {
	var out bytes.Buffer
	asker := &mockAsker{answer: "They wrote A and B."}
	chat := New(asker, strings.NewReader("what did X write?\nq\n"), &out)

	if err := chat.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(asker.questions) != 1 || asker.questions[0] != "what did X write?" {
		t.Errorf("raw input should be forwarded verbatim: %v", asker.questions)
	}
	if !strings.Contains(out.String(), "They wrote A and B.") {
		t.Error("answer should be printed")
	}
}

func TestChat_PrintsBanner(t *testing.T) {
	var out bytes.Buffer
	chat := New(&mockAsker{}, strings.NewReader("q\n"), &out)
	chat.Run(context.Background())

	if !strings.Contains(out.String(), "Book Q&A Assistant") {
		t.Error("banner should be printed on start")
	}
}

func TestChat_ErrorTerminatesLoop(t *testing.T) {
	var out bytes.Buffer
	asker := &mockAsker{err: entities.ErrGeneration}
	chat := New(asker, strings.NewReader("why?\nnever reached\nq\n"), &out)

	err := chat.Run(context.Background())
	if !errors.Is(err, entities.ErrGeneration) {
		t.Errorf("pipeline errors should propagate unrecovered, got %v", err)
	}
}

func TestChat_EOFEndsCleanly(t *testing.T) {
	var out bytes.Buffer
	chat := New(&mockAsker{}, strings.NewReader(""), &out)

	if err := chat.Run(context.Background()); err != nil {
		t.Errorf("EOF should end the loop without error: %v", err)
	}
}
