// Package usecases - answer.go combines retrieved documents and a question
// into a prompt and forwards it to the language model.
package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/shelfrag/bookrag/internal/domain/entities"
	"github.com/shelfrag/bookrag/internal/domain/ports"
)

const promptText = `You are an expert at answering questions about books.

Here are some relevant book entries:
{{.Entries}}

Here is the user's question:
{{.Question}}
`

var promptTemplate = template.Must(template.New("answer").Parse(promptText))

// AnswerUseCase renders the fixed prompt template and calls the LLM.
type AnswerUseCase struct {
	llm ports.LLMService
}

// NewAnswerUseCase creates an AnswerUseCase with the injected model.
func NewAnswerUseCase(llm ports.LLMService) *AnswerUseCase {
	return &AnswerUseCase{llm: llm}
}

// Answer renders the prompt from the retrieved documents and the verbatim
// question, sends it to the model, and returns the generated text
// unmodified. No retries, no streaming: a model failure propagates wrapping
// entities.ErrGeneration.
func (uc *AnswerUseCase) Answer(ctx context.Context, question string, docs []entities.QueryResult) (string, error) {
	entries := make([]string, len(docs))
	for i, d := range docs {
		entries[i] = d.Document.Content
	}

	var prompt strings.Builder
	err := promptTemplate.Execute(&prompt, struct {
		Entries  string
		Question string
	}{
		Entries:  strings.Join(entries, "\n"),
		Question: question,
	})
	if err != nil {
		return "", fmt.Errorf("%w: rendering prompt: %v", entities.ErrGeneration, err)
	}

	answer, err := uc.llm.Generate(ctx, prompt.String())
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	return answer, nil
}

// AskUseCase drives one question iteration: retrieval then answering.
type AskUseCase struct {
	retriever *Retriever
	answerer  *AnswerUseCase
	logger    *slog.Logger
}

// NewAskUseCase creates an AskUseCase with injected dependencies.
func NewAskUseCase(retriever *Retriever, answerer *AnswerUseCase, logger *slog.Logger) *AskUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &AskUseCase{retriever: retriever, answerer: answerer, logger: logger}
}

// Ask retrieves documents relevant to the question and generates an answer
// backed by them.
func (uc *AskUseCase) Ask(ctx context.Context, question string) (*entities.ChatResponse, error) {
	results, err := uc.retriever.Retrieve(ctx, question)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("retrieved documents", "question_len", len(question), "results", len(results))

	answer, err := uc.answerer.Answer(ctx, question, results)
	if err != nil {
		return nil, err
	}
	return &entities.ChatResponse{Answer: answer, Sources: results}, nil
}
