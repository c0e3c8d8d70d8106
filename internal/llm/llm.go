// Package llm is the language-model collaborator: it turns prompts into raw
// completion text. Parsing that text into recipes is recipeparse's job.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Task names what a completion is for. Each task maps to a configured model.
type Task string

const (
	TaskGenerate Task = "generate"
	TaskParse    Task = "parse"
)

var ErrEmptyCompletion = errors.New("llm returned an empty completion")

type Request struct {
	Task   Task
	System string
	Prompt string
}

// Completer is implemented by every model backend.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Models maps tasks to model ids.
type Models map[Task]string

// For returns the model for task, falling back to the generate model.
func (m Models) For(task Task) (string, error) {
	if model := m[task]; model != "" {
		return model, nil
	}
	if model := m[TaskGenerate]; model != "" {
		return model, nil
	}
	return "", fmt.Errorf("no model configured for task %q", task)
}
