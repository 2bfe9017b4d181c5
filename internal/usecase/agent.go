package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"research/internal/port"
	"research/internal/prompt"
)

// Tool invocation outcomes reported to a ToolObserver.
const (
	ToolOutcomeOK          = "ok"
	ToolOutcomeError       = "error"
	ToolOutcomeInvalidArgs = "invalid_args"
)

// ToolObserver is notified after every tool invocation.
type ToolObserver func(tool, outcome string)

// AgentUseCase answers research questions with a tool-calling model. Every
// tool answers directly: the first turn that runs a tool ends the
// conversation with that tool's output.
type AgentUseCase struct {
	llm           port.ToolCallingLLM
	tools         []Tool
	byName        map[string]Tool
	maxIterations int
	maxCompare    int
	observer      ToolObserver
	logger        *zap.Logger
}

// AgentOptions configures the agent loop.
type AgentOptions struct {
	MaxIterations int
	MaxCompare    int
	Observer      ToolObserver
}

// NewAgentUseCase creates a new research agent.
func NewAgentUseCase(llm port.ToolCallingLLM, tools []Tool, opts AgentOptions, logger *zap.Logger) *AgentUseCase {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 5
	}
	if opts.MaxCompare <= 0 {
		opts.MaxCompare = 5
	}
	if opts.Observer == nil {
		opts.Observer = func(string, string) {}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	byName := make(map[string]Tool, len(tools))
	for _, t := range tools {
		byName[t.Schema().Name] = t
	}
	return &AgentUseCase{
		llm:           llm,
		tools:         tools,
		byName:        byName,
		maxIterations: opts.MaxIterations,
		maxCompare:    opts.MaxCompare,
		observer:      opts.Observer,
		logger:        logger.With(zap.String("component", "agent")),
	}
}

// ComposeMessage appends the base names of the available files to message.
func ComposeMessage(message string, files []string) string {
	if len(files) == 0 {
		return message
	}
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = filepath.Base(f)
	}
	return message + "\n\nAvailable files: " + strings.Join(names, ", ")
}

// Chat answers message. With useAgent false the model answers in a single
// completion without tools.
func (a *AgentUseCase) Chat(ctx context.Context, message string, files []string, useAgent bool) (string, error) {
	content := ComposeMessage(message, files)

	if !useAgent {
		return a.llm.Generate(ctx, content)
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = filepath.Base(f)
	}
	system, err := prompt.AgentSystem(prompt.AgentData{MaxCompare: a.maxCompare, Files: names})
	if err != nil {
		return "", err
	}

	schemas := make([]port.ToolSchema, len(a.tools))
	for i, t := range a.tools {
		schemas[i] = t.Schema()
	}

	messages := []port.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: content},
	}

	for i := 0; i < a.maxIterations; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		a.logger.Debug("agent iteration", zap.Int("iteration", i+1))

		reply, err := a.llm.ChatWithTools(ctx, messages, schemas)
		if err != nil {
			return "", fmt.Errorf("model call failed at iteration %d: %w", i+1, err)
		}

		if len(reply.ToolCalls) == 0 {
			a.logger.Info("agent answered", zap.Int("iterations", i+1))
			return reply.Content, nil
		}

		messages = append(messages, reply)

		var (
			answer   string
			answered bool
		)
		for _, call := range reply.ToolCalls {
			out, ok := a.invoke(ctx, call)
			messages = append(messages, port.Message{
				Role:       "tool",
				Name:       call.Name,
				ToolCallID: call.ID,
				Content:    out,
			})
			if ok {
				answer, answered = out, true
			}
		}

		if answered {
			a.logger.Info("agent answered with tool output", zap.Int("iterations", i+1))
			return answer, nil
		}
	}

	a.logger.Warn("agent max iterations reached", zap.Int("max", a.maxIterations))
	return "", fmt.Errorf("max iterations reached (%d)", a.maxIterations)
}

// invoke runs one tool call. ok is false when the call could not be made,
// in which case out explains why to the model.
func (a *AgentUseCase) invoke(ctx context.Context, call port.ToolCall) (out string, ok bool) {
	tool, found := a.byName[call.Name]
	if !found {
		a.observer(call.Name, ToolOutcomeInvalidArgs)
		return fmt.Sprintf("Error: unknown tool %q", call.Name), false
	}

	out, err := tool.Call(ctx, call.Arguments)
	if err != nil {
		a.logger.Warn("tool call rejected", zap.String("tool", call.Name), zap.Error(err))
		a.observer(call.Name, ToolOutcomeInvalidArgs)
		return fmt.Sprintf("Error: %s", err), false
	}

	outcome := ToolOutcomeOK
	if strings.HasPrefix(out, "❌") {
		outcome = ToolOutcomeError
	}
	a.observer(call.Name, outcome)
	return out, true
}

// Run answers message and renders any failure as text.
func (a *AgentUseCase) Run(ctx context.Context, message string, files []string, useAgent bool) string {
	out, err := a.Chat(ctx, message, files, useAgent)
	if err != nil {
		a.logger.Warn("query failed", zap.Error(err))
		return fmt.Sprintf("❌ Error processing query: %s", err)
	}
	return out
}
