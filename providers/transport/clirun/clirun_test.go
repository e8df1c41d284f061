package clirun

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/frogg-app/prompt-assistant/internal/jsonschema"
	"github.com/frogg-app/prompt-assistant/providers/transport"
)

// shell wraps a shell snippet so adapter-appended arguments land in "$@".
func shell(script string) []string {
	return []string{"/bin/sh", "-c", script, "provider-cli"}
}

func TestInvoke_ReturnsStdout(t *testing.T) {
	adapter := New()
	out, err := adapter.Invoke(context.Background(), transport.Request{
		Command:     shell(`printf '{"improved_prompt":"ok"}'`),
		UserContent: "fix the bug",
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if out != `{"improved_prompt":"ok"}` {
		t.Errorf("Invoke() out = %q", out)
	}
}

func TestInvoke_ArgumentVector(t *testing.T) {
	type shape struct {
		ImprovedPrompt string `json:"improved_prompt"`
	}

	adapter := New()
	out, err := adapter.Invoke(context.Background(), transport.Request{
		Command:            shell(`printf '%s\n' "$@"`),
		UserContent:        "make it better",
		SystemInstructions: "you are a prompt refiner",
		ModelID:            "sonnet-x",
		DefaultModelID:     "haiku-y",
		OutputSchema:       jsonschema.Generate[shape](),
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	wantInOrder := []string{
		"--output-format", "json",
		"--json-schema", // schema JSON follows on the next line
	}
	for i, want := range wantInOrder {
		if lines[i] != want {
			t.Errorf("arg %d = %q, want %q", i, lines[i], want)
		}
	}
	if !strings.Contains(lines[3], "improved_prompt") {
		t.Errorf("schema argument = %q, want full JSON schema text", lines[3])
	}
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "--system-prompt\nyou are a prompt refiner") {
		t.Errorf("missing system instructions in argv:\n%s", joined)
	}
	if !strings.Contains(joined, "--model\nsonnet-x") {
		t.Errorf("missing model flag for non-default model:\n%s", joined)
	}
	if lines[len(lines)-1] != "make it better" {
		t.Errorf("prompt must be the final argument, got %q", lines[len(lines)-1])
	}
}

func TestInvoke_DefaultModelOmitsFlag(t *testing.T) {
	adapter := New()
	out, err := adapter.Invoke(context.Background(), transport.Request{
		Command:        shell(`printf '%s\n' "$@"`),
		UserContent:    "prompt",
		ModelID:        "haiku-y",
		DefaultModelID: "haiku-y",
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if strings.Contains(out, "--model") {
		t.Errorf("default model must not add --model flag, argv:\n%s", out)
	}
}

func TestInvoke_MachineParseableEnvironment(t *testing.T) {
	adapter := New()
	out, err := adapter.Invoke(context.Background(), transport.Request{
		Command:     shell(`printf '%s %s' "$NO_COLOR" "$TERM"`),
		UserContent: "prompt",
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if out != "1 dumb" {
		t.Errorf("env overrides = %q, want \"1 dumb\"", out)
	}
}

func TestInvoke_TimeoutKillsProcess(t *testing.T) {
	adapter := New()
	start := time.Now()

	_, err := adapter.Invoke(context.Background(), transport.Request{
		Command:     shell("sleep 1; echo late"),
		UserContent: "prompt",
		Timeout:     100 * time.Millisecond,
	})
	elapsed := time.Since(start)

	if !errors.Is(err, transport.ErrTimeout) {
		t.Fatalf("error = %v, want transport.ErrTimeout", err)
	}
	// The process must be terminated and reaped well before its 1s sleep
	// would have completed.
	if elapsed > 900*time.Millisecond {
		t.Errorf("Invoke() took %s, process was not terminated on timeout", elapsed)
	}
}

func TestInvoke_NonZeroExitUsesStderr(t *testing.T) {
	adapter := New()
	_, err := adapter.Invoke(context.Background(), transport.Request{
		Command:     shell("echo boom >&2; exit 3"),
		UserContent: "prompt",
	})

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v (%T), want *ExitError", err, err)
	}
	if exitErr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", exitErr.ExitCode)
	}
	if !strings.Contains(exitErr.Message, "boom") {
		t.Errorf("Message = %q, want stderr content", exitErr.Message)
	}
}

func TestInvoke_NonZeroExitFallsBackToStdout(t *testing.T) {
	adapter := New()
	_, err := adapter.Invoke(context.Background(), transport.Request{
		Command:     shell("echo visible-failure; exit 2"),
		UserContent: "prompt",
	})

	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v (%T), want *ExitError", err, err)
	}
	if !strings.Contains(exitErr.Message, "visible-failure") {
		t.Errorf("Message = %q, want stdout fallback", exitErr.Message)
	}
}

func TestInvoke_EmptyCommand(t *testing.T) {
	adapter := New()
	_, err := adapter.Invoke(context.Background(), transport.Request{UserContent: "prompt"})
	if err == nil {
		t.Fatal("expected error for empty command")
	}
}
