package review

import (
	"os"
	"testing"
)

func TestIsTTY(t *testing.T) {
	// Whether stdin is a TTY depends on the environment; the call just must
	// not panic.
	result := IsTTY(os.Stdin.Fd())
	t.Logf("IsTTY(stdin) = %v (expected: false in CI, true in terminal)", result)
}

func TestIsOutputTerminalConsistency(t *testing.T) {
	outputTerminal := IsOutputTerminal()
	stdoutTTY := IsTTY(os.Stdout.Fd())

	if outputTerminal != stdoutTTY {
		t.Errorf("IsOutputTerminal() and IsTTY(stdout) should match: %v vs %v", outputTerminal, stdoutTTY)
	}
}
