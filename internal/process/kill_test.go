package process

// Notes:
// - Only PIDs that cannot exist are used; killing a real process group from a
//   unit test is not safe. Real cleanup is covered by the browser integration
//   tests in the root package.

import (
	"errors"
	"testing"
)

func TestKillTree_RejectsOwnGroup(t *testing.T) {
	t.Parallel()

	for _, pid := range []int{-5, 0, 1} {
		if err := KillTree(pid); !errors.Is(err, ErrInvalidPID) {
			t.Errorf("KillTree(%d) error = %v, want ErrInvalidPID", pid, err)
		}
	}
}

func TestKillTree_UnknownPID(t *testing.T) {
	t.Parallel()

	if err := KillTree(999999999); err == nil {
		t.Error("KillTree(nonexistent) should report an error")
	}
}
