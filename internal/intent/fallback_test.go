package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallback(t *testing.T) {
	tests := []struct {
		msg  string
		want Intent
	}{
		{"add buy milk", Intent{Op: OpCreate, Title: "buy milk"}},
		{"Remind me to call mom", Intent{Op: OpCreate, Title: "call mom"}},
		{"add call mom to discuss trip", Intent{Op: OpCreate, Title: "call mom to discuss trip"}},
		{"new task: water plants", Intent{Op: OpCreate, Title: "water plants"}},
		{"please add", Intent{Op: OpCreate, Title: ""}},
		{"add", Intent{Op: OpCreate, Title: ""}},
		{"show my tasks", Intent{Op: OpList}},
		{"list", Intent{Op: OpList}},
		{"complete task 1", Intent{Op: OpComplete, TaskRef: "1"}},
		{"mark buy milk as done", Intent{Op: OpComplete, TaskRef: "buy milk"}},
		{"finish the report", Intent{Op: OpComplete, TaskRef: "report"}},
		{"buy milk is done", Intent{Op: OpComplete, TaskRef: "buy milk"}},
		{"done with laundry", Intent{Op: OpComplete, TaskRef: "laundry"}},
		{"delete task 2", Intent{Op: OpDelete, TaskRef: "2", NeedsConfirmation: true}},
		{"remove #3", Intent{Op: OpDelete, TaskRef: "3", NeedsConfirmation: true}},
		{"delete buy milk", Intent{Op: OpDelete, TaskRef: "buy milk", NeedsConfirmation: true}},
		{"delete it", Intent{Op: OpDelete, TaskRef: "", NeedsConfirmation: true}},
		{"change 'Buy milk' to 'Buy oat milk'", Intent{Op: OpRename, TaskRef: "Buy milk", NewTitle: "Buy oat milk", NeedsConfirmation: true}},
		{"rename task 2 to Walk the dog", Intent{Op: OpRename, TaskRef: "2", NewTitle: "Walk the dog", NeedsConfirmation: true}},
		{"update add milk to add oat milk", Intent{Op: OpRename, TaskRef: "add milk", NewTitle: "add oat milk", NeedsConfirmation: true}},
		{"hello there", Intent{Op: OpUnknown}},
		{"", Intent{Op: OpUnknown}},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			tt.want.Source = SourceFallback
			assert.Equal(t, tt.want, Fallback(tt.msg))
		})
	}
}

func TestFallback_Deterministic(t *testing.T) {
	msgs := []string{"add buy milk", "delete 2", "rename a to b", "what's up"}
	for _, msg := range msgs {
		first := Fallback(msg)
		for i := 0; i < 10; i++ {
			assert.Equal(t, first, Fallback(msg), msg)
		}
	}
}

func TestFallback_KeywordsAreWordBounded(t *testing.T) {
	// "address" contains "add", "undone" contains "done"
	assert.Equal(t, OpUnknown, Fallback("my address changed").Op)
	assert.Equal(t, OpUnknown, Fallback("nothing is undone").Op)
}

func TestExtractRenamePair_LastTo(t *testing.T) {
	ref, newTitle := ExtractRenamePair("rename go to bed to go to sleep")
	assert.Equal(t, "go to bed to go", ref)
	assert.Equal(t, "sleep", newTitle)

	ref, newTitle = ExtractRenamePair("nothing here")
	assert.Empty(t, ref)
	assert.Empty(t, newTitle)
}

func TestExtractRenamePair_PreservesCase(t *testing.T) {
	ref, newTitle := ExtractRenamePair("Edit Task Call Bob TO Call Robert")
	assert.Equal(t, "Call Bob", ref)
	assert.Equal(t, "Call Robert", newTitle)
}

func TestExtractCreateTitle(t *testing.T) {
	assert.Equal(t, "pay rent", ExtractCreateTitle("create pay rent"))
	assert.Equal(t, "pay rent", ExtractCreateTitle("pay rent"))
	assert.Equal(t, "", ExtractCreateTitle("go to the store"))
	assert.Equal(t, "", ExtractCreateTitle("new task"))
}
