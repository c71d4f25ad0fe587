package output

import (
	"bytes"
	"testing"

	"taskchat/internal/service"
)

func TestTaskListReply(t *testing.T) {
	if got := TaskListReply(nil); got != EmptyTaskList {
		t.Errorf("expected %q, got %q", EmptyTaskList, got)
	}

	tasks := []service.Task{
		{ID: "a", Title: "Buy milk"},
		{ID: "b", Title: "Call mom", Completed: true},
	}
	want := "Here are your tasks:\n1. Buy milk [ ]\n2. Call mom [x]"
	if got := TaskListReply(tasks); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFormatTask(t *testing.T) {
	tests := []struct {
		num  int
		task service.Task
		want string
	}{
		{1, service.Task{Title: "Buy milk"}, "   1  [ ] Buy milk\n"},
		{12, service.Task{Title: "Done", Completed: true}, "  12  [x] Done\n"},
		{3, service.Task{Title: "  "}, "   3  [ ] (untitled)\n"},
		{4, service.Task{Title: "two\nlines"}, "   4  [ ] two lines\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		FormatTask(&buf, tt.num, tt.task)
		if got := buf.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestFormatTurn(t *testing.T) {
	var buf bytes.Buffer
	FormatTurn(&buf, service.Turn{Role: service.RoleAssistant, Content: "Here are your tasks:\n1. A [ ]"})
	want := "assistant: Here are your tasks:\n  1. A [ ]\n"
	if got := buf.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
