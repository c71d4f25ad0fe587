package googletasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"taskchat/internal/service"
)

// fakeAPI serves the subset of the Tasks REST API the client uses.
type fakeAPI struct {
	mu     sync.Mutex
	lists  []*tasks.TaskList
	items  map[string][]*tasks.Task // list ID -> tasks
	nextID int

	// status, when set, is returned for every request.
	status int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{items: make(map[string][]*tasks.Task)}
}

func (f *fakeAPI) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s%d", prefix, f.nextID)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		fmt.Fprintf(w, `{"error":{"code":%d,"message":"injected"}}`, f.status)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/tasks/v1/")
	parts := strings.Split(path, "/")

	switch {
	case path == "users/@me/lists" && r.Method == http.MethodGet:
		writeJSON(w, &tasks.TaskLists{Items: f.lists})

	case path == "users/@me/lists" && r.Method == http.MethodPost:
		var l tasks.TaskList
		json.NewDecoder(r.Body).Decode(&l)
		l.Id = f.id("list")
		f.lists = append(f.lists, &l)
		writeJSON(w, &l)

	case len(parts) == 3 && parts[0] == "lists" && parts[2] == "tasks":
		listID := parts[1]
		if r.Method == http.MethodGet {
			writeJSON(w, &tasks.Tasks{Items: f.items[listID]})
			return
		}
		var t tasks.Task
		json.NewDecoder(r.Body).Decode(&t)
		t.Id = f.id("task")
		t.Status = "needsAction"
		t.Updated = "2025-01-01T09:00:00.000Z"
		// top of the list unless a previous sibling is given
		pos := 0
		if prev := r.URL.Query().Get("previous"); prev != "" {
			for i, it := range f.items[listID] {
				if it.Id == prev {
					pos = i + 1
				}
			}
		}
		list := append(f.items[listID], nil)
		copy(list[pos+1:], list[pos:])
		list[pos] = &t
		for i, it := range list {
			it.Position = fmt.Sprintf("%020d", i)
		}
		f.items[listID] = list
		writeJSON(w, &t)

	case len(parts) == 4 && parts[0] == "lists" && parts[2] == "tasks":
		listID, taskID := parts[1], parts[3]
		for i, it := range f.items[listID] {
			if it.Id != taskID {
				continue
			}
			switch r.Method {
			case http.MethodDelete:
				f.items[listID] = append(f.items[listID][:i], f.items[listID][i+1:]...)
				w.WriteHeader(http.StatusNoContent)
			case http.MethodPatch:
				var patch tasks.Task
				json.NewDecoder(r.Body).Decode(&patch)
				if patch.Title != "" {
					it.Title = patch.Title
				}
				if patch.Status != "" {
					it.Status = patch.Status
				}
				writeJSON(w, it)
			default:
				writeJSON(w, it)
			}
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"code":404,"message":"Not Found"}}`)

	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T) (*Client, *fakeAPI) {
	t.Helper()
	api := newFakeAPI()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	c, err := NewWithHTTPClient(context.Background(), srv.Client(), option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return c, api
}

func TestClient_CreateAndListKeepsCreationOrder(t *testing.T) {
	c, api := newTestClient(t)
	ctx := context.Background()

	list, err := c.ListTasks(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, api.lists, "listing must not create the user's list")

	for _, title := range []string{"Buy milk", "Call mom", "Walk dog"} {
		_, err := c.CreateTask(ctx, "alice", title, "")
		require.NoError(t, err)
	}

	list, err = c.ListTasks(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Buy milk", list[0].Title)
	assert.Equal(t, "Call mom", list[1].Title)
	assert.Equal(t, "Walk dog", list[2].Title)
	assert.Equal(t, "alice", list[0].UserID)

	require.Len(t, api.lists, 1)
	assert.Equal(t, "taskchat:alice", api.lists[0].Title)
}

func TestClient_UsersHaveSeparateLists(t *testing.T) {
	c, api := newTestClient(t)
	ctx := context.Background()

	a, err := c.CreateTask(ctx, "alice", "Groceries", "")
	require.NoError(t, err)
	_, err = c.CreateTask(ctx, "bob", "Groceries", "")
	require.NoError(t, err)
	assert.Len(t, api.lists, 2)

	_, err = c.UpdateTask(ctx, "bob", a.ID, service.TaskUpdate{Title: ptr("mine now")})
	assert.ErrorIs(t, err, service.ErrNotFound)

	ok, err := c.DeleteTask(ctx, "bob", a.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.DeleteTask(ctx, "carol", a.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_UpdateClampsCompletion(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	task, err := c.CreateTask(ctx, "alice", "Buy milk", "")
	require.NoError(t, err)

	got, err := c.UpdateTask(ctx, "alice", task.ID, service.TaskUpdate{Completed: ptr(true)})
	require.NoError(t, err)
	assert.True(t, got.Completed)

	got, err = c.UpdateTask(ctx, "alice", task.ID, service.TaskUpdate{Completed: ptr(false)})
	require.NoError(t, err)
	assert.True(t, got.Completed)

	got, err = c.UpdateTask(ctx, "alice", task.ID, service.TaskUpdate{Title: ptr("Buy oat milk")})
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", got.Title)
	assert.Equal(t, task.ID, got.ID)
}

func TestClient_Delete(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	task, err := c.CreateTask(ctx, "alice", "Buy milk", "")
	require.NoError(t, err)

	ok, err := c.DeleteTask(ctx, "alice", task.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.DeleteTask(ctx, "alice", task.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClient_AuthError(t *testing.T) {
	c, api := newTestClient(t)
	api.status = http.StatusUnauthorized

	_, err := c.ListTasks(context.Background(), "alice")
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func ptr[T any](v T) *T { return &v }
