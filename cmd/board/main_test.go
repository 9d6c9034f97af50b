package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"taskboard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "cli-token"

// fakeAPI повторяет маршруты сервера поверх map в памяти
type fakeAPI struct {
	mu    sync.Mutex
	tasks []model.Task
}

func (f *fakeAPI) find(id string) int {
	for i, t := range f.tasks {
		if t.ID.String() == id {
			return i
		}
	}
	return -1
}

func (f *fakeAPI) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/auth/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"token": testToken, "user": gin.H{"id": "1", "name": "Test User"}})
	})

	api := r.Group("/api", func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer "+testToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		}
	})
	api.GET("/tasks", func(c *gin.Context) {
		f.mu.Lock()
		defer f.mu.Unlock()
		c.JSON(http.StatusOK, f.tasks)
	})
	api.POST("/tasks", func(c *gin.Context) {
		var req struct {
			Title       string `json:"title" binding:"required"`
			Description string `json:"description" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide title and description"})
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		t := model.Task{ID: uuid.New(), Title: req.Title, Description: req.Description, Status: model.StatusPending, CreatedAt: time.Now()}
		f.tasks = append([]model.Task{t}, f.tasks...)
		c.JSON(http.StatusCreated, t)
	})
	api.PUT("/tasks/:id", func(c *gin.Context) {
		var req struct {
			Status model.Status `json:"status"`
		}
		_ = c.ShouldBindJSON(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		i := f.find(c.Param("id"))
		if i < 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		f.tasks[i].Status = req.Status
		c.JSON(http.StatusOK, f.tasks[i])
	})
	api.DELETE("/tasks/:id", func(c *gin.Context) {
		f.mu.Lock()
		defer f.mu.Unlock()
		i := f.find(c.Param("id"))
		if i < 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
		c.JSON(http.StatusOK, gin.H{"message": "Task removed"})
	})
	return r
}

func setupAPI(t *testing.T, tasks ...model.Task) (*fakeAPI, string) {
	t.Helper()
	f := &fakeAPI{tasks: tasks}
	srv := httptest.NewServer(f.router())
	t.Cleanup(srv.Close)
	return f, srv.URL
}

func run(t *testing.T, url string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--api", url}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestList(t *testing.T) {
	a := model.Task{ID: uuid.New(), Title: "Buy milk", Status: model.StatusPending}
	b := model.Task{ID: uuid.New(), Title: "Ship it", Status: model.StatusDone}
	_, url := setupAPI(t, a, b)

	out, err := run(t, url, "--token", testToken, "list")

	require.NoError(t, err)
	assert.Contains(t, out, "PENDING (1)")
	assert.Contains(t, out, "COMPLETED (0)")
	assert.Contains(t, out, "DONE (1)")
	assert.Contains(t, out, a.ID.String()+"  Buy milk")
	assert.Less(t, strings.Index(out, "Buy milk"), strings.Index(out, "Ship it"))
}

func TestList_RequiresToken(t *testing.T) {
	t.Setenv("TASKBOARD_TOKEN", "")
	_, url := setupAPI(t)

	_, err := run(t, url, "list")

	assert.ErrorIs(t, err, errNoToken)
}

func TestList_BadToken(t *testing.T) {
	_, url := setupAPI(t)

	_, err := run(t, url, "--token", "wrong", "list")

	require.Error(t, err)
	assert.Equal(t, "Failed to fetch tasks: Invalid or expired token", err.Error())
}

func TestMove(t *testing.T) {
	a := model.Task{ID: uuid.New(), Title: "Buy milk", Status: model.StatusPending}
	api, url := setupAPI(t, a)

	out, err := run(t, url, "--token", testToken, "move", a.ID.String(), "done")

	require.NoError(t, err)
	assert.Contains(t, out, "pending -> done")
	assert.Equal(t, model.StatusDone, api.tasks[0].Status)
}

func TestMove_SameColumn(t *testing.T) {
	a := model.Task{ID: uuid.New(), Title: "Buy milk", Status: model.StatusPending}
	_, url := setupAPI(t, a)

	out, err := run(t, url, "--token", testToken, "move", a.ID.String(), "pending")

	require.NoError(t, err)
	assert.Contains(t, out, "task already in pending")
}

func TestMove_Invalid(t *testing.T) {
	a := model.Task{ID: uuid.New(), Status: model.StatusPending}
	_, url := setupAPI(t, a)

	_, err := run(t, url, "--token", testToken, "move", a.ID.String(), "archived")
	assert.Error(t, err)

	_, err = run(t, url, "--token", testToken, "move", uuid.NewString(), "done")
	assert.Error(t, err)
}

func TestAddAndRm(t *testing.T) {
	api, url := setupAPI(t)

	out, err := run(t, url, "--token", testToken, "add", "Write report", "-d", "Quarterly")
	require.NoError(t, err)
	require.Len(t, api.tasks, 1)
	assert.Equal(t, api.tasks[0].ID.String(), strings.TrimSpace(out))

	_, err = run(t, url, "--token", testToken, "rm", api.tasks[0].ID.String())
	require.NoError(t, err)
	assert.Empty(t, api.tasks)
}

func TestAdd_MissingDescription(t *testing.T) {
	_, url := setupAPI(t)

	_, err := run(t, url, "--token", testToken, "add", "Write report")

	require.Error(t, err)
	assert.Equal(t, "Failed to create task: Please provide title and description", err.Error())
}

func TestLogin(t *testing.T) {
	_, url := setupAPI(t)

	out, err := run(t, url, "login", "--email", "test@example.com", "--password", "password123")

	require.NoError(t, err)
	assert.Equal(t, testToken, strings.TrimSpace(out))
}
