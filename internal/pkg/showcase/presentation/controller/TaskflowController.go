package controller

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Task and Project mirror the TaskFlow demo's shapes. Storage is a seeded
// in-memory list with no persistence guarantees, like the mock it replaces.
type Task struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Status         string    `json:"status"`
	Priority       string    `json:"priority"`
	ProjectID      string    `json:"project_id"`
	AssigneeID     string    `json:"assignee_id"`
	DueDate        string    `json:"due_date"`
	EstimatedHours int       `json:"estimated_hours"`
	ActualHours    int       `json:"actual_hours"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Progress    int    `json:"progress"`
	Color       string `json:"color"`
	TaskCount   int    `json:"taskCount"`
}

// TaskflowController serves the TaskFlow demo CRUD endpoints.
type TaskflowController struct {
	mu       sync.Mutex
	tasks    []Task
	projects []Project
}

func NewTaskflowController() *TaskflowController {
	now := time.Now().UTC()
	return &TaskflowController{
		tasks: []Task{
			{ID: "1", Title: "Design Homepage Layout", Description: "Create wireframes and mockups for the new homepage",
				Status: "completed", Priority: "high", ProjectID: "1", AssigneeID: "user1", DueDate: "2024-01-20",
				EstimatedHours: 16, ActualHours: 14, CreatedAt: now, UpdatedAt: now},
			{ID: "2", Title: "Implement User Authentication", Description: "Set up login/logout functionality with JWT tokens",
				Status: "in-progress", Priority: "urgent", ProjectID: "1", AssigneeID: "user2", DueDate: "2024-01-25",
				EstimatedHours: 24, ActualHours: 18, CreatedAt: now, UpdatedAt: now},
		},
		projects: []Project{
			{ID: "1", Name: "Website Redesign", Description: "Complete redesign of company website",
				Status: "active", StartDate: "2024-01-15", EndDate: "2024-03-15", Progress: 65, Color: "#3B82F6", TaskCount: 12},
			{ID: "2", Name: "Mobile App Development", Description: "Native mobile app for iOS and Android",
				Status: "planning", StartDate: "2024-02-01", EndDate: "2024-06-01", Progress: 25, Color: "#10B981", TaskCount: 8},
		},
	}
}

func (ctl *TaskflowController) ListTasks() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID := c.Query("projectId")

		ctl.mu.Lock()
		tasks := make([]Task, len(ctl.tasks))
		copy(tasks, ctl.tasks)
		ctl.mu.Unlock()

		if projectID != "" {
			tasks = lo.Filter(tasks, func(t Task, _ int) bool { return t.ProjectID == projectID })
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "tasks": tasks})
	}
}

type createTaskRequest struct {
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description"`
	ProjectID      string `json:"projectId"`
	AssigneeID     string `json:"assigneeId"`
	Priority       string `json:"priority"`
	DueDate        string `json:"dueDate"`
	EstimatedHours int    `json:"estimatedHours"`
}

func (ctl *TaskflowController) CreateTask() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		now := time.Now().UTC()
		task := Task{
			ID:             uuid.NewString(),
			Title:          req.Title,
			Description:    req.Description,
			Status:         "todo",
			Priority:       req.Priority,
			ProjectID:      req.ProjectID,
			AssigneeID:     req.AssigneeID,
			DueDate:        req.DueDate,
			EstimatedHours: req.EstimatedHours,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		ctl.mu.Lock()
		ctl.tasks = append(ctl.tasks, task)
		ctl.mu.Unlock()

		c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
	}
}

type updateTaskRequest struct {
	Status string `json:"status" binding:"required,oneof=todo in-progress completed"`
}

func (ctl *TaskflowController) UpdateTask() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var req updateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		ctl.mu.Lock()
		defer ctl.mu.Unlock()
		for i := range ctl.tasks {
			if ctl.tasks[i].ID == id {
				ctl.tasks[i].Status = req.Status
				ctl.tasks[i].UpdatedAt = time.Now().UTC()
				c.JSON(http.StatusOK, gin.H{"success": true, "task": ctl.tasks[i]})
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Task not found"})
	}
}

func (ctl *TaskflowController) ListProjects() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctl.mu.Lock()
		projects := make([]Project, len(ctl.projects))
		copy(projects, ctl.projects)
		ctl.mu.Unlock()

		c.JSON(http.StatusOK, gin.H{"success": true, "projects": projects})
	}
}

type createProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Color       string `json:"color"`
}

func (ctl *TaskflowController) CreateProject() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		color := req.Color
		if color == "" {
			color = "#6B7280"
		}
		project := Project{
			ID:          uuid.NewString(),
			Name:        req.Name,
			Description: req.Description,
			Status:      "planning",
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			Color:       color,
		}

		ctl.mu.Lock()
		ctl.projects = append(ctl.projects, project)
		ctl.mu.Unlock()

		c.JSON(http.StatusOK, gin.H{"success": true, "project": project})
	}
}
