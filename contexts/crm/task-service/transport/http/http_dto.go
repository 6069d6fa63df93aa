package http

type CreateTaskRequest struct {
	AssigneeUserID string `json:"assignee_user_id"`
	OrgID          string `json:"org_id"`
	ContactID      string `json:"contact_id"`
	Title          string `json:"title"`
	Detail         string `json:"detail"`
	DueAt          string `json:"due_at"`
	Priority       string `json:"priority"`
}

type UpdateTaskRequest struct {
	Title    string  `json:"title"`
	Detail   string  `json:"detail"`
	DueAt    *string `json:"due_at"`
	Priority string  `json:"priority"`
}

type TaskDTO struct {
	TaskID         string `json:"task_id"`
	AssigneeUserID string `json:"assignee_user_id"`
	OrgID          string `json:"org_id,omitempty"`
	ContactID      string `json:"contact_id,omitempty"`
	Title          string `json:"title"`
	Detail         string `json:"detail,omitempty"`
	DueAt          string `json:"due_at"`
	Priority       string `json:"priority"`
	Status         string `json:"status"`
	CompletedAt    string `json:"completed_at,omitempty"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type TaskResponse struct {
	Task TaskDTO `json:"task"`
}

type ListTasksResponse struct {
	Items []TaskDTO `json:"items"`
}
