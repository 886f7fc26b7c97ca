package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskStatus(t *testing.T) {
	tests := []struct {
		status TaskStatus
		want   string
	}{
		{TaskStatusPending, "pending"},
		{TaskStatusInProgress, "in-progress"},
		{TaskStatusCompleted, "completed"},
	}

	for _, tt := range tests {
		if string(tt.status) != tt.want {
			t.Errorf("TaskStatus = %v, want %v", tt.status, tt.want)
		}
	}
}

func TestValidTaskStatus(t *testing.T) {
	assert.True(t, ValidTaskStatus(TaskStatusPending))
	assert.True(t, ValidTaskStatus(TaskStatusInProgress))
	assert.True(t, ValidTaskStatus(TaskStatusCompleted))
	assert.False(t, ValidTaskStatus("done"))
	assert.False(t, ValidTaskStatus(""))
}

// TestUser_PasswordRedacted 验证密码哈希不出现在 JSON 输出中
func TestUser_PasswordRedacted(t *testing.T) {
	user := &User{
		UserID:      "u-001",
		Username:    "alice",
		Email:       "alice@example.com",
		Password:    "$2a$10$abcdefghijklmnopqrstuv",
		Status:      UserStatusMember,
		Designation: "engineer",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	data, err := json.Marshal(user)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.NotContains(t, decoded, "password")
	assert.Equal(t, "alice@example.com", decoded["email"])
	// profilePicture 未设置时序列化为 null
	assert.Contains(t, decoded, "profilePicture")
	assert.Nil(t, decoded["profilePicture"])
}

func TestUser_IsOwner(t *testing.T) {
	assert.True(t, (&User{Status: UserStatusOwner}).IsOwner())
	assert.False(t, (&User{Status: UserStatusMember}).IsOwner())
	assert.False(t, (&User{Status: "admin"}).IsOwner())
}

func TestTaskJSONRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	task := &Task{
		ID:          "task-001",
		UserID:      "u-001",
		Title:       "准备发布说明",
		Description: "整理本周变更",
		Status:      TaskStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	data, err := json.Marshal(task)
	require.NoError(t, err)

	var decoded Task
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, task.ID, decoded.ID)
	assert.Equal(t, task.UserID, decoded.UserID)
	assert.Equal(t, task.Status, decoded.Status)
}
