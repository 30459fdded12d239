package handler_test

import (
	"context"
	"testing"

	"taskmarket/internal/middleware"
	"taskmarket/internal/model"
	"taskmarket/internal/repository"
	"taskmarket/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, id)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) ListOpen(ctx context.Context) ([]model.Task, error) {
	args := m.Called(ctx)
	tasks := args.Get(0)
	if tasks == nil {
		return nil, args.Error(1)
	}
	return tasks.([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByPoster(ctx context.Context, posterID uuid.UUID) ([]model.Task, error) {
	args := m.Called(ctx, posterID)
	tasks := args.Get(0)
	if tasks == nil {
		return nil, args.Error(1)
	}
	return tasks.([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) ToggleCompleted(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockReplyRepository struct {
	mock.Mock
}

func (m *MockReplyRepository) Submit(ctx context.Context, sub repository.ReplySubmission) (*repository.ReplySubmissionResult, error) {
	args := m.Called(ctx, sub)
	res := args.Get(0)
	if res == nil {
		return nil, args.Error(1)
	}
	return res.(*repository.ReplySubmissionResult), args.Error(1)
}

func (m *MockReplyRepository) Accept(ctx context.Context, taskID, replyID uuid.UUID) error {
	args := m.Called(ctx, taskID, replyID)
	return args.Error(0)
}

func (m *MockReplyRepository) Reject(ctx context.Context, replyID uuid.UUID) error {
	args := m.Called(ctx, replyID)
	return args.Error(0)
}

func (m *MockReplyRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Reply, error) {
	args := m.Called(ctx, id)
	reply := args.Get(0)
	if reply == nil {
		return nil, args.Error(1)
	}
	return reply.(*model.Reply), args.Error(1)
}

func (m *MockReplyRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]repository.TaskReply, error) {
	args := m.Called(ctx, taskID)
	replies := args.Get(0)
	if replies == nil {
		return nil, args.Error(1)
	}
	return replies.([]repository.TaskReply), args.Error(1)
}

func (m *MockReplyRepository) HistoryByTask(ctx context.Context, taskID uuid.UUID) ([]model.ReplyHistory, error) {
	args := m.Called(ctx, taskID)
	history := args.Get(0)
	if history == nil {
		return nil, args.Error(1)
	}
	return history.([]model.ReplyHistory), args.Error(1)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *model.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) RatingSummary(ctx context.Context, revieweeID uuid.UUID) (*repository.RatingSummary, error) {
	args := m.Called(ctx, revieweeID)
	summary := args.Get(0)
	if summary == nil {
		return nil, args.Error(1)
	}
	return summary.(*repository.RatingSummary), args.Error(1)
}

type MockIntentRepository struct {
	mock.Mock
}

func (m *MockIntentRepository) Toggle(ctx context.Context, taskID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, taskID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockIntentRepository) Exists(ctx context.Context, taskID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, taskID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockIntentRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]repository.TaskIntent, error) {
	args := m.Called(ctx, taskID)
	intents := args.Get(0)
	if intents == nil {
		return nil, args.Error(1)
	}
	return intents.([]repository.TaskIntent), args.Error(1)
}

// authAs fakes the auth middleware by pinning the caller's identity
func authAs(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

func testStore(t *testing.T) *storage.Store {
	store, err := storage.New(t.TempDir(), "/uploads", 1<<20)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	return store
}
