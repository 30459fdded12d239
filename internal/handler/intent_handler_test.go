package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskmarket/internal/handler"
	"taskmarket/internal/model"
	"taskmarket/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupIntentTest(userID uuid.UUID) (*gin.Engine, *MockIntentRepository, *MockTaskRepository) {
	gin.SetMode(gin.TestMode)
	r := gin.Default()
	mockIntentRepo := new(MockIntentRepository)
	mockTaskRepo := new(MockTaskRepository)
	intentHandler := handler.NewIntentHandler(mockIntentRepo, mockTaskRepo)

	authorized := r.Group("/", authAs(userID))
	authorized.POST("/tasks/:id/intent", intentHandler.Toggle)
	authorized.GET("/tasks/:id/intent", intentHandler.Check)

	return r, mockIntentRepo, mockTaskRepo
}

func TestToggleIntent_Added(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mockIntentRepo, mockTaskRepo := setupIntentTest(userID)

	taskID := uuid.New()

	mockTaskRepo.On("GetByID", mock.Anything, taskID).
		Return(&model.Task{ID: taskID, PosterID: uuid.New()}, nil)
	mockIntentRepo.On("Toggle", mock.Anything, taskID, userID).Return(true, nil)

	req, _ := http.NewRequest("POST", "/tasks/"+taskID.String()+"/intent", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response map[string]interface{}
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "added", response["action"])
	mockIntentRepo.AssertExpectations(t)
}

func TestToggleIntent_Removed(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mockIntentRepo, mockTaskRepo := setupIntentTest(userID)

	taskID := uuid.New()

	mockTaskRepo.On("GetByID", mock.Anything, taskID).
		Return(&model.Task{ID: taskID, PosterID: uuid.New()}, nil)
	mockIntentRepo.On("Toggle", mock.Anything, taskID, userID).Return(false, nil)

	req, _ := http.NewRequest("POST", "/tasks/"+taskID.String()+"/intent", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response map[string]interface{}
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "removed", response["action"])
	mockIntentRepo.AssertExpectations(t)
}

func TestToggleIntent_TaskNotFound(t *testing.T) {
	// Arrange
	router, mockIntentRepo, mockTaskRepo := setupIntentTest(uuid.New())

	taskID := uuid.New()

	mockTaskRepo.On("GetByID", mock.Anything, taskID).
		Return(nil, repository.ErrTaskNotFound)

	req, _ := http.NewRequest("POST", "/tasks/"+taskID.String()+"/intent", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusNotFound, resp.Code)
	mockIntentRepo.AssertNotCalled(t, "Toggle")
}

func TestCheckIntent_AnonymousCaller(t *testing.T) {
	// Arrange: the check route is reachable without a session
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	mockIntentRepo := new(MockIntentRepository)
	intentHandler := handler.NewIntentHandler(mockIntentRepo, new(MockTaskRepository))
	router.GET("/tasks/:id/intent", intentHandler.Check)

	req, _ := http.NewRequest("GET", "/tasks/"+uuid.New().String()+"/intent", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response map[string]interface{}
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, false, response["hasIntent"])
	mockIntentRepo.AssertNotCalled(t, "Exists")
}

func TestCheckIntent_NeverErrorsOutward(t *testing.T) {
	// Arrange
	userID := uuid.New()
	router, mockIntentRepo, _ := setupIntentTest(userID)

	taskID := uuid.New()

	mockIntentRepo.On("Exists", mock.Anything, taskID, userID).
		Return(false, assert.AnError)

	req, _ := http.NewRequest("GET", "/tasks/"+taskID.String()+"/intent", nil)

	// Act
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)

	var response map[string]interface{}
	err := json.Unmarshal(resp.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, false, response["hasIntent"])
}
