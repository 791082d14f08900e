package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"user-directory/models"
	"user-directory/repository"
)

// ==================== MOCKS ====================

// MockRepository is a mock implementation of UserRepository interface
type MockRepository struct {
	mock.Mock
}

// Ensure MockRepository implements UserRepository interface
var _ UserRepository = (*MockRepository)(nil)

func (m *MockRepository) ListAll() []models.UserRecord {
	args := m.Called()
	return args.Get(0).([]models.UserRecord)
}

func (m *MockRepository) GetByID(id string) (*models.UserRecord, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserRecord), args.Error(1)
}

func (m *MockRepository) Create(req models.CreateUserRequest) (*models.UserRecord, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserRecord), args.Error(1)
}

func (m *MockRepository) Update(id string, req models.UpdateUserRequest) (*models.UserRecord, error) {
	args := m.Called(id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserRecord), args.Error(1)
}

func (m *MockRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func record(id, name string) models.UserRecord {
	return models.UserRecord{
		ID:     id,
		Name:   name,
		Email:  name + "@x.com",
		Age:    30,
		Gender: models.GenderOther,
		DOB:    "1994-01-01",
	}
}

// ==================== TESTS ====================

func TestStore_FetchUsers(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("ListAll").Return([]models.UserRecord{record("u1", "Ann"), record("u2", "Bob")})

	s := New(mockRepo)
	users := s.FetchUsers()

	assert.Len(t, users, 2)

	state := s.Snapshot()
	assert.False(t, state.Loading)
	assert.Empty(t, state.Error)
	assert.Len(t, state.Records, 2)
	mockRepo.AssertExpectations(t)
}

func TestStore_FetchUserSetsCurrent(t *testing.T) {
	mockRepo := new(MockRepository)
	r := record("u1", "Ann")
	mockRepo.On("GetByID", "u1").Return(&r, nil)

	s := New(mockRepo)
	user, err := s.FetchUser("u1")

	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	state := s.Snapshot()
	require.NotNil(t, state.Current)
	assert.Equal(t, "u1", state.Current.ID)
	assert.False(t, state.Loading)
}

func TestStore_CreateAppendsWithoutRefetch(t *testing.T) {
	mockRepo := new(MockRepository)
	existing := record("u1", "Ann")
	createdRec := record("u2", "Bob")
	mockRepo.On("ListAll").Return([]models.UserRecord{existing}).Once()
	mockRepo.On("Create", mock.AnythingOfType("models.CreateUserRequest")).Return(&createdRec, nil)

	s := New(mockRepo)
	s.FetchUsers()

	user, err := s.CreateUser(models.CreateUserRequest{Name: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)

	state := s.Snapshot()
	require.Len(t, state.Records, 2)
	assert.Equal(t, "u2", state.Records[1].ID)
	mockRepo.AssertNumberOfCalls(t, "ListAll", 1)
}

func TestStore_UpdateReplacesInPlace(t *testing.T) {
	mockRepo := new(MockRepository)
	u1, u2 := record("u1", "Ann"), record("u2", "Bob")
	mockRepo.On("ListAll").Return([]models.UserRecord{u1, u2})
	mockRepo.On("GetByID", "u1").Return(&u1, nil)

	renamed := u1
	renamed.Name = "Annette"
	mockRepo.On("Update", "u1", mock.AnythingOfType("models.UpdateUserRequest")).Return(&renamed, nil)

	s := New(mockRepo)
	s.FetchUsers()
	_, err := s.FetchUser("u1")
	require.NoError(t, err)

	name := "Annette"
	_, err = s.UpdateUser("u1", models.UpdateUserRequest{Name: &name})
	require.NoError(t, err)

	state := s.Snapshot()
	require.Len(t, state.Records, 2)
	// Order preserved, record replaced in place
	assert.Equal(t, "u1", state.Records[0].ID)
	assert.Equal(t, "Annette", state.Records[0].Name)
	assert.Equal(t, "u2", state.Records[1].ID)
	// Current selection replaced too
	require.NotNil(t, state.Current)
	assert.Equal(t, "Annette", state.Current.Name)
}

func TestStore_DeleteRemovesFromRecordsAndCurrent(t *testing.T) {
	mockRepo := new(MockRepository)
	u1, u2 := record("u1", "Ann"), record("u2", "Bob")
	mockRepo.On("ListAll").Return([]models.UserRecord{u1, u2})
	mockRepo.On("GetByID", "u1").Return(&u1, nil)
	mockRepo.On("Delete", "u1").Return(nil)

	s := New(mockRepo)
	s.FetchUsers()
	_, err := s.FetchUser("u1")
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser("u1"))

	state := s.Snapshot()
	require.Len(t, state.Records, 1)
	assert.Equal(t, "u2", state.Records[0].ID)
	assert.Nil(t, state.Current, "current must be cleared when the selected record is deleted")
}

func TestStore_FailureLeavesStateUntouched(t *testing.T) {
	mockRepo := new(MockRepository)
	u1 := record("u1", "Ann")
	mockRepo.On("ListAll").Return([]models.UserRecord{u1})
	mockRepo.On("GetByID", "u1").Return(&u1, nil)
	mockRepo.On("Update", "missing", mock.AnythingOfType("models.UpdateUserRequest")).Return(nil, repository.ErrNotFound)

	s := New(mockRepo)
	s.FetchUsers()
	_, err := s.FetchUser("u1")
	require.NoError(t, err)
	before := s.Snapshot()

	name := "Ghost"
	_, err = s.UpdateUser("missing", models.UpdateUserRequest{Name: &name})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	after := s.Snapshot()
	assert.Equal(t, repository.ErrNotFound.Error(), after.Error)
	assert.False(t, after.Loading)
	assert.Equal(t, before.Records, after.Records, "records untouched by a failed mutation")
	assert.Equal(t, before.Current, after.Current, "selection untouched by a failed mutation")
}

func TestStore_DispatchClearsPriorError(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("GetByID", "missing").Return(nil, repository.ErrNotFound)
	mockRepo.On("ListAll").Return([]models.UserRecord{})

	s := New(mockRepo)
	_, err := s.FetchUser("missing")
	require.Error(t, err)
	require.NotEmpty(t, s.Snapshot().Error)

	// A new dispatch clears the prior error immediately
	s.FetchUsers()
	assert.Empty(t, s.Snapshot().Error)
}

func TestStore_ClearCurrentAndClearError(t *testing.T) {
	mockRepo := new(MockRepository)
	u1 := record("u1", "Ann")
	mockRepo.On("GetByID", "u1").Return(&u1, nil)
	mockRepo.On("Delete", "missing").Return(errors.New("boom"))

	s := New(mockRepo)
	_, err := s.FetchUser("u1")
	require.NoError(t, err)

	s.ClearCurrent()
	assert.Nil(t, s.Snapshot().Current)

	require.Error(t, s.DeleteUser("missing"))
	require.NotEmpty(t, s.Snapshot().Error)

	s.ClearError()
	assert.Empty(t, s.Snapshot().Error)
}

func TestStore_SubscribeReceivesSnapshots(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("ListAll").Return([]models.UserRecord{record("u1", "Ann")})

	s := New(mockRepo)
	ch, cancel := s.Subscribe()
	defer cancel()

	s.FetchUsers()

	// First notification is the pending transition
	pending := <-ch
	assert.True(t, pending.Loading)

	settled := <-ch
	assert.False(t, settled.Loading)
	assert.Len(t, settled.Records, 1)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	mockRepo := new(MockRepository)
	mockRepo.On("ListAll").Return([]models.UserRecord{record("u1", "Ann")})

	s := New(mockRepo)
	s.FetchUsers()

	snapshot := s.Snapshot()
	snapshot.Records[0].Name = "Mutated"

	assert.Equal(t, "Ann", s.Snapshot().Records[0].Name)
}
