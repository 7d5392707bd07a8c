package service

import (
	"context"
	"strings"
	"testing"

	"github.com/Abdeval/gym-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newProfileFixture(t *testing.T) (ProfileService, *fakeUserRepo, *fakeFileStorage, primitive.ObjectID) {
	t.Helper()
	userRepo := newFakeUserRepo()
	fileStorage := &fakeFileStorage{
		uploadURL:   "https://s3.example.com/put",
		downloadURL: "https://s3.example.com/get",
	}

	userID, err := userRepo.Create(context.Background(), &domain.User{
		Name:         "Alex",
		Email:        "alex@example.com",
		PasswordHash: "irrelevant",
	})
	require.NoError(t, err)

	return NewProfileService(userRepo, fileStorage), userRepo, fileStorage, userID
}

func TestGetProfile_WithoutAvatar(t *testing.T) {
	svc, _, _, userID := newProfileFixture(t)

	user, avatarURL, err := svc.GetProfile(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, "alex@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)
	assert.Empty(t, avatarURL)
}

func TestGetProfile_ResolvesAvatarKey(t *testing.T) {
	svc, userRepo, _, userID := newProfileFixture(t)
	ctx := context.Background()

	key := "avatars/" + userID.Hex() + "/abc.png"
	require.NoError(t, userRepo.UpdateAvatarKey(ctx, userID, key))

	_, avatarURL, err := svc.GetProfile(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, "https://s3.example.com/get/"+key, avatarURL)
}

func TestGetProfile_UnknownUser(t *testing.T) {
	svc, _, _, _ := newProfileFixture(t)

	_, _, err := svc.GetProfile(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRequestAvatarUploadURL_MintsKeyUnderUserPrefix(t *testing.T) {
	svc, _, _, userID := newProfileFixture(t)

	resp, err := svc.RequestAvatarUploadURL(context.Background(), userID, "image/png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.ObjectKey, "avatars/"+userID.Hex()+"/"))
	assert.True(t, strings.HasSuffix(resp.ObjectKey, ".png"))
	assert.Equal(t, "https://s3.example.com/put/"+resp.ObjectKey, resp.UploadURL)
}

func TestRequestAvatarUploadURL_RejectsNonImage(t *testing.T) {
	svc, _, _, userID := newProfileFixture(t)
	ctx := context.Background()

	for _, contentType := range []string{"", "application/pdf", "text/html"} {
		_, err := svc.RequestAvatarUploadURL(ctx, userID, contentType)
		assert.ErrorIs(t, err, ErrInvalidAvatarType, "content type %q", contentType)
	}
}

func TestConfirmAvatarUpload_StoresKeyAndDeletesOldObject(t *testing.T) {
	svc, userRepo, fileStorage, userID := newProfileFixture(t)
	ctx := context.Background()

	oldKey := "avatars/" + userID.Hex() + "/old.png"
	require.NoError(t, userRepo.UpdateAvatarKey(ctx, userID, oldKey))

	newKey := "avatars/" + userID.Hex() + "/new.png"
	require.NoError(t, svc.ConfirmAvatarUpload(ctx, userID, newKey))

	user, err := userRepo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, newKey, user.AvatarKey)
	assert.Equal(t, []string{oldKey}, fileStorage.deletedKeys)
}

func TestConfirmAvatarUpload_RejectsForeignKey(t *testing.T) {
	svc, _, fileStorage, userID := newProfileFixture(t)

	foreignKey := "avatars/" + primitive.NewObjectID().Hex() + "/sneaky.png"
	err := svc.ConfirmAvatarUpload(context.Background(), userID, foreignKey)

	assert.ErrorIs(t, err, ErrAvatarKeyMismatch)
	assert.Empty(t, fileStorage.deletedKeys)
}
