package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/Abdeval/gym-app/internal/domain"
	"github.com/Abdeval/gym-app/internal/repository"
	"github.com/Abdeval/gym-app/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrInvalidAvatarType   = errors.New("invalid or missing image content type")
	ErrAvatarKeyMismatch   = errors.New("object key does not belong to this user")
	ErrUploadURLGeneration = errors.New("failed to generate upload URL")
)

// AvatarUploadResponse carries the presigned URL and the object key the
// client reports back on confirm.
type AvatarUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// --- Service Interface ---
type ProfileService interface {
	// GetProfile returns the user plus a temporary download URL for their
	// avatar, when one is stored.
	GetProfile(ctx context.Context, userID primitive.ObjectID) (user *domain.User, avatarURL string, err error)

	// RequestAvatarUploadURL generates a presigned PUT URL for the client to
	// upload an avatar image directly to object storage.
	RequestAvatarUploadURL(ctx context.Context, userID primitive.ObjectID, contentType string) (*AvatarUploadResponse, error)

	// ConfirmAvatarUpload persists the uploaded object key on the user.
	// Called after the client has PUT the file to the presigned URL.
	ConfirmAvatarUpload(ctx context.Context, userID primitive.ObjectID, objectKey string) error
}

// --- Service Implementation ---

// profileService implements the ProfileService interface.
type profileService struct {
	userRepo    repository.UserRepository
	fileStorage storage.FileStorage
}

// NewProfileService creates a new instance of profileService.
func NewProfileService(userRepo repository.UserRepository, fileStorage storage.FileStorage) ProfileService {
	return &profileService{
		userRepo:    userRepo,
		fileStorage: fileStorage,
	}
}

// GetProfile retrieves the user and resolves their avatar key, if any, to a
// presigned download URL.
func (s *profileService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}

	avatarURL := ""
	if user.AvatarKey != "" {
		avatarURL, err = s.fileStorage.GeneratePresignedDownloadURL(ctx, user.AvatarKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			// The profile is still useful without the avatar URL.
			avatarURL = ""
		}
	}

	user.PasswordHash = ""
	return user, avatarURL, nil
}

// RequestAvatarUploadURL validates the content type, builds a unique object
// key under the user's avatar prefix and presigns a PUT URL for it.
func (s *profileService) RequestAvatarUploadURL(ctx context.Context, userID primitive.ObjectID, contentType string) (*AvatarUploadResponse, error) {
	if contentType == "" || !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, ErrInvalidAvatarType
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	fileExtension := ""
	parts := strings.Split(contentType, "/")
	if len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join(avatarPrefix(userID), fmt.Sprintf("%s.%s", uuid.NewString(), fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLGeneration
	}

	return &AvatarUploadResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}

// ConfirmAvatarUpload stores the new avatar key and best-effort deletes the
// previous avatar object.
func (s *profileService) ConfirmAvatarUpload(ctx context.Context, userID primitive.ObjectID, objectKey string) error {
	if objectKey == "" {
		return errors.New("object key is required")
	}
	// Keys are minted per user by RequestAvatarUploadURL; reject anything
	// outside the caller's own prefix.
	if !strings.HasPrefix(objectKey, avatarPrefix(userID)+"/") {
		return ErrAvatarKeyMismatch
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.userRepo.UpdateAvatarKey(ctx, userID, objectKey); err != nil {
		return err
	}

	if user.AvatarKey != "" && user.AvatarKey != objectKey {
		_ = s.fileStorage.DeleteObject(ctx, user.AvatarKey)
	}
	return nil
}

func avatarPrefix(userID primitive.ObjectID) string {
	return path.Join("avatars", userID.Hex())
}
