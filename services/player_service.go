package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/covedrive/cricket-club/models"
	"github.com/covedrive/cricket-club/repositories"
	"github.com/covedrive/cricket-club/storage"
)

type UpdateProfileInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
}

type PlayerService interface {
	GetPlayerByID(ctx context.Context, id int) (*models.Player, error)
	ListPlayers(ctx context.Context) ([]models.Player, error)
	UpdateProfile(ctx context.Context, playerID int, input UpdateProfileInput, currentPlayerID int, currentRole models.PlayerRole) (*models.Player, error)
	UploadPhoto(ctx context.Context, playerID int, contentType string, photo io.Reader, currentPlayerID int, currentRole models.PlayerRole) (*models.Player, error)
	DeletePlayer(ctx context.Context, id int) error
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
}

func NewPlayerService(playerRepo repositories.PlayerRepository, uploader storage.FileUploader) PlayerService {
	return &playerService{playerRepo: playerRepo, uploader: uploader}
}

func (s *playerService) GetPlayerByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	s.sanitize(player)
	return player, nil
}

func (s *playerService) ListPlayers(ctx context.Context) ([]models.Player, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	for i := range players {
		s.sanitize(&players[i])
	}
	return players, nil
}

// UpdateProfile lets a player edit their own profile; admins can edit anyone.
func (s *playerService) UpdateProfile(ctx context.Context, playerID int, input UpdateProfileInput, currentPlayerID int, currentRole models.PlayerRole) (*models.Player, error) {
	if playerID != currentPlayerID && currentRole != models.RoleAdmin {
		return nil, ErrForbiddenOperation
	}

	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	if input.FirstName != nil {
		player.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		player.LastName = *input.LastName
	}
	if input.Email != nil {
		player.Email = *input.Email
	}
	if input.Phone != nil {
		player.Phone = input.Phone
	}

	if err := s.playerRepo.Update(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerEmailConflict) {
			return nil, ErrEmailConflict
		}
		return nil, fmt.Errorf("failed to update player: %w", err)
	}

	s.sanitize(player)
	return player, nil
}

func (s *playerService) UploadPhoto(ctx context.Context, playerID int, contentType string, photo io.Reader, currentPlayerID int, currentRole models.PlayerRole) (*models.Player, error) {
	if playerID != currentPlayerID && currentRole != models.RoleAdmin {
		return nil, ErrForbiddenOperation
	}

	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	ext, err := storage.ExtensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	oldKey := player.PhotoKey
	key := fmt.Sprintf("players/%d/photo_%d%s", playerID, time.Now().UnixNano(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, photo); err != nil {
		return nil, fmt.Errorf("failed to upload player photo: %w", err)
	}

	player.PhotoKey = &key
	if err := s.playerRepo.Update(ctx, player); err != nil {
		// Best effort: don't leave the fresh object orphaned.
		_ = s.uploader.Delete(ctx, key)
		return nil, fmt.Errorf("failed to store photo key: %w", err)
	}

	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	s.sanitize(player)
	return player, nil
}

func (s *playerService) DeletePlayer(ctx context.Context, id int) error {
	err := s.playerRepo.Delete(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerNotFound):
			return ErrPlayerNotFound
		case errors.Is(err, repositories.ErrPlayerReferenced):
			return ErrPlayerHasHistory
		}
		return fmt.Errorf("failed to delete player: %w", err)
	}
	return nil
}

func (s *playerService) sanitize(player *models.Player) {
	player.PasswordHash = ""
	if player.PhotoKey != nil && *player.PhotoKey != "" && s.uploader != nil {
		if url := s.uploader.GetPublicURL(*player.PhotoKey); url != "" {
			player.PhotoURL = &url
		}
	}
}
