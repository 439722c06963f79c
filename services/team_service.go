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

type CreateTeamInput struct {
	Name      string    `json:"name"`
	FormedOn  time.Time `json:"formed_on"`
	ManagerID int       `json:"manager_id"`
}

type UpdateTeamInput struct {
	Name      *string    `json:"name"`
	FormedOn  *time.Time `json:"formed_on"`
	ManagerID *int       `json:"manager_id"`
}

type TeamService interface {
	CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetTeamByID(ctx context.Context, id int) (*models.Team, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	UpdateTeam(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error)
	DeleteTeam(ctx context.Context, id int) error

	AddMember(ctx context.Context, teamID, playerID int) error
	RemoveMember(ctx context.Context, teamID, playerID int) error
	ListMembers(ctx context.Context, teamID int) ([]models.Player, error)
	UploadLogo(ctx context.Context, teamID int, contentType string, logo io.Reader) (*models.Team, error)
}

type teamService struct {
	teamRepo   repositories.TeamRepository
	playerRepo repositories.PlayerRepository
	uploader   storage.FileUploader
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	uploader storage.FileUploader,
) TeamService {
	return &teamService{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		uploader:   uploader,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	if input.Name == "" {
		return nil, ErrTeamNameRequired
	}
	if input.ManagerID <= 0 {
		return nil, ErrManagerRequired
	}

	manager, err := s.playerRepo.GetByID(ctx, input.ManagerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to check manager: %w", err)
	}

	formedOn := input.FormedOn
	if formedOn.IsZero() {
		formedOn = time.Now()
	}

	team := &models.Team{
		Name:      input.Name,
		FormedOn:  formedOn,
		ManagerID: input.ManagerID,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, mapTeamRepoError(err)
	}

	manager.PasswordHash = ""
	team.Manager = manager
	return team, nil
}

func (s *teamService) GetTeamByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTeamRepoError(err)
	}

	members, err := s.teamRepo.ListMembers(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	for i := range members {
		members[i].PasswordHash = ""
	}
	team.Members = members

	if manager, err := s.playerRepo.GetByID(ctx, team.ManagerID); err == nil {
		manager.PasswordHash = ""
		team.Manager = manager
	}

	s.populateLogoURL(team)
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context) ([]models.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	for i := range teams {
		s.populateLogoURL(&teams[i])
	}
	return teams, nil
}

func (s *teamService) UpdateTeam(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTeamRepoError(err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrTeamNameRequired
		}
		team.Name = *input.Name
	}
	if input.FormedOn != nil {
		team.FormedOn = *input.FormedOn
	}
	if input.ManagerID != nil {
		if _, err := s.playerRepo.GetByID(ctx, *input.ManagerID); err != nil {
			if errors.Is(err, repositories.ErrPlayerNotFound) {
				return nil, ErrPlayerNotFound
			}
			return nil, fmt.Errorf("failed to check manager: %w", err)
		}
		team.ManagerID = *input.ManagerID
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, mapTeamRepoError(err)
	}

	s.populateLogoURL(team)
	return team, nil
}

func (s *teamService) DeleteTeam(ctx context.Context, id int) error {
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		return mapTeamRepoError(err)
	}
	return nil
}

func (s *teamService) AddMember(ctx context.Context, teamID, playerID int) error {
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		return mapTeamRepoError(err)
	}
	if _, err := s.playerRepo.GetByID(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to check player: %w", err)
	}

	member := &models.TeamMember{
		TeamID:   teamID,
		PlayerID: playerID,
		JoinedOn: time.Now(),
	}
	if err := s.teamRepo.AddMember(ctx, member); err != nil {
		return mapTeamRepoError(err)
	}
	return nil
}

func (s *teamService) RemoveMember(ctx context.Context, teamID, playerID int) error {
	if err := s.teamRepo.RemoveMember(ctx, teamID, playerID); err != nil {
		return mapTeamRepoError(err)
	}
	return nil
}

func (s *teamService) ListMembers(ctx context.Context, teamID int) ([]models.Player, error) {
	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		return nil, mapTeamRepoError(err)
	}

	members, err := s.teamRepo.ListMembers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	for i := range members {
		members[i].PasswordHash = ""
	}
	return members, nil
}

func (s *teamService) UploadLogo(ctx context.Context, teamID int, contentType string, logo io.Reader) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, mapTeamRepoError(err)
	}

	ext, err := storage.ExtensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	oldKey := team.LogoKey
	key := fmt.Sprintf("teams/%d/logo_%d%s", teamID, time.Now().UnixNano(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, logo); err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}

	team.LogoKey = &key
	if err := s.teamRepo.Update(ctx, team); err != nil {
		_ = s.uploader.Delete(ctx, key)
		return nil, mapTeamRepoError(err)
	}

	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	s.populateLogoURL(team)
	return team, nil
}

func (s *teamService) populateLogoURL(team *models.Team) {
	if team.LogoKey != nil && *team.LogoKey != "" && s.uploader != nil {
		if url := s.uploader.GetPublicURL(*team.LogoKey); url != "" {
			team.LogoURL = &url
		}
	}
}

func mapTeamRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrTeamNameConflict):
		return ErrTeamNameConflict
	case errors.Is(err, repositories.ErrTeamManagerInvalid):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrMemberConflict):
		return ErrMemberConflict
	case errors.Is(err, repositories.ErrMemberNotFound):
		return ErrMemberNotFound
	case errors.Is(err, repositories.ErrMemberInvalid):
		return ErrPlayerNotFound
	default:
		return err
	}
}
