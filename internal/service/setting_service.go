package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/stcolombus/campus-portal/internal/model"
	"github.com/stcolombus/campus-portal/internal/repository"
)

// ErrInvalidSetting is returned when a well-known setting gets a malformed value.
var ErrInvalidSetting = errors.New("invalid setting value")

// settingDefaults apply when a key has never been written.
var settingDefaults = map[string]string{
	model.SettingCollegeName:    "St. Colombus College",
	model.SettingContactEmail:   "info@stcolombus.edu",
	model.SettingAdmissionsOpen: "true",
}

// SettingService reads and writes site settings.
type SettingService interface {
	GetAll(ctx context.Context) (map[string]string, error)
	Update(ctx context.Context, settings map[string]string) error
	CollegeName(ctx context.Context) string
	// AdmissionsOpen reports whether the public intake form accepts submissions.
	AdmissionsOpen(ctx context.Context) (bool, error)
}

type settingService struct {
	repo repository.SettingRepository
	log  zerolog.Logger
}

// NewSettingService creates a new SettingService.
func NewSettingService(repo repository.SettingRepository, log zerolog.Logger) SettingService {
	return &settingService{
		repo: repo,
		log:  log.With().Str("component", "setting_service").Logger(),
	}
}

func (s *settingService) GetAll(ctx context.Context) (map[string]string, error) {
	list, err := s.repo.GetAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get all settings")
		return nil, err
	}

	settings := make(map[string]string, len(settingDefaults)+len(list))
	for k, v := range settingDefaults {
		settings[k] = v
	}
	for _, setting := range list {
		settings[setting.Key] = setting.Value
	}
	return settings, nil
}

func (s *settingService) Update(ctx context.Context, settings map[string]string) error {
	if v, ok := settings[model.SettingAdmissionsOpen]; ok {
		if _, err := strconv.ParseBool(v); err != nil {
			return fmt.Errorf("%w: %s must be true or false", ErrInvalidSetting, model.SettingAdmissionsOpen)
		}
	}
	if err := s.repo.UpsertMany(ctx, settings); err != nil {
		s.log.Error().Err(err).Int("count", len(settings)).Msg("failed to update settings")
		return err
	}
	return nil
}

func (s *settingService) get(ctx context.Context, key string) (string, error) {
	setting, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return settingDefaults[key], nil
		}
		return "", err
	}
	return setting.Value, nil
}

func (s *settingService) CollegeName(ctx context.Context) string {
	v, err := s.get(ctx, model.SettingCollegeName)
	if err != nil || v == "" {
		return settingDefaults[model.SettingCollegeName]
	}
	return v
}

func (s *settingService) AdmissionsOpen(ctx context.Context) (bool, error) {
	v, err := s.get(ctx, model.SettingAdmissionsOpen)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", model.SettingAdmissionsOpen, err)
	}
	open, err := strconv.ParseBool(v)
	if err != nil {
		s.log.Warn().Str("value", v).Msg("Malformed admissions_open setting, treating as open")
		return true, nil
	}
	return open, nil
}
