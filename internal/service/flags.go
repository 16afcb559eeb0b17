package service

import (
	"errors"
	"log/slog"

	"github.com/appfair/marketplace/internal/repository"
)

// FlagService evaluates named feature switches. Database rows override the
// config-provided defaults, so flags can be flipped without a deploy.
type FlagService struct {
	repo     repository.SwitchRepository
	defaults map[string]bool
}

func NewFlagService(repo repository.SwitchRepository, defaults map[string]bool) *FlagService {
	return &FlagService{repo: repo, defaults: defaults}
}

// Active reports whether the named switch is on.
func (s *FlagService) Active(name string) bool {
	sw, err := s.repo.ByName(name)
	if errors.Is(err, repository.ErrSwitchNotFound) {
		return s.defaults[name]
	}
	if err != nil {
		slog.Error("failed to read feature switch, using default", "error", err, "switch", name)
		return s.defaults[name]
	}

	return sw.Active
}
