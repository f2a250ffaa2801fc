package auth

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type usersFile struct {
	Users []struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		Role     string `yaml:"role"`
	} `yaml:"users"`
}

// SeedFromFile loads users from a YAML file. An entry without a password
// only reserves its role; the first login for that name claims it. Entries
// for users that already hold a password are left alone.
func (s *Service) SeedFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var uf usersFile
	if err := yaml.Unmarshal(data, &uf); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	for _, u := range uf.Users {
		if u.Username == "" {
			continue
		}
		role := RoleDefault
		if u.Role != "" {
			if role, err = ParseRole(u.Role); err != nil {
				return fmt.Errorf("seed %s: %w", u.Username, err)
			}
		}
		existing, err := s.store.Get(ctx, u.Username)
		switch {
		case err == nil && existing.Claimed():
			continue
		case err != nil && !errors.Is(err, ErrUserNotFound):
			return err
		}
		if _, err := s.store.SetRole(ctx, u.Username, role); err != nil {
			return err
		}
		if u.Password != "" {
			if _, err := s.SetPassword(ctx, u.Username, u.Password); err != nil {
				return err
			}
		}
		s.logger.InfoContext(ctx, "user seeded", "username", u.Username, "role", role, "claimed", u.Password != "")
	}
	return nil
}
