// Package seed loads demo fixtures into the store.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"workflowhub/internal/model"
	"workflowhub/internal/service/workflow"
)

//go:embed demo.yaml
var demoYAML []byte

type Project struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Deadline string `yaml:"deadline"`
	Status   string `yaml:"status"`
}

type User struct {
	ID     string             `yaml:"id"`
	Name   string             `yaml:"name"`
	Role   string             `yaml:"role"`
	Skills map[string]float64 `yaml:"skills"`
}

type History struct {
	ID              string `yaml:"id"`
	UserID          string `yaml:"user_id"`
	TaskType        string `yaml:"task_type"`
	DurationMinutes int    `yaml:"duration_minutes"`
	SuccessRating   int    `yaml:"success_rating"`
	Timestamp       string `yaml:"timestamp"`
}

type Milestone struct {
	ID          string `yaml:"id"`
	ProjectID   string `yaml:"project_id"`
	Title       string `yaml:"title"`
	Status      string `yaml:"status"`
	AssignedTo  string `yaml:"assigned_to"`
	DueDate     string `yaml:"due_date"`
	CompletedAt string `yaml:"completed_at"`
}

type Fixture struct {
	Projects   []Project   `yaml:"projects"`
	Users      []User      `yaml:"users"`
	History    []History   `yaml:"history"`
	Milestones []Milestone `yaml:"milestones"`
}

// Parse decodes a YAML fixture.
func Parse(data []byte) (*Fixture, error) {
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &fx, nil
}

// Load reads the fixture at path; an empty path returns the built-in demo data.
func Load(path string) (*Fixture, error) {
	if path == "" {
		return Parse(demoYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(data)
}

type Options struct {
	// PeopleOnly seeds users and history and leaves projects and
	// milestones out.
	PeopleOnly bool
}

type Report struct {
	Created int
	Skipped int
}

// Apply writes fx through svc. Rows whose id already exists are skipped,
// so applying the same fixture twice is harmless. Users are always
// re-onboarded.
func Apply(ctx context.Context, svc *workflow.Service, fx *Fixture, opts Options, logger *zap.Logger) (Report, error) {
	var r Report

	track := func(kind, id string, err error) error {
		switch {
		case err == nil:
			r.Created++
			return nil
		case errors.Is(err, model.ErrDuplicateID):
			r.Skipped++
			logger.Info("Seed row already exists", zap.String("kind", kind), zap.String("id", id))
			return nil
		default:
			return fmt.Errorf("seed %s %q: %w", kind, id, err)
		}
	}

	if !opts.PeopleOnly {
		for _, p := range fx.Projects {
			_, err := svc.CreateProject(ctx, model.Project{ID: p.ID, Name: p.Name, Deadline: p.Deadline, Status: p.Status})
			if err := track("project", p.ID, err); err != nil {
				return r, err
			}
		}
	}

	for _, u := range fx.Users {
		_, err := svc.OnboardUser(ctx, model.User{ID: u.ID, Name: u.Name, Role: u.Role, Skills: u.Skills})
		if err := track("user", u.ID, err); err != nil {
			return r, err
		}
	}

	for _, h := range fx.History {
		_, err := svc.LogHistory(ctx, model.TaskHistory{
			ID:              h.ID,
			UserID:          h.UserID,
			TaskType:        h.TaskType,
			DurationMinutes: h.DurationMinutes,
			SuccessRating:   h.SuccessRating,
			Timestamp:       h.Timestamp,
		})
		if err := track("history", h.ID, err); err != nil {
			return r, err
		}
	}

	if opts.PeopleOnly {
		return r, nil
	}

	for _, m := range fx.Milestones {
		_, err := svc.AddMilestone(ctx, model.Milestone{
			ID:          m.ID,
			ProjectID:   m.ProjectID,
			Title:       m.Title,
			Status:      m.Status,
			AssignedTo:  optional(m.AssignedTo),
			DueDate:     optional(m.DueDate),
			CompletedAt: optional(m.CompletedAt),
		})
		if err := track("milestone", m.ID, err); err != nil {
			return r, err
		}
		if err == nil && m.Status == model.MilestoneCompleted && m.CompletedAt == "" {
			if _, err := svc.CompleteMilestone(ctx, m.ID); err != nil {
				return r, err
			}
		}
	}

	return r, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
