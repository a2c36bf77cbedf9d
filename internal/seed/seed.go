// Package seed creates the initial plans and the default administrator on an
// empty database.
package seed

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Glayre/Proyecto-Final-Cavenet/internal/auth"
	"github.com/Glayre/Proyecto-Final-Cavenet/internal/billing"
	"github.com/Glayre/Proyecto-Final-Cavenet/internal/config"
	"github.com/Glayre/Proyecto-Final-Cavenet/internal/models"
	"github.com/Glayre/Proyecto-Final-Cavenet/pkg/logger"
)

var defaultPlans = []models.Plan{
	{Name: "Plan Hogar Basico", SpeedMbps: 100, PriceUSD: 25, Category: models.PlanHome},
	{Name: "Plan Hogar Plus", SpeedMbps: 150, PriceUSD: 35, Category: models.PlanHome},
	{Name: "Plan Pyme Bronce", SpeedMbps: 400, PriceUSD: 50, Category: models.PlanBusiness},
	{Name: "Plan Pyme Plata", SpeedMbps: 600, PriceUSD: 70, Category: models.PlanBusiness},
	{Name: "Plan Pyme Oro", SpeedMbps: 800, PriceUSD: 100, Category: models.PlanBusiness},
	{Name: "Plan Pyme Diamante", SpeedMbps: 1000, PriceUSD: 150, Category: models.PlanBusiness},
}

// Run seeds the plans and the default admin user if they are missing.
func Run(repo models.Repository, cfg *config.Config, log *logger.Logger) error {
	if err := seedPlans(repo, log); err != nil {
		return err
	}
	return seedAdmin(repo, cfg, log)
}

func seedPlans(repo models.Repository, log *logger.Logger) error {
	count, err := repo.CountPlans()
	if err != nil {
		return fmt.Errorf("failed to count plans: %w", err)
	}
	if count > 0 {
		log.Debug("Plans already present, skipping seed")
		return nil
	}

	for _, plan := range defaultPlans {
		plan.ID = uuid.NewString()
		plan.Active = true
		if err := repo.CreatePlan(&plan); err != nil {
			return fmt.Errorf("failed to seed plan %s: %w", plan.Name, err)
		}
	}
	log.Info("Initial plans created ", "count ", len(defaultPlans))
	return nil
}

func seedAdmin(repo models.Repository, cfg *config.Config, log *logger.Logger) error {
	if cfg.AdminPassword == "" {
		log.Warn("ADMIN_PASSWORD not set, skipping default admin creation")
		return nil
	}

	_, err := repo.GetUserByEmail(cfg.AdminEmail)
	if err == nil {
		log.Debug("Admin user already exists")
		return nil
	}
	if !errors.Is(err, billing.ErrNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		ID:           uuid.NewString(),
		Cedula:       cfg.AdminCedula,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		FirstName:    "Admin",
		LastName:     "User",
		Role:         models.RoleAdmin,
		AccessMode:   models.AccessEmail,
	}
	if err := repo.CreateUser(admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	log.Info("Default admin user created ", "email ", cfg.AdminEmail)
	return nil
}
