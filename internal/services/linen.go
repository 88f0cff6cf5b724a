package services

import "homeclean-backend/internal/models"

const (
	DefaultSpareSets = 1
	MaxSpareSets     = 5
)

// PlanLinen sizes linen for one turnover plus spares. Every property is
// treated as having at least one bedroom and one bathroom.
func PlanLinen(p *models.Property, spares int) *models.LinenPlan {
	if spares < 0 {
		spares = 0
	}
	if spares > MaxSpareSets {
		spares = MaxSpareSets
	}
	bedrooms := max(p.Bedrooms, 1)
	bathrooms := max(p.Bathrooms, 1)
	sets := 1 + spares

	plan := &models.LinenPlan{
		PropertyID:  p.ID.String(),
		SpareSets:   spares,
		SheetSets:   bedrooms * sets,
		Pillowcases: 2 * bedrooms * sets,
		BathTowels:  2 * bedrooms * sets,
		HandTowels:  bathrooms * sets,
		BathMats:    bathrooms * sets,
		TeaTowels:   2 * sets,
	}
	plan.TotalPieces = plan.SheetSets + plan.Pillowcases + plan.BathTowels +
		plan.HandTowels + plan.BathMats + plan.TeaTowels
	return plan
}
