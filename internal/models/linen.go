package models

// LinenPlan is the linen a property needs for one turnover plus spares.
type LinenPlan struct {
	PropertyID  string `json:"property_id"`
	SpareSets   int    `json:"spare_sets"`
	SheetSets   int    `json:"sheet_sets"`
	Pillowcases int    `json:"pillowcases"`
	BathTowels  int    `json:"bath_towels"`
	HandTowels  int    `json:"hand_towels"`
	BathMats    int    `json:"bath_mats"`
	TeaTowels   int    `json:"tea_towels"`
	TotalPieces int    `json:"total_pieces"`
}
