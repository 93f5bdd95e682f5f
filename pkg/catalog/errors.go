package catalog

import "errors"

var (
	ErrMagazineNotFound = errors.New("magazine not found")
	ErrPlanNotFound     = errors.New("plan not found")

	ErrInvalidMagazine          = errors.New("invalid magazine")
	ErrInvalidPlanConfiguration = errors.New("invalid plan configuration")

	ErrFailedToLoadPlans = errors.New("failed to load plans")
	ErrNoPlans           = errors.New("plan source returned no plans")
)
