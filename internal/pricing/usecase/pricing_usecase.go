package usecase

import (
	"fyndflip-backend/internal/pricing/repository"
	"fyndflip-backend/pkg/retry"
)

// Status is the readiness signal for the price corpus; deal detection stays
// disabled until the record threshold is met.
type Status struct {
	Records  int64 `json:"records"`
	Required int64 `json:"required"`
	Complete bool  `json:"complete"`
}

// PricingUsecase reports the state of the reference-price corpus.
type PricingUsecase interface {
	Status() (Status, error)
}

type pricingUsecase struct {
	repo       repository.PriceRepository
	minRecords int64
}

// NewPricingUsecase creates a new instance of pricingUsecase
func NewPricingUsecase(repo repository.PriceRepository, minRecords int64) PricingUsecase {
	return &pricingUsecase{repo: repo, minRecords: minRecords}
}

func (u *pricingUsecase) Status() (Status, error) {
	var count int64
	// The count is a generic data read; transient failures are retried with
	// capped backoff.
	err := retry.Do(func() error {
		var countErr error
		count, countErr = u.repo.Count()
		return countErr
	})
	if err != nil {
		return Status{Required: u.minRecords}, err
	}

	return Status{
		Records:  count,
		Required: u.minRecords,
		Complete: count >= u.minRecords,
	}, nil
}
