package usecase

import (
	"fyndflip-backend/internal/listing/domain"
	"fyndflip-backend/internal/listing/repository"
)

// ListingUsecase enforces ownership on top of the repository; a listing can
// only be read back in lists or mutated by the user who created it.
type ListingUsecase interface {
	Create(userID string, listing *domain.Listing) error
	Get(userID, id string) (*domain.Listing, error)
	List(userID string, status *domain.ListingStatus, limit, offset int) ([]*domain.Listing, int64, error)
	Update(userID string, listing *domain.Listing) error
	Delete(userID, id string) error
}

type listingUsecase struct {
	repo repository.ListingRepository
}

// NewListingUsecase creates a new instance of listingUsecase
func NewListingUsecase(repo repository.ListingRepository) ListingUsecase {
	return &listingUsecase{repo: repo}
}

func (u *listingUsecase) Create(userID string, listing *domain.Listing) error {
	listing.UserID = userID
	return u.repo.Create(listing)
}

func (u *listingUsecase) Get(userID, id string) (*domain.Listing, error) {
	listing, err := u.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, domain.ErrListingNotFound
	}
	if listing.UserID != userID {
		return nil, domain.ErrNotOwner
	}
	return listing, nil
}

func (u *listingUsecase) List(userID string, status *domain.ListingStatus, limit, offset int) ([]*domain.Listing, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return u.repo.FindByUserID(userID, status, limit, offset)
}

func (u *listingUsecase) Update(userID string, listing *domain.Listing) error {
	existing, err := u.Get(userID, listing.ID)
	if err != nil {
		return err
	}

	existing.Title = listing.Title
	existing.Description = listing.Description
	existing.Category = listing.Category
	existing.Condition = listing.Condition
	existing.Price = listing.Price
	existing.Location = listing.Location
	if listing.Status != "" {
		existing.Status = listing.Status
	}
	return u.repo.Update(existing)
}

func (u *listingUsecase) Delete(userID, id string) error {
	if _, err := u.Get(userID, id); err != nil {
		return err
	}
	return u.repo.Delete(id)
}
