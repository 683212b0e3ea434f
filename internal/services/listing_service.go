package services

import (
	"database/sql"

	"github.com/google/uuid"

	"hostelmart/internal/domain"
	"hostelmart/internal/repos"
)

type ListingService struct {
	Listings *repos.ListingRepo
}

func NewListingService(listings *repos.ListingRepo) *ListingService {
	return &ListingService{Listings: listings}
}

// CheckAvailability maps stock to IN_STOCK / LOW_STOCK / OUT_OF_STOCK.
func (s *ListingService) CheckAvailability(listingID string) (domain.Availability, error) {
	l, err := s.Listings.Get(listingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Availability{Status: "OUT_OF_STOCK", Qty: 0}, nil
		}
		return domain.Availability{}, err
	}
	if !l.Active || l.SellerBanned {
		return domain.Availability{Status: "OUT_OF_STOCK", Qty: 0}, nil
	}

	status := "OUT_OF_STOCK"
	switch {
	case l.Stock >= 5:
		status = "IN_STOCK"
	case l.Stock > 0:
		status = "LOW_STOCK"
	}
	return domain.Availability{Status: status, Qty: l.Stock}, nil
}

func (s *ListingService) Browse(limit, offset int) ([]repos.ListingRow, error) {
	return s.Listings.ListActive(limit, offset)
}

func (s *ListingService) Get(listingID string) (repos.ListingRow, error) {
	return s.Listings.Get(listingID)
}

func (s *ListingService) ForSeller(sellerID string) ([]repos.ListingRow, error) {
	return s.Listings.ListBySeller(sellerID)
}

// CreateListing opens a seller's offer on a product.
func (s *ListingService) CreateListing(sellerID, productID string, price float64, stock int) (string, error) {
	id := uuid.NewString()
	err := s.Listings.Upsert(domain.SellerListing{
		ID:        id,
		SellerID:  sellerID,
		ProductID: productID,
		Price:     price,
		Stock:     stock,
		Active:    true,
	})
	return id, err
}

// UpdateListing changes price and applies a relative stock adjustment.
// Stock shares its row with in-flight checkout decrements, so absolute
// writes are not offered.
func (s *ListingService) UpdateListing(listingID, sellerID string, price *float64, stockDelta int) error {
	if price != nil {
		if err := s.Listings.SetPrice(listingID, sellerID, *price); err != nil {
			return err
		}
	}
	if stockDelta != 0 {
		return s.Listings.AdjustStock(listingID, sellerID, stockDelta)
	}
	return nil
}
