package services

import (
	"database/sql"
	"math"

	"hostelmart/internal/domain"
	"hostelmart/internal/repos"
)

type CartService struct {
	Carts    *repos.CartRepo
	Listings *repos.ListingRepo

	DeliveryFee float64
	TaxRate     float64 // percent on subtotal
}

func NewCartService(carts *repos.CartRepo, listings *repos.ListingRepo, fee, taxRate float64) *CartService {
	return &CartService{Carts: carts, Listings: listings, DeliveryFee: fee, TaxRate: taxRate}
}

// checkListing enforces availability at cart time. This is a soft check:
// concurrent carts may race for the same stock; the hard check is the
// conditional decrement at checkout.
func (s *CartService) checkListing(listingID string, wantQty int) error {
	l, err := s.Listings.Get(listingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrListingUnavailable
		}
		return err
	}
	if !l.Active || l.SellerBanned {
		return domain.ErrListingUnavailable
	}
	if wantQty > l.Stock {
		return domain.ErrOutOfStock
	}
	return nil
}

// Add puts qty more units of a listing in the buyer's cart.
func (s *CartService) Add(buyerID, listingID string, qty int) error {
	if qty < 1 {
		qty = 1
	}
	cartID, err := s.Carts.EnsureCart(buyerID)
	if err != nil {
		return err
	}
	have, err := s.Carts.Qty(cartID, listingID)
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	if err := s.checkListing(listingID, have+qty); err != nil {
		return err
	}
	return s.Carts.AddItem(cartID, listingID, qty)
}

// SetQty replaces a line's quantity; zero removes the line.
func (s *CartService) SetQty(buyerID, listingID string, qty int) error {
	cartID, err := s.Carts.EnsureCart(buyerID)
	if err != nil {
		return err
	}
	if qty <= 0 {
		return s.Carts.RemoveItem(cartID, listingID)
	}
	if err := s.checkListing(listingID, qty); err != nil {
		return err
	}
	return s.Carts.SetQty(cartID, listingID, qty)
}

func (s *CartService) Remove(buyerID, listingID string) error {
	cartID, err := s.Carts.EnsureCart(buyerID)
	if err != nil {
		return err
	}
	return s.Carts.RemoveItem(cartID, listingID)
}

func (s *CartService) Clear(buyerID string) error {
	cartID, err := s.Carts.EnsureCart(buyerID)
	if err != nil {
		return err
	}
	return s.Carts.Clear(cartID)
}

type CartView struct {
	Lines    []repos.CartLineRow `json:"lines"`
	Subtotal float64             `json:"subtotal"`
	Fee      float64             `json:"deliveryFee"`
	Tax      float64             `json:"tax"`
	Total    float64             `json:"total"`
}

func (s *CartService) View(buyerID string) (CartView, error) {
	cartID, err := s.Carts.EnsureCart(buyerID)
	if err != nil {
		return CartView{}, err
	}
	lines, err := s.Carts.Lines(cartID)
	if err != nil {
		return CartView{}, err
	}
	return s.price(lines), nil
}

// price computes subtotal + flat delivery fee + tax percentage.
func (s *CartService) price(lines []repos.CartLineRow) CartView {
	subtotal := 0.0
	for _, ln := range lines {
		subtotal += ln.Subtotal
	}
	subtotal = round2(subtotal)
	tax := round2(subtotal * s.TaxRate / 100)
	total := round2(subtotal + s.DeliveryFee + tax)
	return CartView{Lines: lines, Subtotal: subtotal, Fee: s.DeliveryFee, Tax: tax, Total: total}
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
