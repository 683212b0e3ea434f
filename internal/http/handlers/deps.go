package handlers

import (
	"github.com/jmoiron/sqlx"

	"hostelmart/internal/config"
	"hostelmart/internal/gateway"
	"hostelmart/internal/repos"
	"hostelmart/internal/services"
)

type Deps struct {
	ListingHandler      *ListingHandler
	CartHandler         *CartHandler
	CheckoutHandler     *CheckoutHandler
	OrderHandler        *OrderHandler
	ReviewHandler       *ReviewHandler
	NotificationHandler *NotificationHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, gw gateway.Client) *Deps {
	userRepo := repos.NewUserRepo(db)
	listingRepo := repos.NewListingRepo(db)
	cartRepo := repos.NewCartRepo(db)
	paymentRepo := repos.NewPaymentRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	reviewRepo := repos.NewReviewRepo(db)
	notifRepo := repos.NewNotificationRepo(db)

	listingSvc := services.NewListingService(listingRepo)
	cartSvc := services.NewCartService(cartRepo, listingRepo, cfg.DeliveryFee, cfg.TaxRate)
	paymentSvc := services.NewPaymentService(gw, paymentRepo, cartSvc, cfg.PaymentKeySecret, cfg.Currency)
	checkoutSvc := services.NewCheckoutService(paymentSvc, orderRepo, userRepo)
	orderSvc := services.NewOrderService(orderRepo)
	reviewSvc := services.NewReviewService(reviewRepo, orderRepo)
	notifySvc := services.NewNotifyService(notifRepo)

	return &Deps{
		ListingHandler:      &ListingHandler{Listings: listingSvc},
		CartHandler:         &CartHandler{Cart: cartSvc},
		CheckoutHandler:     &CheckoutHandler{Payment: paymentSvc, Checkout: checkoutSvc},
		OrderHandler:        &OrderHandler{Orders: orderSvc},
		ReviewHandler:       &ReviewHandler{Reviews: reviewSvc},
		NotificationHandler: &NotificationHandler{Notify: notifySvc},
	}
}
