package services

import (
	"hostelmart/internal/domain"
	"hostelmart/internal/repos"
)

// NotifyService is the in-app read side of the dispatcher. Enqueueing
// happens inside the transition transactions in OrderRepo; delivery
// transport beyond this poll surface is external.
type NotifyService struct {
	Notifications *repos.NotificationRepo
}

func NewNotifyService(n *repos.NotificationRepo) *NotifyService {
	return &NotifyService{Notifications: n}
}

func (s *NotifyService) List(userID string, unreadOnly bool) ([]domain.Notification, error) {
	return s.Notifications.ListForUser(userID, unreadOnly, 50)
}

func (s *NotifyService) MarkRead(id, userID string) error {
	return s.Notifications.MarkRead(id, userID)
}
