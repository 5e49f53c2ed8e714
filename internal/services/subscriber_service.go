package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/waitlist-backend/internal/payment"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSubscriberNotFound = errors.New("Not found")
	ErrForbidden          = errors.New("Forbidden")
	ErrPaymentNotFound    = errors.New("Payment not found")
	ErrPaymentsDisabled   = errors.New("payments are not configured")
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

type SubscriberService struct {
	db        *gorm.DB
	waitlists *WaitlistService
	gateway   payment.Gateway
}

func NewSubscriberService(db *gorm.DB, waitlists *WaitlistService, gateway payment.Gateway) *SubscriberService {
	return &SubscriberService{db: db, waitlists: waitlists, gateway: gateway}
}

// List returns one page of subscribers of an owned waitlist, newest first.
func (s *SubscriberService) List(ownerID, waitlistID uuid.UUID, page, pageSize int) (*dto.SubscriberListResponse, error) {
	if _, err := s.waitlists.owned(s.db, ownerID, waitlistID); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	offset := (page - 1) * pageSize

	var total int64
	if err := s.db.Model(&models.Subscriber{}).Where("waitlist_id = ?", waitlistID).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count subscribers: %w", err)
	}

	var rows []models.Subscriber
	if err := s.db.Where("waitlist_id = ?", waitlistID).
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}

	data := make([]dto.SubscriberResponse, 0, len(rows))
	for i := range rows {
		data = append(data, toSubscriberResponse(&rows[i]))
	}
	return &dto.SubscriberListResponse{
		Data:     data,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		HasMore:  int64(offset+len(rows)) < total,
	}, nil
}

// Upsert lets an owner add or update a subscriber by email.
func (s *SubscriberService) Upsert(ownerID uuid.UUID, req *dto.SubscriberRequest) (*dto.SubscriberResponse, error) {
	waitlistID, err := uuid.Parse(req.WaitlistID)
	if err != nil {
		return nil, invalid("waitlist_id", "waitlist_id is required")
	}
	if _, err := s.waitlists.owned(s.db, ownerID, waitlistID); err != nil {
		return nil, err
	}

	email, err := parseEmail(req.Email)
	if err != nil {
		return nil, err
	}

	sub := models.Subscriber{
		WaitlistID:  waitlistID,
		Email:       email,
		FullName:    req.FullName,
		PriceAmount: req.PriceAmount,
		Currency:    "INR",
		Status:      models.SubscriberLead,
	}
	updates := []string{"updated_at"}
	if req.FullName != nil {
		updates = append(updates, "full_name")
	}
	if req.PriceAmount != nil {
		updates = append(updates, "price_amount")
	}
	if req.Currency != nil {
		sub.Currency = strings.ToUpper(*req.Currency)
		if !validCurrency(sub.Currency) {
			return nil, invalid("currency", "Currency must be a 3-letter code")
		}
		updates = append(updates, "currency")
	}
	if req.Status != nil {
		status := models.SubscriberStatus(strings.ToUpper(*req.Status))
		switch status {
		case models.SubscriberLead, models.SubscriberPaid, models.SubscriberRefunded, models.SubscriberFailed:
		default:
			return nil, invalid("status", "Unknown subscriber status")
		}
		sub.Status = status
		updates = append(updates, "status")
	}

	if err := s.upsert(s.db, &sub, updates); err != nil {
		return nil, err
	}
	resp := toSubscriberResponse(&sub)
	return &resp, nil
}

func (s *SubscriberService) upsert(db *gorm.DB, sub *models.Subscriber, updates []string) error {
	err := db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "waitlist_id"}, {Name: "email"}},
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(sub).Error
	if err != nil {
		return fmt.Errorf("failed to save subscriber: %w", err)
	}
	// The insert may have become an update; reload the stored row.
	var stored models.Subscriber
	if err := db.Where("waitlist_id = ? AND email = ?", sub.WaitlistID, sub.Email).First(&stored).Error; err != nil {
		return fmt.Errorf("failed to reload subscriber: %w", err)
	}
	*sub = stored
	return nil
}

func (s *SubscriberService) Delete(ownerID, subscriberID uuid.UUID) error {
	var sub models.Subscriber
	if err := s.db.First(&sub, "id = ?", subscriberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubscriberNotFound
		}
		return fmt.Errorf("failed to load subscriber: %w", err)
	}
	if _, err := s.waitlists.owned(s.db, ownerID, sub.WaitlistID); err != nil {
		if errors.Is(err, ErrWaitlistNotFound) {
			return ErrForbidden
		}
		return err
	}
	return s.db.Delete(&sub).Error
}

// Join records a visitor on a published waitlist. Paid waitlists also get a
// gateway order the visitor completes at checkout.
func (s *SubscriberService) Join(ctx context.Context, idOrSlug string, req *dto.JoinRequest) (*dto.JoinResponse, error) {
	wl, err := s.waitlists.FindPublished(s.db, idOrSlug)
	if err != nil {
		return nil, err
	}
	email, err := parseEmail(req.Email)
	if err != nil {
		return nil, err
	}

	sub := models.Subscriber{
		WaitlistID:  wl.ID,
		Email:       email,
		FullName:    optionalString(req.FullName),
		PriceAmount: wl.PriceAmount,
		Currency:    wl.Currency,
		Status:      models.SubscriberLead,
	}
	updates := []string{"updated_at"}
	if sub.FullName != nil {
		updates = append(updates, "full_name")
	}
	if err := s.upsert(s.db, &sub, updates); err != nil {
		return nil, err
	}

	resp := &dto.JoinResponse{OK: true, SubscriberID: sub.ID, Status: string(sub.Status)}
	if wl.PriceAmount == nil || *wl.PriceAmount <= 0 || sub.Status == models.SubscriberPaid {
		return resp, nil
	}
	if s.gateway == nil {
		return nil, ErrPaymentsDisabled
	}

	order, err := s.gateway.CreateOrder(ctx, *wl.PriceAmount, wl.Currency, sub.ID.String())
	if err != nil {
		slog.Error("failed to create payment order", "error", err, "waitlist_id", wl.ID.String(), "gateway", s.gateway.Name())
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	pay := models.Payment{
		WaitlistID:   wl.ID,
		SubscriberID: sub.ID,
		Gateway:      s.gateway.Name(),
		OrderID:      order.ID,
		Amount:       *wl.PriceAmount,
		Currency:     wl.Currency,
		Status:       models.PaymentCreated,
	}
	if err := s.db.Create(&pay).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	resp.Order = &dto.CheckoutOrder{
		Gateway:      s.gateway.Name(),
		OrderID:      order.ID,
		Amount:       *wl.PriceAmount,
		Currency:     wl.Currency,
		ClientSecret: order.ClientSecret,
		KeyID:        s.gateway.PublicKey(),
	}
	return resp, nil
}

func parseEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Name != "" {
		return "", invalid("email", "A valid email is required")
	}
	return strings.ToLower(addr.Address), nil
}

func toSubscriberResponse(sub *models.Subscriber) dto.SubscriberResponse {
	return dto.SubscriberResponse{
		ID:          sub.ID,
		FullName:    sub.FullName,
		Email:       sub.Email,
		PriceAmount: sub.PriceAmount,
		Currency:    sub.Currency,
		Status:      string(sub.Status),
		CreatedAt:   sub.CreatedAt,
	}
}
