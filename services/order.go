package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"food-ordering-api/events"
	"food-ordering-api/logger"
	"food-ordering-api/models"
	"food-ordering-api/statemachine"
	"food-ordering-api/store"
)

// OrderLine is one requested line of a new order
type OrderLine struct {
	MenuItemID string
	Quantity   int
}

type PlaceOrderInput struct {
	Items           []OrderLine
	DeliveryAddress string
	PhoneNumber     string
}

// OrderListFilter narrows the admin order listing
type OrderListFilter struct {
	Status models.OrderStatus
	UserID string
}

type OrderService struct {
	store     store.Store
	publisher events.Publisher
	log       *slog.Logger
	now       func() time.Time
}

func NewOrderService(s store.Store, publisher events.Publisher, log *slog.Logger) *OrderService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &OrderService{
		store:     s,
		publisher: publisher,
		log:       logger.WithComponent(log, "orders"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// PlaceOrder validates, prices and persists an order for principal.
// Prices are read from the catalog; client-sent prices are never used.
func (s *OrderService) PlaceOrder(ctx context.Context, principal *models.User, in PlaceOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, validationError("Order must contain at least one item")
	}
	for _, line := range in.Items {
		if strings.TrimSpace(line.MenuItemID) == "" {
			return nil, validationError("Each item must reference a menu item")
		}
		if line.Quantity < 1 {
			return nil, validationError("Quantity must be at least 1")
		}
	}

	address, phone, err := s.deliveryDetails(ctx, principal, in)
	if err != nil {
		return nil, err
	}

	var total float64
	items := make([]models.OrderItem, 0, len(in.Items))
	for _, line := range in.Items {
		id := strings.TrimSpace(line.MenuItemID)
		menuItem, err := s.store.FindMenuItem(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(ErrMenuItemNotFound, "Menu item %s not found", id)
		}
		if err != nil {
			return nil, internalError("find menu item", err)
		}
		if !menuItem.IsAvailable {
			return nil, newError(KindValidation, ErrMenuItemUnavailable, "Menu item %s is not available", menuItem.Name)
		}

		total += menuItem.Price * float64(line.Quantity)
		items = append(items, models.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Quantity:   line.Quantity,
			Price:      menuItem.Price,
		})
	}

	now := s.now()
	order := &models.Order{
		UserID:          principal.ID,
		Items:           items,
		TotalAmount:     total,
		DeliveryAddress: address,
		PhoneNumber:     phone,
		Status:          models.StatusPlaced,
		StatusHistory: []models.OrderStatusHistory{{
			ToStatus:  models.StatusPlaced,
			ChangedBy: principal.ID,
			CreatedAt: now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, internalError("create order", err)
	}

	s.log.InfoContext(ctx, "order placed", "order_id", order.ID, "user_id", principal.ID, "total", total)
	s.publish(ctx, events.KeyOrderPlaced, events.OrderEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		OccurredAt:  now,
	})
	return order, nil
}

// deliveryDetails uses the request values when both are present, else the stored profile
func (s *OrderService) deliveryDetails(ctx context.Context, principal *models.User, in PlaceOrderInput) (string, string, error) {
	address := strings.TrimSpace(in.DeliveryAddress)
	phone := strings.TrimSpace(in.PhoneNumber)
	if address != "" && phone != "" {
		return address, phone, nil
	}

	user, err := s.store.FindUserByID(ctx, principal.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return "", "", internalError("load profile", err)
	}
	if user == nil || !user.HasDeliveryProfile() {
		return "", "", newError(KindValidation, ErrMissingDeliveryInfo,
			"Please provide delivery details or update your profile with delivery information")
	}
	return user.DeliveryAddress, user.PhoneNumber, nil
}

// ListOrders returns principal's orders, newest first
func (s *OrderService) ListOrders(ctx context.Context, principal *models.User) ([]models.Order, error) {
	orders, err := s.store.ListOrders(ctx, store.OrderFilter{UserID: principal.ID})
	if err != nil {
		return nil, internalError("list orders", err)
	}
	return orders, nil
}

// GetOrder is visible to its owner and to admins
func (s *OrderService) GetOrder(ctx context.Context, principal *models.User, id string) (*models.Order, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != principal.ID && !principal.Role.IsAdmin() {
		return nil, newError(KindForbidden, ErrForbidden, "Not authorized to view this order")
	}
	return order, nil
}

// ListAllOrders is the admin view with owner name and email populated
func (s *OrderService) ListAllOrders(ctx context.Context, filter OrderListFilter) ([]models.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, validationError("Invalid status: %s", filter.Status)
	}
	orders, err := s.store.ListOrders(ctx, store.OrderFilter{
		UserID:        filter.UserID,
		Status:        filter.Status,
		PopulateOwner: true,
	})
	if err != nil {
		return nil, internalError("list orders", err)
	}
	return orders, nil
}

// SetStatus moves an order along the state machine and records who did it
func (s *OrderService) SetStatus(ctx context.Context, actor *models.User, id string, status models.OrderStatus, note string) (*models.Order, error) {
	if !status.Valid() {
		return nil, validationError("Invalid status: %s", status)
	}
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := statemachine.CanTransition(order.Status, status); err != nil {
		return nil, invalidTransition(order.Status, err)
	}

	now := s.now()
	entry := models.OrderStatusHistory{
		FromStatus: order.Status,
		ToStatus:   status,
		ChangedBy:  actor.ID,
		Note:       strings.TrimSpace(note),
		CreatedAt:  now,
	}
	if err := s.store.UpdateOrderStatus(ctx, id, entry); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(err, "Order not found")
		}
		if errors.Is(err, store.ErrStaleStatus) {
			// Another update won; judge this one against the status it lost to.
			current, findErr := s.findOrder(ctx, id)
			if findErr != nil {
				return nil, findErr
			}
			reason := statemachine.CanTransition(current.Status, status)
			if reason == nil {
				reason = err
			}
			return nil, invalidTransition(current.Status, reason)
		}
		return nil, internalError("update order status", err)
	}

	s.log.InfoContext(ctx, "order status changed", "order_id", id, "from", order.Status, "to", status, "by", actor.ID)
	s.publish(ctx, events.StatusKey(status), events.OrderEvent{
		OrderID:     id,
		UserID:      order.UserID,
		Status:      status,
		FromStatus:  order.Status,
		TotalAmount: order.TotalAmount,
		ChangedBy:   actor.ID,
		OccurredAt:  now,
	})

	updated, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if owner, err := s.store.FindUserByID(ctx, updated.UserID); err == nil {
		updated.User = &models.User{ID: owner.ID, Name: owner.Name, Email: owner.Email}
	}
	return updated, nil
}

func invalidTransition(current models.OrderStatus, reason error) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		Message: reason.Error(),
		Err:     ErrInvalidTransition,
		Extra: map[string]any{
			"current_status":    current,
			"valid_next_states": statemachine.ValidTransitionsFrom(current),
		},
	}
}

func (s *OrderService) findOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.store.FindOrder(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound(err, "Order not found")
	}
	if err != nil {
		return nil, internalError("find order", err)
	}
	return order, nil
}

// publish is best effort; a broker outage never fails the request
func (s *OrderService) publish(ctx context.Context, key string, event events.OrderEvent) {
	if err := s.publisher.Publish(ctx, key, event); err != nil {
		s.log.WarnContext(ctx, "publish order event failed", "key", key, "order_id", event.OrderID, "error", err)
	}
}
