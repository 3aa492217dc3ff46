package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/balcao-pos/balcao/internal/backend"
	"github.com/balcao-pos/balcao/internal/domain"
	"github.com/balcao-pos/balcao/internal/pricing"
	"github.com/balcao-pos/balcao/internal/telemetry"
)

// OrderService drives the order lifecycle against the backend. One
// mutation per session may be in flight at a time; every accepted
// mutation schedules an async refresh of today's orders.
type OrderService struct {
	api          backend.API
	perms        PermissionChecker
	statuses     *domain.StatusSet
	companyToken string
	logger       *slog.Logger
	metrics      *telemetry.BusinessMetrics
}

// OrderServiceConfig configures the order service.
type OrderServiceConfig struct {
	API          backend.API
	Permissions  PermissionChecker
	Statuses     *domain.StatusSet
	CompanyToken string
	Logger       *slog.Logger
	Metrics      *telemetry.BusinessMetrics
}

// NewOrderService creates the order service.
func NewOrderService(cfg OrderServiceConfig) (*OrderService, error) {
	if cfg.API == nil {
		return nil, domain.Invalid("service.new", "a backend API is required")
	}
	if cfg.CompanyToken == "" {
		return nil, ErrCompanyRequired
	}

	perms := cfg.Permissions
	if perms == nil {
		perms = AllowAll{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &OrderService{
		api:          cfg.API,
		perms:        perms,
		statuses:     cfg.Statuses,
		companyToken: cfg.CompanyToken,
		logger:       logger,
		metrics:      cfg.Metrics,
	}, nil
}

// StartOrder submits the session's cart as a new order. The cart must
// be non-empty, a payment method chosen, a table chosen unless the
// order is a delivery, the table free, and the cash change prompt
// answered when it applies.
func (svc *OrderService) StartOrder(ctx context.Context, s *Session) (domain.Order, error) {
	if !svc.perms.Allowed(ActionStartOrder) {
		return domain.Order{}, domain.Forbidden("order.start", "You are not allowed to start orders")
	}
	if s.CartIsEmpty() {
		return domain.Order{}, ErrEmptyCart
	}
	method := s.PaymentMethod()
	if method == nil {
		return domain.Order{}, ErrNoPaymentMethod
	}
	isDelivery := s.IsDelivery()
	table := s.Table()
	if !isDelivery && table == nil {
		return domain.Order{}, ErrNoTable
	}
	if s.ShouldPromptChange() {
		return domain.Order{}, domain.NewValidationError("order.start", "troco", "Answer the change prompt before sending the order")
	}

	if err := s.beginMutation(); err != nil {
		return domain.Order{}, err
	}
	defer s.endMutation()

	if !isDelivery && table != nil {
		occupied, err := svc.tableOccupied(ctx, table.ID, "")
		if err != nil {
			return domain.Order{}, err
		}
		if occupied {
			return domain.Order{}, ErrTableOccupied
		}
	}

	total := s.CartTotal()
	payload := svc.payloadFromSession(s, nil)
	order, err := svc.api.CreateOrder(ctx, payload)
	if err != nil {
		return domain.Order{}, err
	}

	s.resetAfterSubmit(&order)
	svc.metrics.OrderStarted(total)
	svc.logger.Info("order started", "order_id", order.ID, "total", total, "delivery", isDelivery)
	svc.refreshTodayAsync(s)
	return order, nil
}

// UpdateOrder replaces the open order's lines and checkout context
// with the session's current state. The status is left untouched.
func (svc *OrderService) UpdateOrder(ctx context.Context, s *Session) (domain.Order, error) {
	if !svc.perms.Allowed(ActionUpdateOrder) {
		return domain.Order{}, domain.Forbidden("order.update", "You are not allowed to change orders")
	}
	current := s.CurrentOrder()
	if current == nil {
		return domain.Order{}, ErrNoCurrentOrder
	}
	if current.Status.Terminal() {
		return domain.Order{}, ErrOrderTerminal
	}
	if s.CartIsEmpty() {
		return domain.Order{}, ErrEmptyCart
	}

	if err := s.beginMutation(); err != nil {
		return domain.Order{}, err
	}
	defer s.endMutation()

	table := s.Table()
	if !s.IsDelivery() && table != nil && table.ID != current.TableID {
		occupied, err := svc.tableOccupied(ctx, table.ID, current.ID)
		if err != nil {
			return domain.Order{}, err
		}
		if occupied {
			return domain.Order{}, ErrTableOccupied
		}
	}

	payload := svc.payloadFromSession(s, nil)
	order, err := svc.api.UpdateOrder(ctx, current.ID, payload)
	if err != nil {
		return domain.Order{}, err
	}

	s.setCurrent(&order)
	svc.logger.Info("order updated", "order_id", order.ID)
	svc.refreshTodayAsync(s)
	return order, nil
}

// AdvanceStatus moves the open order one step along the flow:
// received to preparing, preparing to ready, ready to delivering (for
// deliveries) or delivered, delivering to delivered.
func (svc *OrderService) AdvanceStatus(ctx context.Context, s *Session) (domain.Order, error) {
	if !svc.perms.Allowed(ActionAdvanceStatus) {
		return domain.Order{}, domain.Forbidden("order.advance", "You are not allowed to advance orders")
	}
	current := s.CurrentOrder()
	if current == nil {
		return domain.Order{}, ErrNoCurrentOrder
	}
	if current.Status.Terminal() {
		return domain.Order{}, ErrOrderTerminal
	}

	next, ok := domain.NextStatus(current.Status, current.IsDelivery)
	if !ok {
		return domain.Order{}, ErrNoNextStatus
	}

	order, err := svc.transition(ctx, s, current, next)
	if err != nil {
		return domain.Order{}, err
	}
	svc.metrics.OrderAdvanced(string(next))
	return order, nil
}

// FinalizeOrder marks a ready (or out-for-delivery) order delivered.
func (svc *OrderService) FinalizeOrder(ctx context.Context, s *Session) (domain.Order, error) {
	if !svc.perms.Allowed(ActionFinalizeOrder) {
		return domain.Order{}, domain.Forbidden("order.finalize", "You are not allowed to finalize orders")
	}
	current := s.CurrentOrder()
	if current == nil {
		return domain.Order{}, ErrNoCurrentOrder
	}

	switch current.Status {
	case domain.StatusReady, domain.StatusDelivering:
		// eligible
	case domain.StatusDelivered:
		return domain.Order{}, ErrAlreadyDelivered
	default:
		if current.Status.Terminal() {
			return domain.Order{}, ErrOrderTerminal
		}
		return domain.Order{}, domain.Errorf(domain.EINVALID, "order.finalize",
			"An order in %q cannot be finalized yet", current.Status.DisplayName())
	}

	order, err := svc.transition(ctx, s, current, domain.StatusDelivered)
	if err != nil {
		return domain.Order{}, err
	}
	svc.metrics.OrderFinalized()
	return order, nil
}

// CancelOrder cancels the open order. Cancelling an already-cancelled
// order is an idempotent no-op: the current record is returned and no
// backend call is made.
func (svc *OrderService) CancelOrder(ctx context.Context, s *Session) (domain.Order, error) {
	if !svc.perms.Allowed(ActionCancelOrder) {
		return domain.Order{}, domain.Forbidden("order.cancel", "You are not allowed to cancel orders")
	}
	current := s.CurrentOrder()
	if current == nil {
		return domain.Order{}, ErrNoCurrentOrder
	}
	if current.Status == domain.StatusCancelled {
		return *current, nil
	}
	if current.Status.Terminal() {
		return domain.Order{}, ErrOrderTerminal
	}

	order, err := svc.transition(ctx, s, current, domain.StatusCancelled)
	if err != nil {
		return domain.Order{}, err
	}
	svc.metrics.OrderCancelled()
	return order, nil
}

// OpenOrder loads an order by ID and attaches it to the session as the
// order being worked on.
func (svc *OrderService) OpenOrder(ctx context.Context, s *Session, orderID string) (domain.Order, error) {
	order, err := svc.api.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}
	s.setCurrent(&order)
	return order, nil
}

// CloseOrder detaches the open order from the session.
func (svc *OrderService) CloseOrder(s *Session) {
	s.setCurrent(nil)
}

// SearchOrder finds an order by its human-facing number.
func (svc *OrderService) SearchOrder(ctx context.Context, number string) (domain.Order, error) {
	return svc.api.SearchOrderByNumber(ctx, number)
}

// LoadToday fetches today's orders and installs them on the session.
func (svc *OrderService) LoadToday(ctx context.Context, s *Session) ([]domain.Order, error) {
	seq := s.nextRefreshSeq()
	orders, err := svc.api.ListOrders(ctx, backend.ListOrdersParams{Date: time.Now()})
	if err != nil {
		return nil, err
	}
	s.applyRefresh(seq, orders)
	return orders, nil
}

// TableOrders lists today's non-terminal orders on a table.
func (svc *OrderService) TableOrders(ctx context.Context, tableID string) ([]domain.Order, error) {
	orders, err := svc.api.ListOrders(ctx, backend.ListOrdersParams{Date: time.Now(), TableID: tableID})
	if err != nil {
		return nil, err
	}
	open := orders[:0]
	for _, o := range orders {
		if !o.Status.Terminal() {
			open = append(open, o)
		}
	}
	return open, nil
}

// transition sends the order with an explicit target status name,
// using the backend's configured spelling for the tag.
func (svc *OrderService) transition(ctx context.Context, s *Session, current *domain.Order, target domain.Status) (domain.Order, error) {
	if err := s.beginMutation(); err != nil {
		return domain.Order{}, err
	}
	defer s.endMutation()

	name := svc.statuses.NameFor(target)
	payload := svc.payloadFromOrder(current, &name)
	order, err := svc.api.UpdateOrder(ctx, current.ID, payload)
	if err != nil {
		return domain.Order{}, err
	}

	s.setCurrent(&order)
	svc.logger.Info("order status changed", "order_id", order.ID, "from", string(current.Status), "to", string(target))
	svc.refreshTodayAsync(s)
	return order, nil
}

// tableOccupied checks the backend's view of the table before a submit.
func (svc *OrderService) tableOccupied(ctx context.Context, tableID, currentOrderID string) (bool, error) {
	orders, err := svc.api.ListOrders(ctx, backend.ListOrdersParams{Date: time.Now(), TableID: tableID})
	if err != nil {
		return false, err
	}
	return OccupiedByAnother(orders, tableID, currentOrderID), nil
}

// refreshTodayAsync refetches today's orders in the background. A
// refetch that loses the race to a newer one is discarded by the
// session's sequence check.
func (svc *OrderService) refreshTodayAsync(s *Session) {
	seq := s.nextRefreshSeq()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		orders, err := svc.api.ListOrders(ctx, backend.ListOrdersParams{Date: time.Now()})
		if err != nil {
			svc.logger.Warn("order list refresh failed", "error", err)
			return
		}
		if !s.applyRefresh(seq, orders) {
			svc.logger.Debug("stale order list refresh discarded", "seq", seq)
		}
	}()
}

// payloadFromSession builds the wire payload from the session's cart
// and checkout context.
func (svc *OrderService) payloadFromSession(s *Session, status *string) domain.OrderPayload {
	payload := domain.OrderPayload{
		CompanyToken: svc.companyToken,
		Comment:      s.Comment(),
		IsDelivery:   s.IsDelivery(),
		Status:       status,
	}
	if table := s.Table(); table != nil && !payload.IsDelivery {
		payload.Table = table.ID
	}
	if client := s.Client(); client != nil {
		payload.ClientID = client.ID
	}
	if method := s.PaymentMethod(); method != nil {
		payload.PaymentMethodID = method.ID
	}
	if payload.IsDelivery {
		payload.DeliveryAddress = s.Delivery()
	}

	troco := s.TrocoState()
	if troco.Answered && troco.NeedsChange {
		payload.NeedsChange = true
		payload.AmountReceived = troco.AmountReceived
	}

	for _, item := range s.CartItems() {
		payload.Products = append(payload.Products, productPayload(item))
	}
	return payload
}

// payloadFromOrder rebuilds the wire payload from an order record, for
// transitions that must not disturb the stored lines.
func (svc *OrderService) payloadFromOrder(order *domain.Order, status *string) domain.OrderPayload {
	payload := domain.OrderPayload{
		CompanyToken:    svc.companyToken,
		ClientID:        order.ClientID,
		Table:           order.TableID,
		Comment:         order.Comment,
		PaymentMethodID: order.PaymentMethodID,
		NeedsChange:     order.NeedsChange,
		AmountReceived:  order.AmountReceived,
		IsDelivery:      order.IsDelivery,
		DeliveryAddress: order.Delivery,
		Status:          status,
	}
	for _, item := range order.Items {
		line := domain.ProductPayload{
			Identify:    item.ProductID,
			Qty:         item.Quantity,
			Price:       item.Price,
			Observation: item.Observation,
			Variation:   item.Variation,
			Optionals:   item.Optionals,
		}
		payload.Products = append(payload.Products, line)
	}
	return payload
}

// productPayload converts a cart line into its wire shape, snapshotting
// the unit price the terminal showed.
func productPayload(item domain.CartItem) domain.ProductPayload {
	line := domain.ProductPayload{
		Identify:    item.Product.ID,
		Qty:         item.Quantity,
		Price:       pricing.UnitPrice(item),
		Observation: item.Observation,
	}
	if item.Variation != nil {
		snapshot := domain.VariationSnapshot{ID: item.Variation.ID, Name: item.Variation.Name}
		if item.Variation.Price != nil {
			snapshot.Price = *item.Variation.Price
		}
		line.Variation = &snapshot
	}
	for _, sel := range item.Optionals {
		if sel.Quantity <= 0 {
			continue
		}
		line.Optionals = append(line.Optionals, domain.OptionalSnapshot{
			ID:       sel.Optional.ID,
			Name:     sel.Optional.Name,
			Price:    sel.Optional.Price,
			Quantity: sel.Quantity,
		})
	}
	return line
}
