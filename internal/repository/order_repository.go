package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campus-mailroom/mailroom-api/internal/models"
	"github.com/campus-mailroom/mailroom-api/internal/query"
)

const (
	orderColumns = `o.id, o.user_id, o.professor_id, o.spend_category_id, o.vendor, o.shipping_preference, o.purpose, o.work_tag,
        o.cart_link, o.comment, o.status, o.request_date, o.purchase_date, o.tax, o.total, o.receipts, o.created_at, o.updated_at`
	orderFrom = `FROM orders o LEFT JOIN users u ON u.id = o.user_id`
)

var orderSelect = fmt.Sprintf("SELECT %s,\n        %s\n        %s", orderColumns, joinedUserColumns("u", "user"), orderFrom)

var orderSortable = query.Sortable{
	"createdAt":    "o.created_at",
	"updatedAt":    "o.updated_at",
	"requestDate":  "o.request_date",
	"purchaseDate": "o.purchase_date",
	"vendor":       "o.vendor",
	"status":       "o.status",
	"total":        "o.total",
}

type orderRow struct {
	models.Order
	User joinedUser `db:"user"`
}

func (r orderRow) toModel() models.Order {
	order := r.Order
	order.User = r.User.toModel()
	return order
}

// OrderRepository persists purchase requests and their line items.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository constructs an OrderRepository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// List returns one page of orders with requester and items.
func (r *OrderRepository) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, int, error) {
	var where query.Where
	if filter.Status != "" {
		where.Eq("o.status", string(filter.Status))
	}
	if filter.UserID != "" {
		where.Eq("o.user_id", filter.UserID)
	}
	if filter.ProfessorID != "" {
		where.Eq("o.professor_id", filter.ProfessorID)
	}
	where.ContainsAny(filter.Search, "o.vendor", "o.purpose", "o.work_tag", "u.full_name", "u.net_id")
	where.Between("o.request_date", filter.StartDate, filter.EndDate)
	args := where.Args()

	listQuery := fmt.Sprintf("%s%s ORDER BY %s LIMIT %d OFFSET %d",
		orderSelect, where.SQL(), orderSortable.OrderBy(filter.Params, "createdAt", query.OrderDesc, "o.id"), filter.Limit(), filter.Offset())
	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+orderFrom+where.SQL(), args...); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	orders := make([]models.Order, len(rows))
	for i, row := range rows {
		orders[i] = row.toModel()
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListByUser returns every order raised by a user, newest request first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, orderSelect+" WHERE o.user_id = $1 ORDER BY o.request_date DESC, o.id DESC", userID); err != nil {
		return nil, fmt.Errorf("list user orders: %w", err)
	}
	orders := make([]models.Order, len(rows))
	for i, row := range rows {
		orders[i] = row.toModel()
	}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByID fetches an order with requester and items.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var row orderRow
	if err := r.db.GetContext(ctx, &row, orderSelect+" WHERE o.id = $1", id); err != nil {
		return nil, err
	}
	orders := []models.Order{row.toModel()}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *OrderRepository) attachItems(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	for i, order := range orders {
		ids[i] = order.ID
	}
	const itemsQuery = `SELECT id, order_id, name, quantity, link, status FROM order_items WHERE order_id = ANY($1) ORDER BY name ASC, id ASC`
	var items []models.OrderItem
	if err := r.db.SelectContext(ctx, &items, itemsQuery, pq.Array(ids)); err != nil {
		return fmt.Errorf("list order items: %w", err)
	}
	byOrder := make(map[string][]models.OrderItem, len(orders))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []models.OrderItem{}
		}
	}
	return nil
}

// Create stores an order and its items in one transaction. The requester is
// matched by NetID and created as a student when unknown; order.UserID is set
// from it.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order, requester *models.User) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := r.createTx(ctx, tx, order, requester); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order: %w", err)
	}
	return nil
}

func (r *OrderRepository) createTx(ctx context.Context, tx *sqlx.Tx, order *models.Order, requester *models.User) error {
	now := time.Now().UTC()
	// A known NetID keeps its stored user fields.
	const upsertUser = `INSERT INTO users (id, net_id, email, full_name, role, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $6)
        ON CONFLICT (net_id) DO UPDATE SET updated_at = users.updated_at
        RETURNING id`
	if err := tx.GetContext(ctx, &order.UserID, upsertUser,
		uuid.NewString(), requester.NetID, requester.Email, requester.FullName, string(models.RoleStudent), now); err != nil {
		return fmt.Errorf("upsert requester: %w", err)
	}

	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.Status == "" {
		order.Status = models.OrderStatusRequested
	}
	if order.RequestDate.IsZero() {
		order.RequestDate = now
	}
	if order.Receipts == nil {
		order.Receipts = pq.StringArray{}
	}
	order.CreatedAt = now
	order.UpdatedAt = now
	const insertOrder = `INSERT INTO orders (id, user_id, professor_id, spend_category_id, vendor, shipping_preference, purpose, work_tag,
        cart_link, comment, status, request_date, purchase_date, tax, total, receipts, created_at, updated_at)
        VALUES (:id, :user_id, :professor_id, :spend_category_id, :vendor, :shipping_preference, :purpose, :work_tag,
        :cart_link, :comment, :status, :request_date, :purchase_date, :tax, :total, :receipts, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, insertOrder, order); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return r.insertItemsTx(ctx, tx, order.ID, order.Items)
}

func (r *OrderRepository) insertItemsTx(ctx context.Context, tx *sqlx.Tx, orderID string, items []models.OrderItem) error {
	const insertItem = `INSERT INTO order_items (id, order_id, name, quantity, link, status) VALUES (:id, :order_id, :name, :quantity, :link, :status)`
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		items[i].OrderID = orderID
		if _, err := tx.NamedExecContext(ctx, insertItem, items[i]); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// Update applies a partial change set. With replaceItems the stored line items
// are swapped for items in the same transaction.
func (r *OrderRepository) Update(ctx context.Context, id string, set query.Assignments, items []models.OrderItem, replaceItems bool) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	set.Add("updated_at", time.Now().UTC())
	updateQuery := fmt.Sprintf("UPDATE orders SET %s WHERE id = $%d", set.SQL(), set.Next())
	result, err := tx.ExecContext(ctx, updateQuery, append(set.Args(), id)...)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("update order: %w", err)
	}
	if err := requireAffected(result, "update order"); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if replaceItems {
		if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("clear order items: %w", err)
		}
		if err := r.insertItemsTx(ctx, tx, id, items); err != nil {
			tx.Rollback() //nolint:errcheck
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order update: %w", err)
	}
	return nil
}

// AppendReceipt records a stored receipt file name on the order.
func (r *OrderRepository) AppendReceipt(ctx context.Context, id, name string) error {
	const appendQuery = `UPDATE orders SET receipts = array_append(receipts, $2), updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, appendQuery, id, name, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("append receipt: %w", err)
	}
	return requireAffected(result, "append receipt")
}

// Delete removes an order and its items.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("delete order items: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("delete order: %w", err)
	}
	if err := requireAffected(result, "delete order"); err != nil {
		tx.Rollback() //nolint:errcheck
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order delete: %w", err)
	}
	return nil
}
