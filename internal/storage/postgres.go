package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"budgetapp/internal/core"
	"budgetapp/internal/ledger"
)

const pgUniqueViolation = "23505"

type PostgresConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// PostgresRepository is a ledger backed by a pgx connection pool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ ledger.Ledger = (*PostgresRepository)(nil)

// NewPostgresRepository migrates the schema and opens a pool.
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig, logger *slog.Logger) (*PostgresRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := RunPostgresMigrations(cfg.DSN); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "budgetapp"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprintf("%d", cfg.StatementTimeout.Milliseconds())
	}

	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 3 * time.Second
	}
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(dialCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("Connected to Postgres", "max_conns", pc.MaxConns)
	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func isPgUnique(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func notFound(err error, entity string, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return core.NotFound(entity, id)
	}
	return fmt.Errorf("get %s: %w", entity, err)
}

func affectedRow(tag pgconn.CommandTag, entity string, id int64) error {
	if tag.RowsAffected() == 0 {
		return core.NotFound(entity, id)
	}
	return nil
}

// Categories

func (r *PostgresRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (user_id, name, type) VALUES ($1, $2, $3) RETURNING id`,
		c.UserID, c.Name, string(c.Type)).Scan(&c.ID)
	if err != nil {
		return core.Category{}, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) GetCategory(ctx context.Context, userID, id int64) (core.Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx,
		`SELECT id, user_id, name, type FROM categories WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return core.Category{}, notFound(err, "category", id)
	}
	return c, nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, name, type FROM categories WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := make([]core.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) UpdateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE categories SET name = $1, type = $2 WHERE id = $3 AND user_id = $4`,
		c.Name, string(c.Type), c.ID, c.UserID)
	if err != nil {
		return core.Category{}, fmt.Errorf("update category: %w", err)
	}
	if err := affectedRow(tag, "category", c.ID); err != nil {
		return core.Category{}, err
	}
	return c, nil
}

func (r *PostgresRepository) DeleteCategory(ctx context.Context, userID, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE category_id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("delete category transactions: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM budgets WHERE category_id = $1 AND user_id = $2`, id, userID); err != nil {
		return fmt.Errorf("delete category budgets: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if err := affectedRow(tag, "category", id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Transactions

func scanPgTransaction(row pgx.Row) (core.Transaction, error) {
	var (
		t    core.Transaction
		date time.Time
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Amount, &t.Description, &date); err != nil {
		return core.Transaction{}, err
	}
	t.Date = core.NewDate(date.Year(), int(date.Month()), date.Day())
	return t, nil
}

func (r *PostgresRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO transactions (user_id, category_id, amount, description, date)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		t.UserID, t.CategoryID, t.Amount, t.Description, t.Date.Time).Scan(&t.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) GetTransaction(ctx context.Context, userID, id int64) (core.Transaction, error) {
	t, err := scanPgTransaction(r.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return core.Transaction{}, notFound(err, "transaction", id)
	}
	return t, nil
}

func (r *PostgresRepository) ListTransactions(ctx context.Context, userID int64, filter ledger.TransactionFilter) ([]core.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1`
	args := []any{userID}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += fmt.Sprintf(` AND category_id = $%d`, len(args))
	}
	if filter.Month != nil {
		args = append(args, filter.Month.Year, filter.Month.Number)
		query += fmt.Sprintf(` AND EXTRACT(YEAR FROM date) = $%d AND EXTRACT(MONTH FROM date) = $%d`, len(args)-1, len(args))
	}
	query += ` ORDER BY date DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := make([]core.Transaction, 0)
	for rows.Next() {
		t, err := scanPgTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE transactions SET category_id = $1, amount = $2, description = $3, date = $4
		 WHERE id = $5 AND user_id = $6`,
		t.CategoryID, t.Amount, t.Description, t.Date.Time, t.ID, t.UserID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if err := affectedRow(tag, "transaction", t.ID); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func (r *PostgresRepository) DeleteTransaction(ctx context.Context, userID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return affectedRow(tag, "transaction", id)
}

// Budgets

func (r *PostgresRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO budgets (user_id, category_id, month, limit_amount) VALUES ($1, $2, $3, $4) RETURNING id`,
		b.UserID, b.CategoryID, b.Month, b.LimitAmount).Scan(&b.ID)
	if isPgUnique(err) {
		return core.Budget{}, core.ErrDuplicateBudget
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("insert budget: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) GetBudget(ctx context.Context, userID, id int64) (core.Budget, error) {
	b, err := scanBudget(r.pool.QueryRow(ctx,
		`SELECT id, user_id, category_id, month, limit_amount FROM budgets WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return core.Budget{}, notFound(err, "budget", id)
	}
	return b, nil
}

func (r *PostgresRepository) ListBudgets(ctx context.Context, userID int64, month string) ([]core.Budget, error) {
	query := `SELECT id, user_id, category_id, month, limit_amount FROM budgets WHERE user_id = $1`
	args := []any{userID}
	if month != "" {
		query += ` AND month = $2`
		args = append(args, month)
	}
	query += ` ORDER BY id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	out := make([]core.Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE budgets SET category_id = $1, month = $2, limit_amount = $3 WHERE id = $4 AND user_id = $5`,
		b.CategoryID, b.Month, b.LimitAmount, b.ID, b.UserID)
	if isPgUnique(err) {
		return core.Budget{}, core.ErrDuplicateBudget
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	if err := affectedRow(tag, "budget", b.ID); err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

func (r *PostgresRepository) DeleteBudget(ctx context.Context, userID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return affectedRow(tag, "budget", id)
}

// Summary queries

const pgBreakdownQuery = `
SELECT c.id, c.name, COALESCE(s.spent, 0)::float8, b.limit_amount
FROM categories c
LEFT JOIN (
    SELECT category_id, SUM(amount) AS spent
    FROM transactions
    WHERE user_id = $1
      AND EXTRACT(YEAR FROM date) = $2
      AND EXTRACT(MONTH FROM date) = $3
    GROUP BY category_id
) s ON s.category_id = c.id
LEFT JOIN budgets b ON b.user_id = c.user_id AND b.category_id = c.id AND b.month = $4
WHERE c.user_id = $1 AND c.type = 'expense'
ORDER BY c.id`

func (r *PostgresRepository) ExpenseBreakdown(ctx context.Context, userID int64, month core.Month, rawMonth string) ([]core.CategorySpend, error) {
	rows, err := r.pool.Query(ctx, pgBreakdownQuery, userID, month.Year, month.Number, rawMonth)
	if err != nil {
		return nil, fmt.Errorf("expense breakdown: %w", err)
	}
	defer rows.Close()

	out := make([]core.CategorySpend, 0)
	for rows.Next() {
		var row core.CategorySpend
		if err := rows.Scan(&row.CategoryID, &row.Name, &row.Spent, &row.Limit); err != nil {
			return nil, fmt.Errorf("scan breakdown row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) IncomeTotal(ctx context.Context, userID int64, month core.Month) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `
SELECT COALESCE(SUM(t.amount), 0)::float8
FROM transactions t
JOIN categories c ON c.id = t.category_id
WHERE t.user_id = $1 AND c.type = 'income'
  AND EXTRACT(YEAR FROM t.date) = $2
  AND EXTRACT(MONTH FROM t.date) = $3`,
		userID, month.Year, month.Number).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("income total: %w", err)
	}
	return total, nil
}
