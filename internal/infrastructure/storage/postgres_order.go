package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/yourusername/whatsapp-order-bot/internal/domain/constants"
	"github.com/yourusername/whatsapp-order-bot/internal/domain/entity"
	"github.com/yourusername/whatsapp-order-bot/internal/domain/repository"
	"github.com/yourusername/whatsapp-order-bot/pkg/logger"
)

const (
	postgresConnectAttemptsDefault = 20
	postgresConnectDelayDefault    = 2 * time.Second
)

// PostgresOrderRepository persiste os pedidos confirmados no Postgres
type PostgresOrderRepository struct {
	db *sql.DB
}

// NewPostgresOrderRepository conecta com retry e garante o schema
func NewPostgresOrderRepository(dsn string) (*PostgresOrderRepository, error) {
	db, err := openPostgresWithRetry(dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	schema := `
CREATE TABLE IF NOT EXISTS confirmed_orders (
	id SERIAL PRIMARY KEY,
	user_id TEXT NOT NULL,
	session_id TEXT NOT NULL,
	product TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	status TEXT DEFAULT 'pending',
	order_group TEXT DEFAULT 'main',
	created_at TIMESTAMPTZ DEFAULT NOW()
);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create confirmed_orders table: %w", err)
	}
	if _, err := db.Exec(`ALTER TABLE confirmed_orders ADD COLUMN IF NOT EXISTS order_group TEXT DEFAULT 'main'`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("alter confirmed_orders add order_group: %w", err)
	}

	return &PostgresOrderRepository{db: db}, nil
}

// Close fecha o pool de conexões
func (r *PostgresOrderRepository) Close() error {
	return r.db.Close()
}

func (r *PostgresOrderRepository) Save(ctx context.Context, userID, sessionID string, items map[string]int, status entity.OrderStatus, orderGroup string) error {
	for product, qty := range items {
		if qty <= 0 {
			continue
		}
		_, err := r.db.ExecContext(ctx, `
	INSERT INTO confirmed_orders (user_id, session_id, product, quantity, status, order_group)
	VALUES ($1,$2,$3,$4,$5,$6)`,
			userID, sessionID, product, qty, string(status), orderGroup)
		if err != nil {
			return fmt.Errorf("insert confirmed order: %w", err)
		}
	}
	return nil
}

func (r *PostgresOrderRepository) QueryAggregated(ctx context.Context, userID string, status entity.OrderStatus, orderGroup string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT product, SUM(quantity) AS total_quantity
	FROM confirmed_orders
	WHERE status = $1 AND order_group = $2 AND user_id = $3
	GROUP BY product
	ORDER BY total_quantity DESC`,
		string(status), orderGroup, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]int)
	for rows.Next() {
		var product string
		var quantity int
		if err := rows.Scan(&product, &quantity); err != nil {
			return nil, err
		}
		totals[product] = quantity
	}
	return totals, rows.Err()
}

func (r *PostgresOrderRepository) ListGroups(ctx context.Context, userID string, status entity.OrderStatus) (map[string]map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT order_group, product, quantity
	FROM confirmed_orders
	WHERE status = $1 AND order_group != $2 AND user_id = $3
	ORDER BY order_group, product`,
		string(status), constants.MainOrderGroup, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make(map[string]map[string]int)
	for rows.Next() {
		var group, product string
		var quantity int
		if err := rows.Scan(&group, &product, &quantity); err != nil {
			return nil, err
		}
		if groups[group] == nil {
			groups[group] = make(map[string]int)
		}
		groups[group][product] += quantity
	}
	return groups, rows.Err()
}

func (r *PostgresOrderRepository) PromoteGroup(ctx context.Context, userID, orderGroup string) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE confirmed_orders
	SET status = $1, order_group = $2
	WHERE user_id = $3 AND order_group = $4`,
		string(entity.StatusConfirmed), constants.MainOrderGroup, userID, orderGroup)
	return err
}

func (r *PostgresOrderRepository) DeleteGroup(ctx context.Context, userID, orderGroup string) error {
	_, err := r.db.ExecContext(ctx, `
	DELETE FROM confirmed_orders
	WHERE user_id = $1 AND order_group = $2`,
		userID, orderGroup)
	return err
}

var _ repository.OrderRepository = (*PostgresOrderRepository)(nil)

// NewOrderRepositoryFromEnv usa Postgres quando há DSN e cai para o
// repositório em memória quando não há ou quando a conexão falha
func NewOrderRepositoryFromEnv() repository.OrderRepository {
	dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	if dsn == "" {
		dsn = buildPostgresDSNFromEnv()
	}
	if dsn == "" {
		return NewMemoryOrderRepository()
	}
	repo, err := NewPostgresOrderRepository(dsn)
	if err != nil {
		logger.ErrorLogger.Printf("order repository: Postgres indisponível, usando memória: %v", err)
		return NewMemoryOrderRepository()
	}
	return repo
}

func buildPostgresDSNFromEnv() string {
	host := strings.TrimSpace(os.Getenv("POSTGRES_HOST"))
	user := strings.TrimSpace(os.Getenv("POSTGRES_USER"))
	password := os.Getenv("POSTGRES_PASSWORD")
	db := strings.TrimSpace(os.Getenv("POSTGRES_DB"))
	port := strings.TrimSpace(os.Getenv("POSTGRES_PORT"))
	sslmode := strings.TrimSpace(os.Getenv("POSTGRES_SSLMODE"))

	if host == "" || user == "" || db == "" {
		return ""
	}
	if port == "" {
		port = "5432"
	}
	if sslmode == "" {
		sslmode = "disable"
	}

	db = strings.TrimPrefix(db, "/")
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(host, port),
		Path:   "/" + db,
	}
	if password == "" {
		u.User = url.User(user)
	} else {
		u.User = url.UserPassword(user, password)
	}
	q := u.Query()
	q.Set("sslmode", sslmode)
	u.RawQuery = q.Encode()
	return u.String()
}

func openPostgresWithRetry(dsn string) (*sql.DB, error) {
	attempts := getenvInt("POSTGRES_CONNECT_MAX_ATTEMPTS", postgresConnectAttemptsDefault)
	delaySeconds := getenvInt("POSTGRES_CONNECT_RETRY_SECONDS", int(postgresConnectDelayDefault/time.Second))
	delay := time.Duration(delaySeconds) * time.Second
	if attempts <= 0 {
		attempts = postgresConnectAttemptsDefault
	}
	if delay <= 0 {
		delay = postgresConnectDelayDefault
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sql.Open("postgres", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				return db, nil
			}
		}
		if db != nil {
			_ = db.Close()
		}
		lastErr = err
		if attempt < attempts {
			time.Sleep(delay)
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("postgres connection failed")
	}
	return nil, lastErr
}

func getenvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
