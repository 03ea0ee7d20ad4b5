package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"club_service/internal/config"
	"club_service/internal/models"
	"club_service/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type PostgresRepo struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, cfg *config.Config) (*PostgresRepo, error) {
	const op = "storage.postgres.New"

	poolConfig, err := pgxpool.ParseConfig(dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse config: %w", op, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create pool: %w", op, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	return &PostgresRepo{pool: pool}, nil
}

func (r *PostgresRepo) CreateUser(
	ctx context.Context,
	firstName, lastName, email string,
	passHash []byte,
	isAdmin bool,
) (models.User, error) {
	const op = "storage.postgres.CreateUser"

	query := `
		INSERT INTO users (first_name, last_name, email, password_hash, is_admin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING user_id, first_name, last_name, email, password_hash, is_member, is_admin, joined_date;
	`

	var u models.User
	err := r.pool.QueryRow(ctx, query, firstName, lastName, email, string(passHash), isAdmin).Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PassHash,
		&u.IsMember,
		&u.IsAdmin,
		&u.JoinedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.User{}, storage.ErrUserExists
		}

		return models.User{}, fmt.Errorf("%s: failed to save user: %w", op, err)
	}

	return u, nil
}

func (r *PostgresRepo) UserByEmail(ctx context.Context, email string) (models.User, error) {
	query := `
		SELECT user_id, first_name, last_name, email, password_hash, is_member, is_admin, joined_date
		FROM users
		WHERE email = $1;
	`

	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *PostgresRepo) UserByID(ctx context.Context, id int64) (models.User, error) {
	query := `
		SELECT user_id, first_name, last_name, email, password_hash, is_member, is_admin, joined_date
		FROM users
		WHERE user_id = $1;
	`

	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PostgresRepo) scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PassHash,
		&u.IsMember,
		&u.IsAdmin,
		&u.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrUserNotFound
		}

		return models.User{}, err
	}

	return u, nil
}

func (r *PostgresRepo) SetMembership(ctx context.Context, userID int64, isMember bool) error {
	const op = "storage.postgres.SetMembership"

	query := `UPDATE users SET is_member = $1 WHERE user_id = $2`

	tag, err := r.pool.Exec(ctx, query, isMember, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrUserNotFound
	}

	return nil
}

func (r *PostgresRepo) AllUsers(ctx context.Context) ([]models.User, error) {
	const op = "storage.postgres.AllUsers"

	query := `
		SELECT user_id, first_name, last_name, email, password_hash, is_member, is_admin, joined_date
		FROM users
		ORDER BY joined_date DESC;
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		err := rows.Scan(
			&u.ID,
			&u.FirstName,
			&u.LastName,
			&u.Email,
			&u.PassHash,
			&u.IsMember,
			&u.IsAdmin,
			&u.JoinedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		users = append(users, u)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Err())
	}

	return users, nil
}

func (r *PostgresRepo) Stats(ctx context.Context) (models.Stats, error) {
	const op = "storage.postgres.Stats"

	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE is_member),
			(SELECT COUNT(*) FROM messages);
	`

	var s models.Stats
	err := r.pool.QueryRow(ctx, query).Scan(&s.TotalUsers, &s.TotalMembers, &s.TotalMessages)
	if err != nil {
		return models.Stats{}, fmt.Errorf("%s: %w", op, err)
	}

	return s, nil
}

func (r *PostgresRepo) CreateMessage(ctx context.Context, title, text string, userID int64) (models.Message, error) {
	const op = "storage.postgres.CreateMessage"

	query := `
		INSERT INTO messages (title, text, user_id)
		VALUES ($1, $2, $3)
		RETURNING message_id, title, text, user_id, created_at;
	`

	var m models.Message
	err := r.pool.QueryRow(ctx, query, title, text, userID).Scan(
		&m.ID,
		&m.Title,
		&m.Text,
		&m.UserID,
		&m.CreatedAt,
	)
	if err != nil {
		return models.Message{}, fmt.Errorf("%s: %w", op, err)
	}

	return m, nil
}

func (r *PostgresRepo) MessageByID(ctx context.Context, id int64) (models.MessageWithAuthor, error) {
	query := `
		SELECT m.message_id, m.title, m.text, m.user_id, m.created_at,
		       u.first_name, u.last_name, u.email
		FROM messages m
		JOIN users u ON m.user_id = u.user_id
		WHERE m.message_id = $1;
	`

	var m models.MessageWithAuthor
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.Title,
		&m.Text,
		&m.UserID,
		&m.CreatedAt,
		&m.AuthorFirstName,
		&m.AuthorLastName,
		&m.AuthorEmail,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.MessageWithAuthor{}, storage.ErrMessageNotFound
		}

		return models.MessageWithAuthor{}, err
	}

	return m, nil
}

// Messages returns newest-first messages joined with their authors.
// limit <= 0 returns all of them.
func (r *PostgresRepo) Messages(ctx context.Context, limit int) ([]models.MessageWithAuthor, error) {
	const op = "storage.postgres.Messages"

	query := `
		SELECT m.message_id, m.title, m.text, m.user_id, m.created_at,
		       u.first_name, u.last_name, u.email
		FROM messages m
		JOIN users u ON m.user_id = u.user_id
		ORDER BY m.created_at DESC
	`

	var (
		rows pgx.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.pool.Query(ctx, query+` LIMIT $1;`, limit)
	} else {
		rows, err = r.pool.Query(ctx, query+`;`)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var msgs []models.MessageWithAuthor
	for rows.Next() {
		var m models.MessageWithAuthor
		err := rows.Scan(
			&m.ID,
			&m.Title,
			&m.Text,
			&m.UserID,
			&m.CreatedAt,
			&m.AuthorFirstName,
			&m.AuthorLastName,
			&m.AuthorEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		msgs = append(msgs, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Err())
	}

	return msgs, nil
}

func (r *PostgresRepo) MessagesByUser(ctx context.Context, userID int64) ([]models.Message, error) {
	const op = "storage.postgres.MessagesByUser"

	query := `
		SELECT message_id, title, text, user_id, created_at
		FROM messages
		WHERE user_id = $1
		ORDER BY created_at DESC;
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var msgs []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.Title, &m.Text, &m.UserID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		msgs = append(msgs, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Err())
	}

	return msgs, nil
}

func (r *PostgresRepo) DeleteMessage(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeleteMessage"

	query := `DELETE FROM messages WHERE message_id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrMessageNotFound
	}

	return nil
}

func (r *PostgresRepo) CreateSession(ctx context.Context, s models.Session) error {
	const op = "storage.postgres.CreateSession"

	query := `
		INSERT INTO sessions (token, user_id, expires_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.pool.Exec(ctx, query, s.Token, s.UserID, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *PostgresRepo) SessionByToken(ctx context.Context, token string) (models.Session, error) {
	query := `
		SELECT token, user_id, expires_at, created_at
		FROM sessions
		WHERE token = $1;
	`

	var s models.Session
	err := r.pool.QueryRow(ctx, query, token).Scan(&s.Token, &s.UserID, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Session{}, storage.ErrSessionNotFound
		}

		return models.Session{}, err
	}

	return s, nil
}

func (r *PostgresRepo) DeleteSession(ctx context.Context, token string) error {
	query := `DELETE FROM sessions WHERE token = $1`

	_, err := r.pool.Exec(ctx, query, token)

	return err
}

func (r *PostgresRepo) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	const op = "storage.postgres.DeleteExpiredSessions"

	query := `DELETE FROM sessions WHERE expires_at <= NOW()`

	tag, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected(), nil
}

func (r *PostgresRepo) Close() {
	r.pool.Close()
}

// * dsn формирует конфигурацию базы данных.
func dsn(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s database=%s sslmode=%s",
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)
}
