package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/entity"
	"github.com/Hiro-mackay/gc-commerce/backend/internal/domain/repository"
	"github.com/Hiro-mackay/gc-commerce/backend/pkg/apperror"
)

// SessionRepository はセッションリポジトリの実装です
// セッションはログインフローがconnect-pg-simple互換のsessionsテーブルに書き込み、
// 本システムは読み取りのみ行います
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository は新しいSessionRepositoryを作成します
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// FindBySID はセッションIDでセッションを検索します
func (r *SessionRepository) FindBySID(ctx context.Context, sid string) (*entity.Session, error) {
	const query = `SELECT sid, sess, expire FROM sessions WHERE sid = $1`

	var (
		gotSID  string
		rawSess []byte
		expire  time.Time
	)

	err := r.pool.QueryRow(ctx, query, sid).Scan(&gotSID, &rawSess, &expire)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("session")
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	// ペイロードは不透明。ゲートウェイが関知するフィールドのみ取り出す
	var data entity.SessionData
	if err := json.Unmarshal(rawSess, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session payload: %w", err)
	}

	return &entity.Session{
		SID:    gotSID,
		Data:   data,
		Expire: expire,
	}, nil
}

// インターフェースの実装を保証
var _ repository.SessionRepository = (*SessionRepository)(nil)
