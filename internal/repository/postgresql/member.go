package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/member"
	"github.com/cmlabs-hris/hr-portal-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Members are stored as JSONB documents; seq keeps insertion order.
const membersSchema = `
	CREATE TABLE IF NOT EXISTS members (
		seq        BIGSERIAL PRIMARY KEY,
		id         TEXT NOT NULL UNIQUE,
		email      TEXT NOT NULL,
		doc        JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_members_email ON members (LOWER(email));
`

type memberRepositoryImpl struct {
	db *database.DB
}

func NewMemberRepository(db *database.DB) member.MemberRepository {
	return &memberRepositoryImpl{db: db}
}

// EnsureMemberSchema creates the members table when it does not exist.
func EnsureMemberSchema(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, membersSchema); err != nil {
		return fmt.Errorf("create members table: %w", err)
	}
	return nil
}

func decodeMember(doc []byte) (member.Member, error) {
	var m member.Member
	if err := json.Unmarshal(doc, &m); err != nil {
		return member.Member{}, fmt.Errorf("decode member document: %w", err)
	}
	return m, nil
}

// List implements member.MemberRepository.
func (r *memberRepositoryImpl) List(ctx context.Context) ([]member.Member, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT doc FROM members ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []member.Member{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		m, err := decodeMember(doc)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetByID implements member.MemberRepository.
func (r *memberRepositoryImpl) GetByID(ctx context.Context, id string) (member.Member, error) {
	q := GetQuerier(ctx, r.db)

	var doc []byte
	err := q.QueryRow(ctx, `SELECT doc FROM members WHERE id = $1`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return member.Member{}, member.ErrMemberNotFound
		}
		return member.Member{}, err
	}
	return decodeMember(doc)
}

// ExistsByEmail implements member.MemberRepository.
func (r *memberRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM members WHERE LOWER(email) = LOWER($1))`, email).Scan(&exists)
	return exists, err
}

// Create implements member.MemberRepository.
func (r *memberRepositoryImpl) Create(ctx context.Context, newMember member.Member) (member.Member, error) {
	q := GetQuerier(ctx, r.db)

	doc, err := json.Marshal(newMember)
	if err != nil {
		return member.Member{}, err
	}

	insertQuery := `
		INSERT INTO members (id, email, doc)
		SELECT $1, $2, $3
		WHERE NOT EXISTS (SELECT 1 FROM members WHERE LOWER(email) = LOWER($2))
	`
	tag, err := q.Exec(ctx, insertQuery, newMember.ID, newMember.Email, doc)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "members_id_key" {
			return member.Member{}, member.ErrMemberIDExists
		}
		return member.Member{}, err
	}
	if tag.RowsAffected() == 0 {
		return member.Member{}, member.ErrEmailExists
	}
	return newMember, nil
}

// Update implements member.MemberRepository. The row is locked for the duration of fn.
func (r *memberRepositoryImpl) Update(ctx context.Context, id string, fn func(member.Member) (member.Member, error)) (member.Member, error) {
	var updated member.Member
	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		var doc []byte
		err := tx.QueryRow(ctx, `SELECT doc FROM members WHERE id = $1 FOR UPDATE`, id).Scan(&doc)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return member.ErrMemberNotFound
			}
			return err
		}

		stored, err := decodeMember(doc)
		if err != nil {
			return err
		}
		updated, err = fn(stored)
		if err != nil {
			return err
		}

		newDoc, err := json.Marshal(updated)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `UPDATE members SET email = $1, doc = $2, updated_at = NOW() WHERE id = $3`,
			updated.Email, newDoc, id)
		return err
	})
	if err != nil {
		return member.Member{}, err
	}
	return updated, nil
}

// Delete implements member.MemberRepository.
func (r *memberRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return member.ErrMemberNotFound
	}
	return nil
}

// ReplaceAll implements member.MemberRepository.
func (r *memberRepositoryImpl) ReplaceAll(ctx context.Context, members []member.Member) error {
	rows := make([][]interface{}, 0, len(members))
	for _, m := range members {
		doc, err := json.Marshal(m)
		if err != nil {
			return err
		}
		rows = append(rows, []interface{}{m.ID, m.Email, doc})
	}

	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM members`); err != nil {
			return err
		}
		_, err := tx.CopyFrom(ctx, pgx.Identifier{"members"}, []string{"id", "email", "doc"}, pgx.CopyFromRows(rows))
		return err
	})
}
