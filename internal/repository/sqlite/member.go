package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hr-portal-backend-go/internal/domain/member"
)

type memberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) member.MemberRepository {
	return &memberRepository{db: db}
}

func decodeMember(doc string) (member.Member, error) {
	var m member.Member
	if err := json.Unmarshal([]byte(doc), &m); err != nil {
		return member.Member{}, fmt.Errorf("decode member document: %w", err)
	}
	return m, nil
}

// List implements member.MemberRepository.
func (r *memberRepository) List(ctx context.Context) ([]member.Member, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT doc FROM members ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []member.Member{}
	for rows.Next() {
		var doc string
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
func (r *memberRepository) GetByID(ctx context.Context, id string) (member.Member, error) {
	var doc string
	err := r.db.QueryRowContext(ctx, `SELECT doc FROM members WHERE id = ?`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return member.Member{}, member.ErrMemberNotFound
		}
		return member.Member{}, err
	}
	return decodeMember(doc)
}

// ExistsByEmail implements member.MemberRepository.
func (r *memberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM members WHERE email = ? COLLATE NOCASE)`, email).Scan(&exists)
	return exists, err
}

// Create implements member.MemberRepository.
func (r *memberRepository) Create(ctx context.Context, newMember member.Member) (member.Member, error) {
	doc, err := json.Marshal(newMember)
	if err != nil {
		return member.Member{}, err
	}

	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		var emailTaken, idTaken bool
		checkQuery := `
			SELECT
				EXISTS(SELECT 1 FROM members WHERE email = ? COLLATE NOCASE),
				EXISTS(SELECT 1 FROM members WHERE id = ?)
		`
		if err := tx.QueryRowContext(ctx, checkQuery, newMember.Email, newMember.ID).Scan(&emailTaken, &idTaken); err != nil {
			return err
		}
		switch {
		case emailTaken:
			return member.ErrEmailExists
		case idTaken:
			return member.ErrMemberIDExists
		}

		_, err := tx.ExecContext(ctx, `INSERT INTO members (id, email, doc) VALUES (?, ?, ?)`,
			newMember.ID, newMember.Email, string(doc))
		return err
	})
	if err != nil {
		return member.Member{}, err
	}
	return newMember, nil
}

// Update implements member.MemberRepository.
func (r *memberRepository) Update(ctx context.Context, id string, fn func(member.Member) (member.Member, error)) (member.Member, error) {
	var updated member.Member
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var doc string
		err := tx.QueryRowContext(ctx, `SELECT doc FROM members WHERE id = ?`, id).Scan(&doc)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
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
		_, err = tx.ExecContext(ctx,
			`UPDATE members SET email = ?, doc = ?, updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now') WHERE id = ?`,
			updated.Email, string(newDoc), id)
		return err
	})
	if err != nil {
		return member.Member{}, err
	}
	return updated, nil
}

// Delete implements member.MemberRepository.
func (r *memberRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return member.ErrMemberNotFound
	}
	return nil
}

// ReplaceAll implements member.MemberRepository.
func (r *memberRepository) ReplaceAll(ctx context.Context, members []member.Member) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM members`); err != nil {
			return err
		}
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO members (id, email, doc) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, m := range members {
			doc, err := json.Marshal(m)
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, m.ID, m.Email, string(doc)); err != nil {
				return fmt.Errorf("insert member %s: %w", m.ID, err)
			}
		}
		return nil
	})
}
