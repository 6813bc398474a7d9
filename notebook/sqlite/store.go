// Package sqlite keeps the user collection in a sqlite database, one row
// per user and one row per note.
//
// Unlike the jsonfile backend, read-modify-write cycles run inside a
// transaction, so this is the backend to pick when more than a handful of
// concurrent writers is expected.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/andrebq/jot/notebook"
	_ "github.com/mattn/go-sqlite3"
)

type (
	Store struct {
		db *sql.DB
	}
)

// Open opens (creating when needed) the database at path and ensures the
// schema is in place.
func Open(ctx context.Context, path string) (*Store, error) {
	connstr := fmt.Sprintf("file:%v?_journal=wal&_fk=true&mode=rwc", path)
	db, err := sql.Open("sqlite3", connstr)
	if err != nil {
		return nil, fmt.Errorf("sqlite: unable to open %v, cause %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: unable to ping %v, cause %w", path, err)
	}
	s := &Store{db: db}
	if err := s.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	cmds := []string{
		`create table if not exists users (
			username text primary key,
			password text not null
		)`,
		`create table if not exists notes (
			note_id text primary key,
			username text not null references users(username) on delete cascade,
			position integer not null,
			body text not null,
			created_at text not null
		)`,
		`create index if not exists notes_by_user on notes(username, position)`,
	}
	for _, cmd := range cmds {
		if _, err := s.db.ExecContext(ctx, cmd); err != nil {
			return fmt.Errorf("sqlite: unable to init schema, cause %w", err)
		}
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, u notebook.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: unable to begin transaction, cause %w", err)
	}
	defer tx.Rollback()
	var exists int
	err = tx.QueryRowContext(ctx, `select count(1) from users where username = ?`, u.Username).Scan(&exists)
	if err != nil {
		return fmt.Errorf("sqlite: unable to check username %v, cause %w", u.Username, err)
	}
	if exists > 0 {
		return notebook.ErrUserExists
	}
	if _, err := tx.ExecContext(ctx, `insert into users(username, password) values (?, ?)`, u.Username, u.Password); err != nil {
		return fmt.Errorf("sqlite: unable to insert user %v, cause %w", u.Username, err)
	}
	if err := replaceNotes(ctx, tx, u.Username, u.Notes); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) FindUser(ctx context.Context, username string) (notebook.User, error) {
	var u notebook.User
	err := s.db.QueryRowContext(ctx, `select username, password from users where username = ?`, username).
		Scan(&u.Username, &u.Password)
	if err == sql.ErrNoRows {
		return notebook.User{}, notebook.ErrUserNotFound
	} else if err != nil {
		return notebook.User{}, fmt.Errorf("sqlite: unable to load user %v, cause %w", username, err)
	}
	u.Notes, err = s.loadNotes(ctx, s.db, username)
	if err != nil {
		return notebook.User{}, err
	}
	return u, nil
}

func (s *Store) UpdateUser(ctx context.Context, username string, fn func(*notebook.User) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: unable to begin transaction, cause %w", err)
	}
	defer tx.Rollback()
	var u notebook.User
	err = tx.QueryRowContext(ctx, `select username, password from users where username = ?`, username).
		Scan(&u.Username, &u.Password)
	if err == sql.ErrNoRows {
		return notebook.ErrUserNotFound
	} else if err != nil {
		return fmt.Errorf("sqlite: unable to load user %v, cause %w", username, err)
	}
	if u.Notes, err = s.loadNotes(ctx, tx, username); err != nil {
		return err
	}
	if err := fn(&u); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `update users set password = ? where username = ?`, u.Password, username); err != nil {
		return fmt.Errorf("sqlite: unable to update user %v, cause %w", username, err)
	}
	if err := replaceNotes(ctx, tx, username, u.Notes); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) ListUsers(ctx context.Context) ([]notebook.User, error) {
	rows, err := s.db.QueryContext(ctx, `select username, password from users order by username asc`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: unable to list users, cause %w", err)
	}
	defer rows.Close()
	var out []notebook.User
	for rows.Next() {
		var u notebook.User
		if err := rows.Scan(&u.Username, &u.Password); err != nil {
			return nil, fmt.Errorf("sqlite: unable to scan user row, cause %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: unable to iterate users, cause %w", err)
	}
	for i := range out {
		if out[i].Notes, err = s.loadNotes(ctx, s.db, out[i].Username); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) Close() error { return s.db.Close() }

type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func (s *Store) loadNotes(ctx context.Context, q querier, username string) ([]notebook.Note, error) {
	rows, err := q.QueryContext(ctx, `select note_id, body, created_at from notes where username = ? order by position asc`, username)
	if err != nil {
		return nil, fmt.Errorf("sqlite: unable to load notes for %v, cause %w", username, err)
	}
	defer rows.Close()
	notes := []notebook.Note{}
	for rows.Next() {
		var n notebook.Note
		var created string
		if err := rows.Scan(&n.ID, &n.Text, &created); err != nil {
			return nil, fmt.Errorf("sqlite: unable to scan note row, cause %w", err)
		}
		if n.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("sqlite: unable to parse note timestamp %v, cause %w", created, err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: unable to iterate notes for %v, cause %w", username, err)
	}
	return notes, nil
}

// replaceNotes rewrites the user's note rows from scratch. Note lists are
// tiny, keeping the positional order correct matters more than a minimal
// diff.
func replaceNotes(ctx context.Context, tx *sql.Tx, username string, notes []notebook.Note) error {
	if _, err := tx.ExecContext(ctx, `delete from notes where username = ?`, username); err != nil {
		return fmt.Errorf("sqlite: unable to clear notes for %v, cause %w", username, err)
	}
	for i, n := range notes {
		_, err := tx.ExecContext(ctx,
			`insert into notes(note_id, username, position, body, created_at) values (?, ?, ?, ?, ?)`,
			n.ID, username, i, n.Text, n.CreatedAt.Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("sqlite: unable to insert note %v, cause %w", n.ID, err)
		}
	}
	return nil
}
