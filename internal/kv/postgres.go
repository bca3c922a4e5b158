package kv

import (
	"context"
	"fmt"
	"strings"

	"veostudio/internal/infra"
	"veostudio/internal/sqlinline"
)

// Postgres keeps values in the studio_kv table.
type Postgres struct {
	sql infra.SQLExecutor
}

func NewPostgres(sql infra.SQLExecutor) *Postgres {
	return &Postgres{sql: sql}
}

// Migrate creates the backing table when it does not exist yet.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.sql.Exec(ctx, sqlinline.QCreateKVTable); err != nil {
		return fmt.Errorf("kv: migrate: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	if strings.TrimSpace(key) == "" {
		return "", false, errEmptyKey
	}
	var value string
	if err := p.sql.QueryRow(ctx, sqlinline.QSelectKV, key).Scan(&value); err != nil {
		if infra.IsNoRows(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("kv: get %s: %w", key, err)
	}
	return value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return errEmptyKey
	}
	if _, err := p.sql.Exec(ctx, sqlinline.QUpsertKV, key, value); err != nil {
		return fmt.Errorf("kv: set %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Remove(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return errEmptyKey
	}
	if _, err := p.sql.Exec(ctx, sqlinline.QDeleteKV, key); err != nil {
		return fmt.Errorf("kv: remove %s: %w", key, err)
	}
	return nil
}

var _ Store = (*Postgres)(nil)
