package store

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/clickhouse"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

type ClickhouseOptions struct {
	Addr     string
	Database string
	Username string
	Password string
}

func ConnectClickhouse(opts ClickhouseOptions) (driver.Conn, error) {
	ctx := context.Background()
	var conn driver.Conn
	var err error

	for i := 1; i <= connectAttempts; i++ {
		conn, err = clickhouse.Open(&clickhouse.Options{
			Addr: []string{opts.Addr},
			Auth: clickhouse.Auth{
				Database: opts.Database,
				Username: opts.Username,
				Password: opts.Password,
			},
			ClientInfo: clickhouse.ClientInfo{
				Products: []struct {
					Name    string
					Version string
				}{
					{Name: "vidhook-analytics", Version: "1.0"},
				},
			},
		})

		if err == nil {
			err = conn.Ping(ctx)
			if err == nil {
				fmt.Println("Connected to ClickHouse!")
				return conn, nil
			}
		}

		fmt.Printf("Attempt %d: ClickHouse not ready: %v\n", i, err)
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("could not connect to ClickHouse after multiple attempts: %w", err)
}

// MigrateClickhouse applies the analytics migrations found in dir of
// migrationsFS.
func MigrateClickhouse(opts ClickhouseOptions, migrationsFS fs.FS, dir string) error {
	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("migration source error: %w", err)
	}

	dbURL := fmt.Sprintf("clickhouse://%s:%s@%s/%s?x-multi-statement=true",
		opts.Username, opts.Password, opts.Addr, opts.Database)

	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	if err != nil {
		return fmt.Errorf("migration init error: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}
