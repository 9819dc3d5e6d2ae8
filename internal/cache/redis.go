package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Ledger cache keys
const (
	LedgerKeyFmt    = "ledger:vendor:%d"
	LedgerBalances  = "ledger:balances"
	LedgerKeyPrefix = "ledger:*"
)

var client *redis.Client

// Init connects to Redis. On failure the client stays nil and every helper in
// this package degrades to a no-op, so the API keeps serving from Postgres.
func Init(host string, port int, password string, db int) error {
	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + strconv.Itoa(port),
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		// Close the failed client and set to nil for graceful degradation
		client.Close()
		client = nil
		return err
	}
	return nil
}

// SetClient swaps the package client. Passing nil disables caching.
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// Close releases the connection if one is open.
func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}

// LedgerKey is the key holding a vendor's reconciled history.
func LedgerKey(vendorID int) string {
	return fmt.Sprintf(LedgerKeyFmt, vendorID)
}

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidatePattern removes all keys matching a glob pattern
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateKeys removes specific cache keys
func InvalidateKeys(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// InvalidateLedger clears a vendor's statement and the admin overview.
// Called when: CreateRecord, UpdateRecord, DeleteRecord, ImportRecords
func InvalidateLedger(ctx context.Context, vendorID int) {
	InvalidateKeys(ctx, LedgerKey(vendorID), LedgerBalances)
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}

// Store adapts the package-level client to the services' cache interface.
type Store struct{}

func (Store) Get(ctx context.Context, key string) ([]byte, bool) { return GetCached(ctx, key) }

func (Store) Set(ctx context.Context, key string, data []byte, ttl time.Duration) {
	SetCached(ctx, key, data, ttl)
}

func (Store) Delete(ctx context.Context, keys ...string) { InvalidateKeys(ctx, keys...) }
