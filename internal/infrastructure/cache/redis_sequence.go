package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/recepcion-api/internal/application/receiving"
	"github.com/jhoicas/recepcion-api/internal/domain/repository"
	"github.com/jhoicas/recepcion-api/pkg/config"
	"github.com/redis/go-redis/v9"
)

const sequenceKeyPrefix = "grn_seq:"

// Incrementer es el subconjunto de redis.Cmdable que usa la numeración.
type Incrementer interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// RedisSequenceNumbers numera recepciones con INCR atómico por empresa y año.
// El contador vive fuera de la transacción: un rollback deja un hueco en la numeración.
type RedisSequenceNumbers struct {
	client Incrementer
	prefix string
}

var _ receiving.NumberGenerator = (*RedisSequenceNumbers)(nil)

// NewRedisClient abre el cliente y verifica la conexión con PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

// NewRedisSequenceNumbers construye el generador. prefix vacío usa receiving.DefaultGRNPrefix.
func NewRedisSequenceNumbers(client Incrementer, prefix string) *RedisSequenceNumbers {
	if prefix == "" {
		prefix = receiving.DefaultGRNPrefix
	}
	return &RedisSequenceNumbers{client: client, prefix: prefix}
}

// NextGRNNumber implementa receiving.NumberGenerator; tx no se usa.
func (s *RedisSequenceNumbers) NextGRNNumber(ctx context.Context, _ repository.Tx, companyID string, at time.Time) (string, error) {
	name := receiving.SequenceName(s.prefix, at.Year())
	seq, err := s.client.Incr(ctx, sequenceKey(companyID, name)).Result()
	if err != nil {
		return "", fmt.Errorf("next grn number: %w", err)
	}
	return receiving.FormatGRNNumber(s.prefix, at.Year(), seq), nil
}

func sequenceKey(companyID, name string) string {
	return sequenceKeyPrefix + companyID + ":" + name
}
