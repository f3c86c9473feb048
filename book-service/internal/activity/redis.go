package activity

import (
	"gopkg.in/redis.v5"
)

type redisList struct {
	client *redis.Client
}

// NewRedis returns a Log backed by capped Redis lists.
func NewRedis(addr string, limit int) (*Log, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := client.Ping().Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return newLog(&redisList{client: client}, limit), nil
}

func (r *redisList) push(key string, value []byte, limit int) error {
	if err := r.client.LPush(key, value).Err(); err != nil {
		return err
	}
	return r.client.LTrim(key, 0, int64(limit-1)).Err()
}

func (r *redisList) recent(key string, limit int) ([]string, error) {
	return r.client.LRange(key, 0, int64(limit-1)).Result()
}

func (r *redisList) close() error {
	return r.client.Close()
}
